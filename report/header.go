package report

import (
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/layout"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
)

// Activities are the checkbox labels of the form.
var Activities = []string{"INDUCCIÓN", "ENTRENAMIENTO", "CAPACITACIÓN", "CHARLA", "REUNIÓN", "LÚDICA"}

// Title is the form heading.
const Title = "REGISTRO DE ASISTENCIA"

// drawFullHeader draws the first page header down to the legal text and
// returns the y of the line after it.
func (c *composer) drawFullHeader(f *attendance.Facilitator) float64 {
	l, cv := c.layout, c.canvas
	w, h := l.PageWidth, l.PageHeight

	boxBottom := h - l.TitleBoxTopGap - l.TitleBoxHeight
	boxTop := h - l.TitleBoxTopGap
	cv.Rect(l.TitleBoxX, boxBottom, w-2*l.TitleBoxX, l.TitleBoxHeight)
	cv.Line(l.DividerX, boxBottom, l.DividerX, boxTop)
	cv.Line(l.DividerX, h-l.DividerMidGap, w-l.TitleBoxX, h-l.DividerMidGap)

	if c.logo != nil {
		if err := cv.Image(c.logo, l.LogoX, h-l.LogoY, l.LogoW, l.LogoH, true); err != nil {
			c.log.Warn("logo not drawn", observability.Error("error", err))
		}
	}

	c.underlinedTitle(l.TitleX, h-l.TitleTopGap)

	cv.Text(l.CodeX, h-l.CodeTopGap, c.opts.FormCode, FontBold, l.CodeSize)
	cv.Text(l.CodeX, h-l.RevisionTopGap, c.opts.Revision, FontBold, l.CodeSize)

	x, y := l.CheckboxX, h-l.CheckboxTopGap
	for _, act := range Activities {
		cv.Rect(x, y, l.CheckboxSize, l.CheckboxSize)
		cv.Text(x+l.CheckboxSize+4, y+1, act, FontRegular, l.CheckboxLabelSize)
		x += l.CheckboxStep
	}

	fields := [][2]string{
		{"ÁREA/FRENTE", f.Area},
		{"FECHA", c.date},
		{"LUGAR", f.Location},
		{"DURACIÓN", f.Duration},
		{"FACILITADOR", f.Name},
		{"FIRMA", ""},
	}
	yStart := h - l.FieldTopGap
	for i := 0; i < len(fields); i += 2 {
		fy := yStart - float64(i/2)*l.FieldRowStep
		for j, fx := range []float64{l.FieldX1, l.FieldX2} {
			label, value := fields[i+j][0], fields[i+j][1]
			cv.Text(fx, fy, label+":", FontBold, l.FieldLabelSize)
			cv.Line(fx+l.FieldRuleFrom, fy-2, fx+l.FieldRuleTo, fy-2)
			if value != "" {
				cv.Text(fx+l.FieldValueX, fy, value, FontRegular, l.FieldValueSize)
			}
		}
	}

	if f.Signature != "" {
		c.signature(0, f.ID, f.Signature, l.FieldX2+l.FieldValueX, yStart-l.SignatureDrop, l.SignatureW, l.SignatureH)
	}

	yTemas := yStart - l.TopicsDrop
	cv.Text(l.FieldX1, yTemas, "TEMAS:", FontBold, l.TopicsSize)
	if f.Topic != "" {
		cv.Text(l.TopicsValueX, yTemas, f.Topic, FontRegular, l.TopicsSize)
	}
	for i := 0; i < l.TopicsLines; i++ {
		yTemas -= l.TopicsStep
		cv.Line(l.TopicsValueX, yTemas, w-l.TopicsRightMargin, yTemas)
	}

	return c.legal(l.LegalX, yTemas-l.LegalDrop, l.LegalLeading)
}

// drawShortHeader draws the continuation page header and returns the y of
// the line after the legal text.
func (c *composer) drawShortHeader() float64 {
	l := c.layout
	c.underlinedTitle(l.ShortTitleX, l.PageHeight-l.ShortTitleTopGap)
	return c.legal(l.LegalX, l.PageHeight-l.ShortLegalTopGap, l.ShortLegalLeading)
}

func (c *composer) underlinedTitle(x, y float64) {
	l, cv := c.layout, c.canvas
	cv.Text(x, y, Title, FontBoldOblique, l.TitleSize)
	tw := cv.TextWidth(Title, FontBoldOblique, l.TitleSize)
	cv.Line(x, y-l.UnderlineDrop, x+tw, y-l.UnderlineDrop)
}

func (c *composer) legal(x, y, leading float64) float64 {
	lines, next := layout.Flow{X: x, Y: y, Leading: leading}.Place(c.legalLines)
	for _, ln := range lines {
		if ln.Text == "" {
			continue
		}
		c.canvas.Text(ln.X, ln.Y, ln.Text, FontRegular, c.layout.LegalSize)
	}
	return next
}

// drawFrame closes page one with the outer border. lowest is the bottom
// edge of the last table row on the page; the frame follows it and only
// stops at the page margin.
func (c *composer) drawFrame(lowest float64) {
	l := c.layout
	top := l.PageHeight - l.TitleBoxTopGap + l.FramePad
	bottom := max(l.FrameMinBottom, lowest-l.FramePad)
	c.canvas.Rect(l.TitleBoxX, bottom, l.PageWidth-2*l.TitleBoxX, top-bottom)
}

package report

import (
	"strconv"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
)

// ColumnLabels are the table header cells in column order.
var ColumnLabels = [5]string{"No.", "NOMBRE", "CARGO", "CÉDULA", "FIRMA"}

// drawTableHeader draws the column header row with its bottom edge at y.
func (c *composer) drawTableHeader(y float64) {
	l, cv := c.layout, c.canvas
	cv.Rect(l.ColNo, y, l.TableWidth(), l.HeaderRowHeight)
	ty := y + l.HeaderTextRise
	for i, x := range c.columns() {
		if i == 0 {
			x += l.NoInset
		}
		cv.Text(x, ty, ColumnLabels[i], FontBold, l.HeaderSize)
	}
}

// drawRow draws attendee a as row index with its top edge at cur.Y and
// returns the cursor below it.
func (c *composer) drawRow(cur Cursor, index int, a attendance.Attendee) Cursor {
	l, cv := c.layout, c.canvas
	next := l.Advance(cur)
	bottom := next.Y

	cv.Rect(l.ColNo, bottom, l.TableWidth(), l.RowHeight)
	ty := bottom + l.CellTextRise
	cv.Text(l.ColNo+l.NoInset, ty, strconv.Itoa(index), FontRegular, l.RowSize)
	cv.Text(l.ColName, ty, Truncate(a.Name, l.TruncateRunes), FontRegular, l.RowSize)
	cv.Text(l.ColRole, ty, Truncate(a.Role, l.TruncateRunes), FontRegular, l.RowSize)
	cv.Text(l.ColID, ty, a.ID, FontRegular, l.RowSize)

	if a.Signature != "" {
		c.signature(index, a.ID, a.Signature, l.ColSignature, bottom+l.CellSignatureRise, l.CellSignatureW, l.CellSignatureH)
	}
	cv.MarkRow(index)
	return next
}

func (c *composer) columns() [5]float64 {
	l := c.layout
	return [5]float64{l.ColNo, l.ColName, l.ColRole, l.ColID, l.ColSignature}
}

// signature decodes and places a signature; any failure leaves the box
// blank and is recorded as a degradation.
func (c *composer) signature(row int, subject, payload string, x, y, w, h float64) {
	img, err := c.decoder.Decode(payload)
	if err == nil {
		err = c.canvas.Image(img, x, y, w, h, true)
	}
	if err == nil {
		return
	}
	d := Degradation{Page: c.canvas.PageIndex(), Row: row, SubjectID: subject, Err: err}
	c.canvas.Degrade(d)
	c.log.Warn("signature not drawn",
		observability.Int("page", d.Page+1),
		observability.Int("row", d.Row),
		observability.String("subject", d.SubjectID),
		observability.Error("error", err))
}

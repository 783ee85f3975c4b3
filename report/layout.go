package report

import "github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/fonts"

// Layout collects every coordinate and size of the form template. Points,
// bottom-left origin.
type Layout struct {
	PageWidth, PageHeight float64

	// Title block.
	TitleBoxX, TitleBoxTopGap, TitleBoxHeight float64
	DividerX, DividerMidGap                   float64
	LogoX, LogoY, LogoW, LogoH                float64
	TitleX, TitleTopGap, TitleSize            float64
	UnderlineDrop                             float64
	CodeX, CodeTopGap, RevisionTopGap         float64
	CodeSize                                  float64

	// Activity checkboxes.
	CheckboxX, CheckboxTopGap, CheckboxStep, CheckboxSize float64
	CheckboxLabelSize                                     float64

	// Field grid.
	FieldX1, FieldX2, FieldTopGap, FieldRowStep float64
	FieldRuleFrom, FieldRuleTo, FieldValueX     float64
	FieldLabelSize, FieldValueSize              float64
	SignatureW, SignatureH, SignatureDrop       float64

	// Topics.
	TopicsDrop, TopicsValueX, TopicsRightMargin, TopicsStep float64
	TopicsLines                                             int
	TopicsSize                                              float64

	// Legal text.
	LegalX, LegalDrop, LegalLeading, LegalSize float64
	WrapWidth                                  int

	// Outer frame.
	FramePad, FrameMinBottom float64

	// Short header on continuation pages.
	ShortTitleX, ShortTitleTopGap       float64
	ShortLegalTopGap, ShortLegalLeading float64
	ShortTableGap, TableGap             float64

	// Attendee table.
	ColNo, ColName, ColRole, ColID, ColSignature float64
	HeaderRowHeight, RowHeight                   float64
	HeaderSize, RowSize                          float64
	CellTextRise, HeaderTextRise, NoInset        float64
	CellSignatureRise                            float64
	CellSignatureW, CellSignatureH               float64
	TruncateRunes                                int
	BreakThreshold                               float64
}

// DefaultLayout is the IQH-GRAL-F-010 template on A4.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:  595.27,
		PageHeight: 841.89,

		TitleBoxX: 30, TitleBoxTopGap: 30, TitleBoxHeight: 80,
		DividerX: 400, DividerMidGap: 70,
		LogoX: 40, LogoY: 100, LogoW: 80, LogoH: 60,
		TitleX: 160, TitleTopGap: 65, TitleSize: 13,
		UnderlineDrop: 2,
		CodeX:         420, CodeTopGap: 55, RevisionTopGap: 85, CodeSize: 10,

		CheckboxX: 50, CheckboxTopGap: 125, CheckboxStep: 90, CheckboxSize: 10,
		CheckboxLabelSize: 8,

		FieldX1: 50, FieldX2: 300, FieldTopGap: 155, FieldRowStep: 22,
		FieldRuleFrom: 95, FieldRuleTo: 230, FieldValueX: 100,
		FieldLabelSize: 10, FieldValueSize: 9,
		SignatureW: 110, SignatureH: 30, SignatureDrop: 44,

		TopicsDrop: 70, TopicsValueX: 100, TopicsRightMargin: 50, TopicsStep: 12,
		TopicsLines: 4, TopicsSize: 10,

		LegalX: 40, LegalDrop: 10, LegalLeading: 10, LegalSize: 8,
		WrapWidth: 140,

		FramePad: 6, FrameMinBottom: 30,

		ShortTitleX: 50, ShortTitleTopGap: 50,
		ShortLegalTopGap: 75, ShortLegalLeading: 11,
		ShortTableGap: 20, TableGap: 25,

		ColNo: 40, ColName: 80, ColRole: 240, ColID: 380, ColSignature: 480,
		HeaderRowHeight: 22, RowHeight: 32,
		HeaderSize: 11, RowSize: 11,
		CellTextRise: 10, HeaderTextRise: 7, NoInset: 5,
		CellSignatureRise: 5, CellSignatureW: 90, CellSignatureH: 22,
		TruncateRunes:  30,
		BreakThreshold: 90,
	}
}

// TableWidth spans the row border from ColNo to the right margin.
func (l Layout) TableWidth() float64 { return l.PageWidth - 2*l.ColNo }

// Fonts used by the template.
const (
	FontRegular     = fonts.Helvetica
	FontBold        = fonts.HelveticaBold
	FontBoldOblique = fonts.HelveticaBoldOblique
)

// Package report composes the IQH-GRAL-F-010 attendance register and
// encodes it as PDF.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/ir/semantic"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/layout"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/writer"
)

// MediaType is the content type of Render output.
const MediaType = "application/pdf"

var (
	ErrMissingFacilitator = errors.New("report: no facilitator registered")
	ErrNoSignedAttendees  = errors.New("report: no signed attendees")
)

// LegalText is the data processing authorization printed on every page.
const LegalText = "Autorización de tratamiento de información personal: El firmante autoriza a Ismocol SA para que realice el tratamiento de su información personal de conformidad con el Manual de Políticas y Procedimientos para la Protección de Datos Personales ICA-GRAL-M-05. Ismocol SA realizará un tratamiento responsable y seguro de los datos suministrados conforme a las previsiones de la Ley 1581 de 2012 y las normas que la reglamentan.\n\nManifiesto que he recibido y entendido en todo su alcance el tema tratado y me comprometo a cumplir con el procedimiento o contenido de los temas y responsabilidades a mi asignadas. En constancia firmo."

// Options configures a Renderer. Zero values take the defaults.
type Options struct {
	Layout    *Layout
	Logo      []byte
	LegalText string
	FormCode  string
	Revision  string
	// UTCOffset shifts the printed date from UTC.
	UTCOffset time.Duration
	Clock     func() time.Time
	// Compress is the zlib level for content streams; zero writes them
	// uncompressed.
	Compress      int
	MaxImageWidth int
	Logger        observability.Logger
	Tracer        observability.Tracer
	// Interceptor observes PDF objects as they are written.
	Interceptor writer.Interceptor
}

const (
	DefaultFormCode  = "IQH-GRAL-F-010"
	DefaultRevision  = "Revisión No. 5"
	DefaultUTCOffset = -5 * time.Hour
)

// Renderer turns snapshots into register documents. It holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	opts       Options
	layout     Layout
	logo       *semantic.Image
	legalLines []string
	decoder    ImageDecoder
	log        observability.Logger
	tracer     observability.Tracer
}

// NewRenderer validates opts. A logo that fails to decode is an error; a
// missing logo leaves the slot empty.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{opts: opts, layout: DefaultLayout()}
	if opts.Layout != nil {
		r.layout = *opts.Layout
	}
	if r.opts.LegalText == "" {
		r.opts.LegalText = LegalText
	}
	if r.opts.FormCode == "" {
		r.opts.FormCode = DefaultFormCode
	}
	if r.opts.Revision == "" {
		r.opts.Revision = DefaultRevision
	}
	if r.opts.UTCOffset == 0 {
		r.opts.UTCOffset = DefaultUTCOffset
	}
	if r.opts.Clock == nil {
		r.opts.Clock = time.Now
	}
	r.log = opts.Logger
	if r.log == nil {
		r.log = observability.NopLogger{}
	}
	r.tracer = opts.Tracer
	if r.tracer == nil {
		r.tracer = observability.NopTracer()
	}
	r.decoder = ImageDecoder{MaxWidth: opts.MaxImageWidth}
	if len(opts.Logo) > 0 {
		logo, err := r.decoder.DecodeBytes(opts.Logo)
		if err != nil {
			return nil, fmt.Errorf("logo: %w", err)
		}
		r.logo = logo
	}
	r.legalLines = layout.Wrap(r.opts.LegalText, r.layout.WrapWidth)
	return r, nil
}

// Layout returns the template geometry in use.
func (r *Renderer) Layout() Layout { return r.layout }

// LegalLines returns the wrapped legal text.
func (r *Renderer) LegalLines() []string { return append([]string(nil), r.legalLines...) }

// PrintedDate returns the date a document composed now carries.
func (r *Renderer) PrintedDate() string {
	return r.opts.Clock().UTC().Add(r.opts.UTCOffset).Format("02/01/2006")
}

// composer carries the state of one Compose call.
type composer struct {
	*Renderer
	canvas *Canvas
	date   string
}

// Compose lays out snap. The snapshot is copied first; records are never
// modified.
func (r *Renderer) Compose(snap attendance.Snapshot) (*RenderedDocument, error) {
	snap = snap.Copy()
	if len(snap.Attendees) == 0 {
		return nil, ErrNoSignedAttendees
	}
	if snap.Facilitator == nil {
		return nil, ErrMissingFacilitator
	}

	c := &composer{
		Renderer: r,
		canvas:   NewCanvas(r.layout.PageWidth, r.layout.PageHeight),
		date:     r.PrintedDate(),
	}
	l := r.layout

	c.canvas.NewPage(PageFullHeader)
	headerBottom := c.drawFullHeader(snap.Facilitator) - l.TableGap
	c.drawTableHeader(headerBottom)
	cur := Cursor{Page: 0, Y: headerBottom}

	for i, a := range snap.Attendees {
		if l.NeedsBreak(cur) {
			if cur.Page == 0 {
				c.drawFrame(cur.Y)
			}
			page := c.canvas.NewPage(PageShortHeader)
			headerBottom = c.drawShortHeader() - l.ShortTableGap
			c.drawTableHeader(headerBottom)
			cur = Cursor{Page: page, Y: headerBottom}
			if l.NeedsBreak(cur) {
				return nil, ErrLayoutOverflow
			}
			r.log.Debug("page break", observability.Int("page", page+1), observability.Int("row", i+1))
		}
		cur = c.drawRow(cur, i+1, a)
	}
	if cur.Page == 0 {
		c.drawFrame(cur.Y)
	}
	return c.canvas.Document(), nil
}

// Render composes snap and encodes it as a complete PDF.
func (r *Renderer) Render(ctx context.Context, snap attendance.Snapshot) ([]byte, error) {
	_, span := r.tracer.StartSpan(ctx, observability.SpanCompose)
	doc, err := r.Compose(snap)
	if err != nil {
		span.SetError(err)
		span.Finish()
		return nil, err
	}
	span.SetTag(observability.MetricPageCount, len(doc.Pages))
	span.SetTag(observability.MetricRowCount, len(snap.Attendees))
	span.Finish()

	ctx, span = r.tracer.StartSpan(ctx, observability.SpanEncode)
	defer span.Finish()
	out, err := r.Encode(ctx, doc)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag(observability.MetricOutputBytes, len(out))
	r.log.Info("report rendered",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("rows", len(snap.Attendees)),
		observability.Int("degraded", len(doc.Degradations)),
		observability.Int("bytes", len(out)))
	return out, nil
}

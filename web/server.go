// Package web serves the capture pages: attendee lookup and signature,
// facilitator registration and the final register PDF.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/observability"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/report"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/roster"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// ReportFilename is the name offered for the inline PDF.
const ReportFilename = "reporte_firmas_final.pdf"

// MaxFormBytes bounds a posted form; signatures travel as data URIs.
const MaxFormBytes = 8 << 20

// RequestIDHeader carries the per-request id.
const RequestIDHeader = "X-Request-Id"

// Options configures a Server.
type Options struct {
	Store    storage.Store
	Renderer *report.Renderer
	// Logo is served at /logo; empty yields 404.
	Logo   []byte
	Logger observability.Logger
	Clock  func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	store    storage.Store
	renderer *report.Renderer
	logo     []byte
	logoType string
	log      observability.Logger
	now      func() time.Time
	pages    *template.Template
	decoder  report.ImageDecoder
}

// New validates opts and parses the embedded pages.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("web: store is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("web: renderer is required")
	}
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:    opts.Store,
		renderer: opts.Renderer,
		logo:     opts.Logo,
		log:      opts.Logger,
		now:      opts.Clock,
		pages:    pages,
	}
	if s.log == nil {
		s.log = observability.NopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if len(s.logo) > 0 {
		s.logoType = http.DetectContentType(s.logo)
	}
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleLogin)
	r.Get("/logo", s.handleLogo)
	r.Post("/buscar", s.handleLookup)
	r.Post("/guardar_firma_asistente", s.handleSaveSignature)
	r.Get("/facilitador", s.handleFacilitatorForm)
	r.Post("/guardar_facilitador", s.handleSaveFacilitator)
	r.Get("/reporte_final", s.handleReport)
	return r
}

type loggerKey struct{}

func (s *Server) logger(ctx context.Context) observability.Logger {
	if l, ok := ctx.Value(loggerKey{}).(observability.Logger); ok {
		return l
	}
	return s.log
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		log := s.log.With(observability.String("request_id", id))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey{}, log)))
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info("request",
			observability.String("method", r.Method),
			observability.String("path", r.URL.Path),
			observability.Int("status", status),
			observability.Int("bytes", ww.BytesWritten()),
			observability.Duration("duration", time.Since(start)))
	})
}

type message struct {
	Title    string
	Detail   string
	Link     string
	LinkText string
}

var (
	msgBack             = message{Link: "/", LinkText: "Volver"}
	msgNeedFacilitator  = message{Title: "Debe registrar primero el Facilitador", Link: "/facilitador", LinkText: "Registrar Facilitador"}
	msgNotFound         = withTitle(msgBack, "Cédula no encontrada")
	msgAlreadySigned    = withTitle(msgBack, "Esta cédula ya firmó.")
	msgNoSignatures     = withTitle(msgBack, "No hay firmas registradas aún")
	msgBadSignature     = withTitle(msgBack, "La firma no es válida, intente de nuevo")
	msgMissingFields    = withTitle(msgBack, "Faltan datos obligatorios")
	msgFacilitatorSaved = withTitle(msgBack, "Facilitador registrado correctamente")
	msgThanks           = message{Title: "¡Gracias por registrar tu firma!", Detail: "Tu asistencia quedó guardada.", Link: "/", LinkText: "Finalizar"}
	msgInternal         = withTitle(msgBack, "Ocurrió un error, intente de nuevo")
)

func withTitle(m message, title string) message {
	m.Title = title
	return m
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger(r.Context()).Error("template failed", observability.String("page", name), observability.Error("error", err))
	}
}

func (s *Server) message(w http.ResponseWriter, r *http.Request, status int, m message) {
	s.page(w, r, status, "message", m)
}

func (s *Server) internal(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger(r.Context()).Error(op+" failed", observability.Error("error", err))
	s.message(w, r, http.StatusInternalServerError, msgInternal)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.logger(r.Context()).Warn("bad form", observability.Error("error", err))
		s.message(w, r, http.StatusBadRequest, msgMissingFields)
		return false
	}
	return true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "login", nil)
}

func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	if len(s.logo) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", s.logoType)
	w.Header().Set("Content-Length", strconv.Itoa(len(s.logo)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(s.logo)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	id := roster.NormalizeID(r.PostForm.Get("cedula"))
	a, err := storage.AttendeeForSigning(r.Context(), s.store, id)
	switch {
	case errors.Is(err, storage.ErrNoFacilitator):
		s.message(w, r, http.StatusConflict, msgNeedFacilitator)
	case errors.Is(err, storage.ErrNotFound):
		s.message(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, storage.ErrAlreadySigned):
		s.message(w, r, http.StatusConflict, msgAlreadySigned)
	case err != nil:
		s.internal(w, r, "lookup", err)
	default:
		s.page(w, r, http.StatusOK, "signature", a)
	}
}

// validSignature reports whether payload decodes as an image.
func (s *Server) validSignature(r *http.Request, payload string) bool {
	if strings.TrimSpace(payload) == "" {
		return false
	}
	if _, err := s.decoder.Decode(payload); err != nil {
		s.logger(r.Context()).Warn("signature rejected", observability.Error("error", err))
		return false
	}
	return true
}

func (s *Server) handleSaveSignature(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	id := roster.NormalizeID(r.PostForm.Get("cedula"))
	signature := r.PostForm.Get("firma")
	if id == "" {
		s.message(w, r, http.StatusBadRequest, msgMissingFields)
		return
	}
	if !s.validSignature(r, signature) {
		s.message(w, r, http.StatusBadRequest, msgBadSignature)
		return
	}
	err := s.store.SignAttendee(r.Context(), id, signature, s.now().UTC())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.message(w, r, http.StatusNotFound, msgNotFound)
	case err != nil:
		s.internal(w, r, "sign", err)
	default:
		s.logger(r.Context()).Info("attendee signed", observability.String("attendee", id))
		s.message(w, r, http.StatusOK, msgThanks)
	}
}

func (s *Server) handleFacilitatorForm(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "facilitator", nil)
}

func (s *Server) handleSaveFacilitator(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	field := func(name string) string { return strings.TrimSpace(r.PostForm.Get(name)) }
	f := attendance.Facilitator{
		ID:        roster.NormalizeID(field("cedula")),
		Name:      field("nombre"),
		Topic:     field("tema"),
		Location:  field("lugar"),
		Area:      field("area_frente"),
		Duration:  field("duracion"),
		Signature: r.PostForm.Get("firma"),
	}
	if f.ID == "" || f.Name == "" {
		s.message(w, r, http.StatusBadRequest, msgMissingFields)
		return
	}
	if !s.validSignature(r, f.Signature) {
		s.message(w, r, http.StatusBadRequest, msgBadSignature)
		return
	}
	if err := s.store.UpsertFacilitator(r.Context(), f); err != nil {
		s.internal(w, r, "save facilitator", err)
		return
	}
	s.logger(r.Context()).Info("facilitator registered", observability.String("facilitator", f.ID))
	s.message(w, r, http.StatusOK, msgFacilitatorSaved)
}

// reportETag changes whenever the snapshot or the printed date does.
func (s *Server) reportETag(snap attendance.Snapshot) string {
	date := strings.ReplaceAll(s.renderer.PrintedDate(), "/", "")
	return `"` + snap.Fingerprint() + "-" + date + `"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		s.internal(w, r, "snapshot", err)
		return
	}
	switch {
	case len(snap.Attendees) == 0:
		s.message(w, r, http.StatusNotFound, msgNoSignatures)
		return
	case snap.Facilitator == nil:
		s.message(w, r, http.StatusConflict, msgNeedFacilitator)
		return
	}

	etag := s.reportETag(snap)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	pdf, err := s.renderer.Render(r.Context(), snap)
	switch {
	case errors.Is(err, report.ErrNoSignedAttendees):
		s.message(w, r, http.StatusNotFound, msgNoSignatures)
		return
	case errors.Is(err, report.ErrMissingFacilitator):
		s.message(w, r, http.StatusConflict, msgNeedFacilitator)
		return
	case err != nil:
		s.internal(w, r, "render", err)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Type", report.MediaType)
	w.Header().Set("Content-Disposition", `inline; filename="`+ReportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

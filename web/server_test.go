package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/report"
	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/storage/sqlite"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 12))
	for x := 0; x < 40; x++ {
		img.SetNRGBA(x, 6, color.NRGBA{A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func signature(t *testing.T) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
}

type fixture struct {
	store   *sqlite.Store
	handler http.Handler
}

func newFixture(t *testing.T, logo []byte) fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "firmas.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.ImportRoster(context.Background(), []attendance.Attendee{
		{ID: "10000001", Name: "Carlos Pérez", Role: "Soldador"},
		{ID: "10000002", Name: "Luisa Díaz", Role: "Inspectora"},
	}); err != nil {
		t.Fatalf("import: %v", err)
	}
	renderer, err := report.NewRenderer(report.Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	srv, err := New(Options{Store: store, Renderer: renderer, Logo: logo, Clock: fixedClock})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return fixture{store: store, handler: srv.Handler()}
}

func (f fixture) get(t *testing.T, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f fixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, status, rec.Body.String())
	}
	if body != "" && !strings.Contains(rec.Body.String(), body) {
		t.Fatalf("body missing %q: %s", body, rec.Body.String())
	}
}

func (f fixture) registerFacilitator(t *testing.T) {
	t.Helper()
	rec := f.post(t, "/guardar_facilitador", url.Values{
		"cedula":      {"79.123.456"},
		"nombre":      {"Ana Gómez"},
		"tema":        {"Trabajo seguro en alturas"},
		"lugar":       {"Planta"},
		"area_frente": {"Mantenimiento"},
		"duracion":    {"2 horas"},
		"firma":       {signature(t)},
	})
	expect(t, rec, http.StatusOK, "Facilitador registrado correctamente")
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestLoginPageAndRequestID(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/", nil)
	expect(t, rec, http.StatusOK, "Registro de Asistencia")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}
	rec = f.get(t, "/", http.Header{RequestIDHeader: {"abc"}})
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Fatalf("request id = %q, want abc", got)
	}
}

func TestLogo(t *testing.T) {
	expect(t, newFixture(t, nil).get(t, "/logo", nil), http.StatusNotFound, "")

	logo := pngBytes(t)
	rec := newFixture(t, logo).get(t, "/logo", nil)
	expect(t, rec, http.StatusOK, "")
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), logo) {
		t.Fatal("logo bytes differ")
	}
}

func TestLookupFlow(t *testing.T) {
	f := newFixture(t, nil)

	expect(t, f.post(t, "/buscar", url.Values{"cedula": {"10000001"}}), http.StatusConflict, "Debe registrar primero el Facilitador")

	f.registerFacilitator(t)
	expect(t, f.post(t, "/buscar", url.Values{"cedula": {"999"}}), http.StatusNotFound, "Cédula no encontrada")

	rec := f.post(t, "/buscar", url.Values{"cedula": {" 10.000.001 "}})
	expect(t, rec, http.StatusOK, "Carlos Pérez")
	expect(t, rec, http.StatusOK, `value="10000001"`)

	expect(t, f.post(t, "/guardar_firma_asistente", url.Values{"cedula": {"10000001"}, "firma": {signature(t)}}), http.StatusOK, "Gracias por registrar tu firma")
	expect(t, f.post(t, "/buscar", url.Values{"cedula": {"10000001"}}), http.StatusConflict, "Esta cédula ya firmó.")

	got, err := f.store.Attendee(context.Background(), "10000001")
	if err != nil {
		t.Fatalf("attendee: %v", err)
	}
	if !got.SignedAt.Equal(fixedClock()) {
		t.Fatalf("signed_at = %v, want %v", got.SignedAt, fixedClock())
	}
}

func TestSaveSignatureRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	f.registerFacilitator(t)

	expect(t, f.post(t, "/guardar_firma_asistente", url.Values{"cedula": {"10000001"}, "firma": {"data:image/png;base64,AAAA"}}), http.StatusBadRequest, "La firma no es válida")
	expect(t, f.post(t, "/guardar_firma_asistente", url.Values{"cedula": {"10000001"}}), http.StatusBadRequest, "La firma no es válida")
	expect(t, f.post(t, "/guardar_firma_asistente", url.Values{"firma": {signature(t)}}), http.StatusBadRequest, "Faltan datos obligatorios")
	expect(t, f.post(t, "/guardar_firma_asistente", url.Values{"cedula": {"555"}, "firma": {signature(t)}}), http.StatusNotFound, "Cédula no encontrada")
	expect(t, f.post(t, "/guardar_facilitador", url.Values{"cedula": {"1"}, "firma": {signature(t)}}), http.StatusBadRequest, "Faltan datos obligatorios")
}

func TestReport(t *testing.T) {
	f := newFixture(t, nil)

	expect(t, f.get(t, "/reporte_final", nil), http.StatusNotFound, "No hay firmas registradas aún")

	if err := f.store.SignAttendee(context.Background(), "10000002", signature(t), fixedClock()); err != nil {
		t.Fatalf("sign: %v", err)
	}
	expect(t, f.get(t, "/reporte_final", nil), http.StatusConflict, "Debe registrar primero el Facilitador")

	f.registerFacilitator(t)
	rec := f.get(t, "/reporte_final", nil)
	expect(t, rec, http.StatusOK, "")
	if ct := rec.Header().Get("Content-Type"); ct != report.MediaType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `inline; filename="reporte_firmas_final.pdf"` {
		t.Fatalf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a pdf: %q", rec.Body.Bytes()[:16])
	}
	etag := rec.Header().Get("ETag")
	if !strings.HasSuffix(etag, `-04032026"`) {
		t.Fatalf("etag = %q", etag)
	}

	cached := f.get(t, "/reporte_final", http.Header{"If-None-Match": {etag}})
	expect(t, cached, http.StatusNotModified, "")
	if cached.Body.Len() != 0 {
		t.Fatal("304 carried a body")
	}

	if err := f.store.SignAttendee(context.Background(), "10000001", signature(t), fixedClock()); err != nil {
		t.Fatalf("sign: %v", err)
	}
	fresh := f.get(t, "/reporte_final", http.Header{"If-None-Match": {etag}})
	expect(t, fresh, http.StatusOK, "")
	if fresh.Header().Get("ETag") == etag {
		t.Fatal("etag did not change after a new signature")
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)
	expect(t, f.get(t, "/nada", nil), http.StatusNotFound, "")
	expect(t, f.get(t, "/buscar", nil), http.StatusMethodNotAllowed, "")
}

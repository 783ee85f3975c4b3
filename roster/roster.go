// Package roster imports the list of expected attendees from a workbook
// (.xlsx or .xls) or a CSV export.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/paolomartine/Registro-de-asistencia-ISMOCOL-SA/attendance"
)

// ErrMissingColumn is returned when a required column has no matching
// header.
var ErrMissingColumn = errors.New("roster: required column not found")

// ErrBadWorkbook is returned when a spreadsheet file cannot be opened.
var ErrBadWorkbook = errors.New("roster: unreadable workbook")

// Column is a field of the roster.
type Column int

const (
	ColumnID Column = iota
	ColumnName
	ColumnRole
)

func (c Column) String() string {
	switch c {
	case ColumnID:
		return "cedula"
	case ColumnName:
		return "nombre"
	case ColumnRole:
		return "cargo"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// Synonyms lists the accepted headers per column, already folded.
var Synonyms = map[Column][]string{
	ColumnID:   {"cedula", "documento", "id", "identificacion"},
	ColumnName: {"nombre", "nombres", "nombre completo", "empleado"},
	ColumnRole: {"cargo", "puesto", "rol", "area"},
}

var headerIndex = buildHeaderIndex()

func buildHeaderIndex() map[string]Column {
	idx := make(map[string]Column)
	for col, names := range Synonyms {
		for _, n := range names {
			idx[FoldHeader(n)] = col
		}
	}
	return idx
}

var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldHeader trims, lower-cases and strips accents so "Cédula " matches
// "cedula".
func FoldHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	out, _, err := transform.String(folder, h)
	if err != nil {
		return h
	}
	return strings.Join(strings.Fields(out), " ")
}

// NormalizeID strips a trailing ".0" left by spreadsheet number cells and
// then every non-digit.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimSuffix(id, ".0")
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Read parses a CSV roster. The delimiter is detected from the header line
// (comma, semicolon or tab); non-UTF-8 input is read as Windows-1252. Rows
// whose normalized ID is empty are skipped; later duplicates replace
// earlier ones in place.
func Read(r io.Reader) ([]attendance.Attendee, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode roster: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return parse(cr)
}

// ReadXLSX parses the first sheet of an Office Open XML workbook with the
// same header and row rules as Read.
func ReadXLSX(r io.Reader) ([]attendance.Attendee, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadWorkbook, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}
	// Raw values keep number cells free of display formats such as
	// thousands separators.
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadWorkbook, err)
	}
	return parse(&sheetRows{rows: rows})
}

// ReadXLS parses the first sheet of a legacy BIFF workbook.
func ReadXLS(r io.ReadSeeker) (out []attendance.Attendee, err error) {
	// The BIFF reader panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrBadWorkbook, p)
		}
	}()

	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadWorkbook, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: no sheets", ErrBadWorkbook)
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		rec := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			rec[j] = row.Col(j)
		}
		rows = append(rows, rec)
	}
	return parse(&sheetRows{rows: rows})
}

// ReadFile opens path and picks the reader by extension: .xlsx and .xlsm
// go to ReadXLSX, .xls to ReadXLS and anything else is read as CSV.
func ReadFile(path string) ([]attendance.Attendee, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".xls":
		return ReadXLS(f)
	default:
		return Read(f)
	}
}

// recordReader yields one row per call and io.EOF at the end.
type recordReader interface {
	Read() ([]string, error)
}

// sheetRows serves workbook rows, skipping rows with no content so a sheet
// may start below a blank band.
type sheetRows struct {
	rows [][]string
	next int
}

func (s *sheetRows) Read() ([]string, error) {
	for s.next < len(s.rows) {
		rec := s.rows[s.next]
		s.next++
		for _, cell := range rec {
			if strings.TrimSpace(cell) != "" {
				return rec, nil
			}
		}
	}
	return nil, io.EOF
}

func parse(rr recordReader) ([]attendance.Attendee, error) {
	header, err := rr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty roster", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var out []attendance.Attendee
	seen := make(map[string]int)
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		field := func(c Column) string {
			i := cols[c]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		id := NormalizeID(field(ColumnID))
		if id == "" {
			continue
		}
		a := attendance.Attendee{ID: id, Name: field(ColumnName), Role: field(ColumnRole)}
		if i, ok := seen[id]; ok {
			out[i] = a
			continue
		}
		seen[id] = len(out)
		out = append(out, a)
	}
	return out, nil
}

// mapColumns resolves each column to the first header that matches one of
// its synonyms.
func mapColumns(header []string) (map[Column]int, error) {
	cols := make(map[Column]int)
	for i, h := range header {
		col, ok := headerIndex[FoldHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[col]; !dup {
			cols[col] = i
		}
	}
	var missing []string
	for _, c := range []Column{ColumnID, ColumnName, ColumnRole} {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		folded := make([]string, len(header))
		for i, h := range header {
			folded[i] = FoldHeader(h)
		}
		return nil, fmt.Errorf("%w: %s; headers: %q", ErrMissingColumn, strings.Join(missing, ", "), folded)
	}
	return cols, nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

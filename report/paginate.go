package report

import (
	"errors"
	"math"
)

// ErrLayoutOverflow means a continuation page has no room for a single row.
var ErrLayoutOverflow = errors.New("report: short header leaves no room for rows")

// Cursor is the layout position: the zero-based page and the y coordinate
// of the next row's top edge.
type Cursor struct {
	Page int
	Y    float64
}

// NeedsBreak reports whether a data row placed at cur would end below the
// break threshold.
func (l Layout) NeedsBreak(cur Cursor) bool {
	return cur.Y-l.RowHeight < l.BreakThreshold
}

// Advance moves past one data row.
func (l Layout) Advance(cur Cursor) Cursor {
	return Cursor{Page: cur.Page, Y: cur.Y - l.RowHeight}
}

// Capacity is the number of data rows that fit below rowsTop.
func (l Layout) Capacity(rowsTop float64) int {
	if rowsTop < l.BreakThreshold {
		return 0
	}
	return int(math.Floor((rowsTop - l.BreakThreshold) / l.RowHeight))
}

// FullHeaderRowsTop is the top of the first data row on page one for a
// legal text that wraps to legalLines lines.
func (l Layout) FullHeaderRowsTop(legalLines int) float64 {
	temasLast := l.PageHeight - l.FieldTopGap - l.TopicsDrop - float64(l.TopicsLines)*l.TopicsStep
	legalEnd := temasLast - l.LegalDrop - float64(legalLines)*l.LegalLeading
	return legalEnd - l.TableGap
}

// ShortHeaderRowsTop is the top of the first data row on a continuation
// page.
func (l Layout) ShortHeaderRowsTop(legalLines int) float64 {
	legalEnd := l.PageHeight - l.ShortLegalTopGap - float64(legalLines)*l.ShortLegalLeading
	return legalEnd - l.ShortTableGap
}

// PageCount is the number of pages needed for rows attendees.
func (l Layout) PageCount(rows, legalLines int) (int, error) {
	first := l.Capacity(l.FullHeaderRowsTop(legalLines))
	if rows <= first {
		return 1, nil
	}
	next := l.Capacity(l.ShortHeaderRowsTop(legalLines))
	if next < 1 {
		return 0, ErrLayoutOverflow
	}
	rest := rows - first
	return 1 + (rest+next-1)/next, nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n < 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

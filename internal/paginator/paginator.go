// Package paginator slices ordered gorm queries into fixed-size pages.
//
// Out-of-range page numbers are not errors: anything that is not a positive
// integer selects the first page and numbers past the end select the last.
package paginator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Page sizes used by the feeds.
const (
	FeedPageSize    = 10
	ProfilePageSize = 5
)

type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
	PerPage  int
}

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p *Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p *Page[T]) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}

func (p *Page[T]) PreviousNumber() int { return p.Number - 1 }
func (p *Page[T]) NextNumber() int     { return p.Number + 1 }

// PageRange lists 1..NumPages for navigation links.
func (p *Page[T]) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// NumPages is at least 1, an empty collection still has one empty page.
func NumPages(count int64, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// Clamp turns the raw page query value into a valid 1-based page number.
// A number too large for an int is still past the end.
func Clamp(raw string, count int64, perPage int) int {
	last := NumPages(count, perPage)

	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		return last
	case err != nil, n < 1:
		return 1
	case n > last:
		return last
	default:
		return n
	}
}

// Paginate counts query, clamps raw and loads the selected page. query must
// carry its Model and ordering; it is not modified. Associations named in
// preload are only loaded for the selected page.
func Paginate[T any](query *gorm.DB, perPage int, raw string, preload ...string) (*Page[T], error) {
	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count page items: %w", err)
	}

	number := Clamp(raw, count, perPage)
	page := &Page[T]{
		Number:   number,
		NumPages: NumPages(count, perPage),
		Count:    count,
		PerPage:  perPage,
		Items:    []T{},
	}
	if count == 0 {
		return page, nil
	}

	tx := query.Session(&gorm.Session{})
	for _, assoc := range preload {
		tx = tx.Preload(assoc)
	}
	err := tx.Offset((number - 1) * perPage).
		Limit(perPage).
		Find(&page.Items).Error
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", number, err)
	}
	return page, nil
}

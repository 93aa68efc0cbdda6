// Package paginator slices a sequence of records into fixed-size text pages.
package paginator

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 3

// ErrEndOfSequence is returned by Next once every page has been produced.
var ErrEndOfSequence = errors.New("no more pages")

// Renderer is anything that renders to a single display block.
type Renderer interface {
	Render() string
}

// Paginator is a one-way cursor over pages. It is not safe for concurrent use
// and cannot be rewound; build a new one to start over.
type Paginator struct {
	items       []Renderer
	pageSize    int
	currentPage int
	pageCount   int
}

// New builds a paginator over items. The slice is borrowed, not copied.
func New[T Renderer](items []T, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	rs := make([]Renderer, len(items))
	for i, item := range items {
		rs[i] = item
	}
	return &Paginator{
		items:       rs,
		pageSize:    pageSize,
		currentPage: 1,
		pageCount:   (len(rs) + pageSize - 1) / pageSize,
	}
}

// Next renders the current page followed by a "Page p of n" footer and
// advances the cursor.
func (p *Paginator) Next() (string, error) {
	if !p.HasNext() {
		return "", ErrEndOfSequence
	}

	start := (p.currentPage - 1) * p.pageSize
	end := min(start+p.pageSize, len(p.items))

	lines := make([]string, 0, end-start+1)
	for _, item := range p.items[start:end] {
		lines = append(lines, item.Render())
	}
	lines = append(lines, fmt.Sprintf("Page %d of %d", p.currentPage, p.pageCount))

	p.currentPage++
	return strings.Join(lines, "\n"), nil
}

// HasNext reports whether Next will return a page.
func (p *Paginator) HasNext() bool {
	return p.currentPage <= p.pageCount
}

// CurrentPage returns the 1-based number of the page Next will render.
func (p *Paginator) CurrentPage() int {
	return p.currentPage
}

// PageCount returns the total number of pages.
func (p *Paginator) PageCount() int {
	return p.pageCount
}

// PageSize returns the number of items per page.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Len returns the number of items being paged.
func (p *Paginator) Len() int {
	return len(p.items)
}

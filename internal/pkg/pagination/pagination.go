package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// DefaultPageSize is used when the request omits pageSize.
const DefaultPageSize = 10

// Params represents pagination parameters
type Params struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// PagedList is one page of a larger ordered result set.
type PagedList[T any] struct {
	Items      []T   `json:"items"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetParams extracts pageNumber and pageSize from the query string.
// Missing values fall back to defaults; non-numeric values are rejected.
func GetParams(c *fiber.Ctx) (Params, error) {
	params := Params{PageNumber: 1, PageSize: DefaultPageSize}

	if raw := c.Query("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "pageNumber must be an integer")
		}
		params.PageNumber = n
	}
	if raw := c.Query("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, fiber.NewError(fiber.StatusBadRequest, "pageSize must be an integer")
		}
		params.PageSize = n
	}
	return params, nil
}

// Normalize clamps the requested page against the total count and returns
// the effective page number, page size and row offset.
//
// Page number and size are raised to at least 1, then size is clamped to
// the total count (never below 1).
func Normalize(pageNumber, pageSize int, total int64) (page, size, offset int) {
	page = max(pageNumber, 1)
	size = max(pageSize, 1)
	if total > 0 && int64(size) > total {
		size = int(total)
	}
	return page, size, (page - 1) * size
}

// TotalPages returns ceil(total/size).
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) > 0 {
		pages++
	}
	return int(pages)
}

// New wraps an already-sliced page. pageNumber and pageSize must be the
// values returned by Normalize.
func New[T any](items []T, pageNumber, pageSize int, total int64) *PagedList[T] {
	if items == nil {
		items = []T{}
	}
	return &PagedList[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: TotalPages(total, pageSize),
	}
}

// Map converts the items of a page, keeping its metadata.
func Map[T, R any](p *PagedList[T], fn func(T) R) *PagedList[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return &PagedList[R]{
		Items:      items,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages,
	}
}

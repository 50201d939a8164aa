package util

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PageParams struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

// Normalize clamps page/limit and whitelists the sort column against
// sortable, falling back to created_at desc.
func (p PageParams) Normalize(sortable ...string) PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > MaxPageSize {
		p.Limit = DefaultPageSize
	}

	allowed := false
	for _, col := range sortable {
		if p.SortBy == col {
			allowed = true
			break
		}
	}
	if !allowed {
		p.SortBy = "created_at"
	}

	switch strings.ToLower(p.SortDir) {
	case "asc":
		p.SortDir = "asc"
	default:
		p.SortDir = "desc"
	}
	return p
}

func (p PageParams) Offset() int { return (p.Page - 1) * p.Limit }

func (p PageParams) Order() string { return p.SortBy + " " + p.SortDir }

type Page struct {
	Data       any   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPage(data any, p PageParams, total int64) Page {
	pages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return Page{
		Data:       data,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}

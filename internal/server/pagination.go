package server

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams is the parsed listing query. PageIndex is zero-based.
type pageParams struct {
	PageIndex int32
	PageSize  int32
	SortField string
	SortDesc  bool
	Filter    string
}

// pagination is the envelope echoed back with every listing response.
type pagination struct {
	PageIndex  int32 `json:"pageIndex"`
	PageSize   int32 `json:"pageSize"`
	TotalPages int64 `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

// parsePageParams reads pageIndex, pageSize, sorting and globalFilter from the
// query string. pageSize is clamped to [1,100]; bad numbers fall back to the
// defaults. sorting accepts "field.desc" or "field:desc" tokens; the first one
// naming an allowed field wins, otherwise created_at descending.
func parsePageParams(q url.Values, allowedSort map[string]bool) pageParams {
	p := pageParams{
		PageSize:  defaultPageSize,
		SortField: "created_at",
		SortDesc:  true,
		Filter:    strings.TrimSpace(q.Get("globalFilter")),
	}

	if n, err := strconv.Atoi(q.Get("pageIndex")); err == nil && n > 0 {
		p.PageIndex = int32(n)
	}
	if n, err := strconv.Atoi(q.Get("pageSize")); err == nil && n != 0 {
		switch {
		case n < 1:
			p.PageSize = 1
		case n > maxPageSize:
			p.PageSize = maxPageSize
		default:
			p.PageSize = int32(n)
		}
	}

	for _, tok := range strings.Split(q.Get("sorting"), ",") {
		tok = strings.TrimSpace(strings.ReplaceAll(tok, ":", "."))
		if tok == "" {
			continue
		}
		field, dir, _ := strings.Cut(tok, ".")
		if !allowedSort[field] {
			continue
		}
		p.SortField = field
		p.SortDesc = strings.EqualFold(dir, "desc")
		break
	}

	return p
}

// totalPages is at least 1 even for an empty result, so clients always have a
// valid page to sit on.
func totalPages(totalItems int64, pageSize int32) int64 {
	pages := (totalItems + int64(pageSize) - 1) / int64(pageSize)
	if pages < 1 {
		return 1
	}
	return pages
}

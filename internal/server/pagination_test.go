package server

import (
	"net/url"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	allowed := map[string]bool{"created_at": true, "name": true, "email": true}

	tests := []struct {
		name  string
		query string
		want  pageParams
	}{
		{
			name:  "defaults",
			query: "",
			want:  pageParams{PageIndex: 0, PageSize: 10, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "explicit page",
			query: "pageIndex=3&pageSize=25",
			want:  pageParams{PageIndex: 3, PageSize: 25, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "page size clamped high",
			query: "pageSize=1000",
			want:  pageParams{PageSize: 100, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "page size clamped low",
			query: "pageSize=-5",
			want:  pageParams{PageSize: 1, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "negative page index ignored",
			query: "pageIndex=-2",
			want:  pageParams{PageIndex: 0, PageSize: 10, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "garbage numbers fall back",
			query: "pageIndex=abc&pageSize=xyz",
			want:  pageParams{PageSize: 10, SortField: "created_at", SortDesc: true},
		},
		{
			name:  "sorting dot form",
			query: "sorting=name.asc",
			want:  pageParams{PageSize: 10, SortField: "name", SortDesc: false},
		},
		{
			name:  "sorting colon form",
			query: "sorting=email:desc",
			want:  pageParams{PageSize: 10, SortField: "email", SortDesc: true},
		},
		{
			name:  "unknown sort field skipped",
			query: "sorting=hash.asc,name.desc",
			want:  pageParams{PageSize: 10, SortField: "name", SortDesc: true},
		},
		{
			name:  "filter trimmed",
			query: "globalFilter=%20ada%20",
			want:  pageParams{PageSize: 10, SortField: "created_at", SortDesc: true, Filter: "ada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := parsePageParams(q, allowed)
			if got != tt.want {
				t.Errorf("parsePageParams() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		items int64
		size  int32
		want  int64
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{231, 100, 3},
	}
	for _, tt := range tests {
		if got := totalPages(tt.items, tt.size); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.items, tt.size, got, tt.want)
		}
	}
}

package paging

import (
	"net/http/httptest"
	"testing"
)

func TestPage_SkipLimit(t *testing.T) {
	tests := []struct {
		page      Page
		wantSkip  int64
		wantLimit int64
	}{
		{Page{Number: 1, Size: 9}, 0, 9},
		{Page{Number: 2, Size: 5}, 5, 5},
		{Page{Number: 3, Size: 50}, 100, 50},
		{FirstPage(DefaultPageSize), 0, DefaultPageSize},
	}

	for _, tt := range tests {
		if got := tt.page.Skip(); got != tt.wantSkip {
			t.Errorf("%+v Skip() = %d, want %d", tt.page, got, tt.wantSkip)
		}
		if got := tt.page.Limit(); got != tt.wantLimit {
			t.Errorf("%+v Limit() = %d, want %d", tt.page, got, tt.wantLimit)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   Page
		wantFields []string
	}{
		{"defaults", "", Page{1, 9}, nil},
		{"explicit", "?pageNumber=2&pageSize=5", Page{2, 5}, nil},
		{"only number", "?pageNumber=4", Page{4, 9}, nil},
		{"max size allowed", "?pageSize=50", Page{1, 50}, nil},
		{"non numeric", "?pageNumber=abc&pageSize=5", Page{1, 5}, []string{"pageNumber"}},
		{"zero", "?pageNumber=0", Page{1, 9}, []string{"pageNumber"}},
		{"negative size", "?pageSize=-3", Page{1, 9}, []string{"pageSize"}},
		{"too large", "?pageSize=51", Page{1, 9}, []string{"pageSize"}},
		{"overflow", "?pageNumber=99999999999999999999", Page{1, 9}, []string{"pageNumber"}},
		{"both bad", "?pageNumber=x&pageSize=1.5", Page{1, 9}, []string{"pageNumber", "pageSize"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/profiles/paginate"+tt.query, nil)
			page, res := Parse(r, DefaultPageSize, DefaultMaxPageSize)

			if len(res.Errors) != len(tt.wantFields) {
				t.Fatalf("errors = %+v, want fields %v", res.Errors, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if res.Errors[i].Field != f {
					t.Errorf("error %d field = %q, want %q", i, res.Errors[i].Field, f)
				}
			}
			if !res.HasErrors() && page != tt.wantPage {
				t.Errorf("page = %+v, want %+v", page, tt.wantPage)
			}
		})
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wallctl/wallctl/internal/category"
)

// SearchQuery is one paged search request.
type SearchQuery struct {
	Categories category.Bitmask
	Purity     category.Bitmask
	Text       string
	Page       int
}

// Candidate is one search hit that has not been downloaded yet.
type Candidate struct {
	Path     string `json:"path"`
	Position int    `json:"position"`
}

// ResultPage is a parsed search response. It is replaced wholesale when the
// next page is fetched.
type ResultPage struct {
	Items       []Candidate
	Total       int
	PerPage     int
	CurrentPage int
	LastPage    int
}

// Count is the number shown to the user as the page size: the smaller of the
// overall total and the page size.
func (p *ResultPage) Count() int {
	return min(p.Total, p.PerPage)
}

// HasNext reports whether another page can be requested.
func (p *ResultPage) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

// FetchedImage holds downloaded image bytes and any identifier the server
// sent alongside them.
type FetchedImage struct {
	Data        []byte
	SourceID    string
	ContentType string
}

// searchEnvelope mirrors the wallhaven JSON shape. Pointers distinguish a
// missing field from a zero value.
type searchEnvelope struct {
	Data *[]searchItem `json:"data"`
	Meta *searchMeta   `json:"meta"`
}

type searchItem struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

type searchMeta struct {
	Total       *int     `json:"total"`
	PerPage     *flexInt `json:"per_page"`
	CurrentPage *int     `json:"current_page"`
	LastPage    *int     `json:"last_page"`
}

// flexInt accepts both 24 and "24"; the API has sent per_page either way.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer string %q", s)
		}

		*f = flexInt(n)

		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*f = flexInt(n)

	return nil
}

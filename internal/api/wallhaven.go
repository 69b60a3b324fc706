package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

const searchPath = "/api/v1/search"

// Search requests one page of random results. A non-success status is only
// logged: the body is parsed regardless, since the API may still return a
// usable payload. There is no retry.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*ResultPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	resp, err := c.get(ctx, c.searchURL(q))
	if err != nil {
		return nil, &NetworkError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("search returned non-success status",
			"status", resp.StatusCode,
			"page", q.Page,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "search", Err: fmt.Errorf("reading body: %w", err)}
	}

	page, err := parseSearch(body, q.Page)
	if err != nil {
		return nil, &ParseError{Op: "search", Err: err}
	}

	slog.Debug("search page",
		"page", page.CurrentPage,
		"last_page", page.LastPage,
		"items", len(page.Items),
		"total", page.Total,
	)

	return page, nil
}

// searchURL builds the full request URL for q.
func (c *Client) searchURL(q SearchQuery) string {
	v := url.Values{}
	v.Set("sorting", "random")
	v.Set("resolutions", c.resolution)
	v.Set("categories", q.Categories.String())
	v.Set("purity", q.Purity.String())
	v.Set("q", q.Text)
	v.Set("page", strconv.Itoa(q.Page))

	if c.apiKey != "" {
		v.Set("apikey", c.apiKey)
	}

	return c.baseURL + searchPath + "?" + v.Encode()
}

// parseSearch decodes and validates a search envelope. requested is used when
// meta.current_page is absent.
func parseSearch(body []byte, requested int) (*ResultPage, error) {
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch {
	case env.Data == nil:
		return nil, errors.New(`missing "data"`)
	case env.Meta == nil:
		return nil, errors.New(`missing "meta"`)
	case env.Meta.Total == nil:
		return nil, errors.New(`missing "meta.total"`)
	case env.Meta.PerPage == nil:
		return nil, errors.New(`missing "meta.per_page"`)
	case env.Meta.LastPage == nil:
		return nil, errors.New(`missing "meta.last_page"`)
	}

	page := &ResultPage{
		Total:       max(*env.Meta.Total, 0),
		PerPage:     int(*env.Meta.PerPage),
		CurrentPage: requested,
		LastPage:    *env.Meta.LastPage,
	}

	if env.Meta.CurrentPage != nil && *env.Meta.CurrentPage > 0 {
		page.CurrentPage = *env.Meta.CurrentPage
	}

	// An empty result set may report last_page 0.
	page.LastPage = max(page.LastPage, page.CurrentPage)

	items := *env.Data
	if page.PerPage <= 0 {
		if len(items) > 0 {
			return nil, fmt.Errorf("invalid per_page %d", page.PerPage)
		}

		page.PerPage = 1
	}

	if len(items) > page.PerPage {
		return nil, fmt.Errorf("page holds %d items but per_page is %d", len(items), page.PerPage)
	}

	page.Items = make([]Candidate, 0, len(items))
	for i, it := range items {
		if it.Path == "" {
			return nil, fmt.Errorf("data[%d]: missing path", i)
		}

		page.Items = append(page.Items, Candidate{Path: it.Path, Position: i})
	}

	return page, nil
}

// SinglePage returns the synthetic one-item page n of the single-image
// source at url. It never has a next page.
func SinglePage(url string, n int) *ResultPage {
	return &ResultPage{
		Items:       []Candidate{{Path: url}},
		Total:       1,
		PerPage:     1,
		CurrentPage: n,
		LastPage:    n,
	}
}

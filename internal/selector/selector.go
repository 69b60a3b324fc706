// Package selector runs the interactive accept/reject loop over search
// results.
package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wallctl/wallctl/internal/api"
)

// ErrInputClosed is returned when the input stream ends before a candidate
// is accepted.
var ErrInputClosed = errors.New("input closed before a wallpaper was chosen")

// ErrInvalidInput marks an unrecognised answer. It never leaves Run.
var ErrInvalidInput = errors.New("not an option")

// PageSource returns search result pages.
type PageSource interface {
	Search(ctx context.Context, q api.SearchQuery) (*api.ResultPage, error)
}

// ImageFetcher downloads candidate bytes.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (*api.FetchedImage, error)
}

// Renderer shows a candidate to the user.
type Renderer interface {
	Render(data []byte) error
}

// Mode is the loop state.
type Mode int

const (
	Browsing Mode = iota
	Accepted
	Exhausted
)

func (m Mode) String() string {
	switch m {
	case Accepted:
		return "accepted"
	case Exhausted:
		return "exhausted"
	default:
		return "browsing"
	}
}

// State is the loop's position. It is owned by a single Selector.
type State struct {
	Page   *api.ResultPage
	Cursor int
	Mode   Mode
}

// Options configures a Selector.
type Options struct {
	Source  PageSource
	Fetcher ImageFetcher
	// Renderer is optional; nil disables previews.
	Renderer Renderer
	Query    api.SearchQuery
	// SingleSourceURL switches to the single-image source: every page is one
	// synthetic candidate at this URL and the loop never exhausts.
	SingleSourceURL string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Result is the outcome of a finished loop. Image is nil when Mode is
// Exhausted.
type Result struct {
	Mode      Mode
	Candidate api.Candidate
	Image     *api.FetchedImage
	Page      int
	Shown     int
}

// Selector drives one browsing session.
type Selector struct {
	opts  Options
	in    *bufio.Reader
	state State
	shown int
}

// New returns a Selector ready to Run.
func New(opts Options) *Selector {
	return &Selector{
		opts: opts,
		in:   bufio.NewReader(opts.In),
	}
}

// State returns a copy of the current loop state.
func (s *Selector) State() State { return s.state }

// Run browses until the user accepts a candidate or results run out.
// Exhaustion is not an error.
func (s *Selector) Run(ctx context.Context) (*Result, error) {
	if s.opts.SingleSourceURL != "" {
		return s.runSingle(ctx)
	}

	page, err := s.fetchPage(ctx, 1)
	if err != nil {
		return nil, err
	}

	s.state = State{Page: page, Mode: Browsing}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if s.state.Cursor >= len(s.state.Page.Items) {
			if !s.state.Page.HasNext() {
				return s.exhaust(), nil
			}

			next := s.state.Page.CurrentPage + 1
			fmt.Fprintf(s.opts.Out, "going to next page %d\n", next)

			page, err := s.fetchPage(ctx, next)
			if err != nil {
				return nil, err
			}

			s.state.Page = page
			s.state.Cursor = 0

			continue
		}

		cand := s.state.Page.Items[s.state.Cursor]

		img, err := s.show(ctx, cand)
		if err != nil {
			return nil, err
		}

		prompt := fmt.Sprintf("Would you like to set this wallpaper? (%d/%d)(%d/%d) (y/n)",
			s.state.Cursor+1, s.state.Page.Count(),
			s.state.Page.CurrentPage, s.state.Page.LastPage,
		)

		yes, err := s.ask(prompt)
		if err != nil {
			return nil, err
		}

		if yes {
			s.state.Mode = Accepted

			return &Result{
				Mode:      Accepted,
				Candidate: cand,
				Image:     img,
				Page:      s.state.Page.CurrentPage,
				Shown:     s.shown,
			}, nil
		}

		s.state.Cursor++
	}
}

// runSingle loops over the single-image source. A rejection fetches a fresh
// image from the same endpoint.
func (s *Selector) runSingle(ctx context.Context) (*Result, error) {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.state = State{Page: api.SinglePage(s.opts.SingleSourceURL, n), Mode: Browsing}
		cand := s.state.Page.Items[0]

		img, err := s.show(ctx, cand)
		if err != nil {
			return nil, err
		}

		yes, err := s.ask("Would you like to set this wallpaper? (y/n)")
		if err != nil {
			return nil, err
		}

		if yes {
			s.state.Mode = Accepted

			return &Result{Mode: Accepted, Candidate: cand, Image: img, Page: n, Shown: s.shown}, nil
		}
	}
}

func (s *Selector) fetchPage(ctx context.Context, n int) (*api.ResultPage, error) {
	q := s.opts.Query
	q.Page = n

	page, err := s.opts.Source.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", n, err)
	}

	return page, nil
}

// show prints, downloads and previews one candidate.
func (s *Selector) show(ctx context.Context, cand api.Candidate) (*api.FetchedImage, error) {
	fmt.Fprintln(s.opts.Out, cand.Path)

	img, err := s.opts.Fetcher.FetchImage(ctx, cand.Path)
	if err != nil {
		return nil, err
	}

	if s.opts.Renderer != nil {
		if err := s.opts.Renderer.Render(img.Data); err != nil {
			return nil, err
		}
	}

	s.shown++

	return img, nil
}

// ask prompts until it gets y or n. Unrecognised answers print one
// diagnostic each and leave the state alone.
func (s *Selector) ask(prompt string) (bool, error) {
	for {
		fmt.Fprintln(s.opts.Out, prompt)

		answer, err := s.readAnswer()
		if err != nil {
			return false, err
		}

		yes, err := parseAnswer(answer)
		if err != nil {
			slog.Debug("rejected answer", "input", answer, "error", err)
			fmt.Fprintln(s.opts.Err, "Not an option")

			continue
		}

		return yes, nil
	}
}

func (s *Selector) readAnswer() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}

		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}

		return "", fmt.Errorf("reading answer: %w", err)
	}

	return line, nil
}

func (s *Selector) exhaust() *Result {
	s.state.Mode = Exhausted

	if s.state.Cursor == 0 {
		fmt.Fprintln(s.opts.Err, "There are no results")
	} else {
		fmt.Fprintf(s.opts.Err, "There are no more wallpapers (browsed %d)\n", s.shown)
	}

	return &Result{Mode: Exhausted, Page: s.state.Page.CurrentPage, Shown: s.shown}
}

func parseAnswer(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, ErrInvalidInput
	}
}

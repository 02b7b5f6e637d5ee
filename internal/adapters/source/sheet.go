package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

const maxRedirects = 3

// SheetOption configures SheetResults.
type SheetOption func(*SheetResults)

// WithHTTPClient replaces the fasthttp client.
func WithHTTPClient(c *fasthttp.Client) SheetOption {
	return func(s *SheetResults) {
		if c != nil {
			s.client = c
		}
	}
}

// WithRequestTimeout bounds a fetch when the context carries no deadline.
func WithRequestTimeout(d time.Duration) SheetOption {
	return func(s *SheetResults) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// SheetResults reads reported picks from a spreadsheet CSV export.
type SheetResults struct {
	url     string
	client  *fasthttp.Client
	timeout time.Duration
}

// NewSheetResults creates a results loader for a CSV export URL.
func NewSheetResults(url string, opts ...SheetOption) *SheetResults {
	s := &SheetResults{
		url: url,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
		},
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and parses the sheet.
func (s *SheetResults) Load(ctx context.Context) ([]model.Pick, error) {
	if s.url == "" {
		return nil, fmt.Errorf("%w: results url", ErrNotConfigured)
	}
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return ParseResultsCSV(bytes.NewReader(body))
}

func (s *SheetResults) fetch(ctx context.Context) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv")

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("fetch results: %w", context.DeadlineExceeded)
	}
	req.SetTimeout(timeout)

	// Sheets exports answer with a redirect to the content host.
	if err := s.client.DoRedirects(req, resp, maxRedirects); err != nil {
		return nil, fmt.Errorf("fetch results: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode())
	}
	// The body is owned by resp until release.
	return append([]byte(nil), resp.Body()...), nil
}

// ParseResultsCSV reads Pick, Player and Team columns located by header name.
// Team is optional. Rows with a bad or out-of-range pick number or a blank
// player are skipped, as are later rows repeating a pick number.
func ParseResultsCSV(r io.Reader) ([]model.Pick, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Pick{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read results header: %w", err)
	}

	pickCol, playerCol, teamCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "pick":
			pickCol = i
		case "player":
			playerCol = i
		case "team":
			teamCol = i
		}
	}
	if pickCol < 0 || playerCol < 0 {
		return nil, fmt.Errorf("%w: results need Pick and Player columns", ErrMissingColumn)
	}

	byNumber := make(map[int]model.Pick)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read results row: %w", err)
		}

		n, ok := parsePickNumber(cell(rec, pickCol))
		if !ok {
			continue
		}
		player := strings.TrimSpace(cell(rec, playerCol))
		if player == "" {
			continue
		}
		if _, dup := byNumber[n]; dup {
			continue
		}
		byNumber[n] = model.Pick{Number: n, Player: player, Team: strings.TrimSpace(cell(rec, teamCol))}
	}

	picks := make([]model.Pick, 0, len(byNumber))
	for _, p := range byNumber {
		picks = append(picks, p)
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i].Number < picks[j].Number })
	return picks, nil
}

// parsePickNumber accepts "7" and spreadsheet floats like "7.0".
func parsePickNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		n = int(f)
	}
	if n < 1 || n > model.FirstRound {
		return 0, false
	}
	return n, true
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

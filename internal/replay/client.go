package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

type client struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
}

func newClient(base string, timeout time.Duration) *client {
	return &client{
		base: base,
		http: &fasthttp.Client{
			MaxConnsPerHost: 4,
			ReadTimeout:     timeout,
			WriteTimeout:    timeout,
		},
		timeout: timeout,
	}
}

// do sends one request and returns the status code and a copy of the body.
func (c *client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, context.DeadlineExceeded)
	}
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func (c *client) health(ctx context.Context) error {
	status, _, err := c.do(ctx, fasthttp.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

type pickBody struct {
	Pick   int    `json:"pick"`
	Player string `json:"player"`
	Team   string `json:"team,omitempty"`
}

type ack struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// submit posts one pick and classifies the answer.
func (c *client) submit(ctx context.Context, p model.Pick) string {
	status, body, err := c.do(ctx, fasthttp.MethodPost, "/picks", pickBody{Pick: p.Number, Player: p.Player, Team: p.Team})
	if err != nil {
		return outcomeFailed
	}
	switch status {
	case fasthttp.StatusAccepted:
		return outcomeAccepted
	case fasthttp.StatusOK:
		var a ack
		if json.Unmarshal(body, &a) == nil && !a.Duplicate {
			return outcomeAccepted
		}
		return outcomeDuplicate
	default:
		return outcomeFailed
	}
}

func (c *client) refresh(ctx context.Context) (types.RefreshTicket, error) {
	var t types.RefreshTicket
	status, body, err := c.do(ctx, fasthttp.MethodPost, "/refresh?clear_cache=true", nil)
	if err != nil {
		return t, err
	}
	if status != fasthttp.StatusAccepted {
		return t, fmt.Errorf("refresh: status %d", status)
	}
	if err := json.Unmarshal(body, &t); err != nil {
		return t, fmt.Errorf("decode refresh: %w", err)
	}
	return t, nil
}

func (c *client) leaderboard(ctx context.Context, limit int) ([]types.Standing, error) {
	path := "/leaderboard"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}
	var rows []types.Standing
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *client) commentary(ctx context.Context) (types.Commentary, error) {
	var cm types.Commentary
	err := c.getJSON(ctx, "/commentary", &cm)
	return cm, err
}

func (c *client) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.do(ctx, fasthttp.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

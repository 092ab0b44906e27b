package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/brk3/habiterm/internal/server"
	"github.com/brk3/habiterm/internal/service"
	"github.com/brk3/habiterm/pkg/habit"
	"github.com/brk3/habiterm/pkg/versioninfo"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(base, token string) *Client {
	return &Client{
		BaseURL: base,
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// APIError carries the server's {"error": ...} message.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Op, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode != want {
		apiErr := &APIError{Op: op, StatusCode: res.StatusCode}
		var e server.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func habitPath(id string) string {
	return "/habits/" + url.PathEscape(id)
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var response server.HabitListResponse
	if err := c.do(ctx, "list habits", http.MethodGet, "/habits", nil, http.StatusOK, &response); err != nil {
		return nil, err
	}
	return response.Habits, nil
}

func (c *Client) GetHabit(ctx context.Context, id string) (habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, "get habit "+id, http.MethodGet, habitPath(id), nil, http.StatusOK, &h)
	return h, err
}

func (c *Client) CreateHabit(ctx context.Context, d habit.Draft) (habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, "create habit", http.MethodPost, "/habits", d, http.StatusCreated, &h)
	return h, err
}

func (c *Client) UpdateHabit(ctx context.Context, id string, e habit.Edit) (habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, "update habit "+id, http.MethodPatch, habitPath(id), e, http.StatusOK, &h)
	return h, err
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, "delete habit "+id, http.MethodDelete, habitPath(id), nil, http.StatusNoContent, nil)
}

// Complete records a completion of id lasting durationSeconds.
func (c *Client) Complete(ctx context.Context, id string, durationSeconds int) (*server.CompleteResponse, error) {
	var out server.CompleteResponse
	body := server.CompleteRequest{DurationSeconds: durationSeconds}
	if err := c.do(ctx, "complete habit "+id, http.MethodPost, habitPath(id)+"/completions", body, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Today(ctx context.Context) (*service.Today, error) {
	var out service.Today
	if err := c.do(ctx, "today", http.MethodGet, "/today", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Week(ctx context.Context) (*service.Week, error) {
	var out service.Week
	if err := c.do(ctx, "week", http.MethodGet, "/week", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Version(ctx context.Context) (*versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	if err := c.do(ctx, "version", http.MethodGet, "/version", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

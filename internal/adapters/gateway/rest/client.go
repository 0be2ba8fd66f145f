// Package rest implements the board gateway over the wishpool HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vncsmyrnk/wishpool/internal/core/domain"
	"github.com/vncsmyrnk/wishpool/internal/core/ports"
)

const DefaultTimeout = 15 * time.Second

// RemoteError is a non-2xx answer from the server. Message is the body the
// server sent, suitable for showing to the user.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap maps the status back onto the domain error the server started from.
func (e *RemoteError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrPermissionDenied
	case http.StatusNotFound:
		return domain.ErrWishNotFound
	case http.StatusConflict:
		if strings.Contains(e.Message, domain.ErrDuplicateWishID.Error()) {
			return domain.ErrDuplicateWishID
		}
		return domain.ErrAlreadyVoted
	}
	return domain.ErrInternal
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// NewClient returns a gateway that authenticates every call with token as a
// bearer access token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Gateway = (*Client)(nil)

type wishBody struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

type messageBody struct {
	Message string `json:"message"`
}

type adminBody struct {
	IsAdmin bool `json:"is_admin"`
}

func (c *Client) IsAdmin(ctx context.Context) (bool, error) {
	var out adminBody
	if err := c.do(ctx, http.MethodGet, "/api/me/admin", nil, &out); err != nil {
		return false, err
	}
	return out.IsAdmin, nil
}

func (c *Client) VotedWishIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "/api/me/votes", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) ListWishes(ctx context.Context) ([]*domain.Wish, error) {
	var wishes []*domain.Wish
	if err := c.do(ctx, http.MethodGet, "/api/wishes", nil, &wishes); err != nil {
		return nil, err
	}
	return wishes, nil
}

func (c *Client) AddWish(ctx context.Context, input ports.CreateWishInput) (string, error) {
	body := wishBody{ID: input.ID, Title: input.Title, Desc: input.Description}
	return c.message(ctx, http.MethodPost, "/api/wishes", body)
}

func (c *Client) AddVote(ctx context.Context, wishID string) (string, error) {
	return c.message(ctx, http.MethodPost, "/api/wishes/"+url.PathEscape(wishID)+"/votes", nil)
}

func (c *Client) UpdateWish(ctx context.Context, input ports.UpdateWishInput) (string, error) {
	body := wishBody{Title: input.Title, Desc: input.Description}
	return c.message(ctx, http.MethodPut, "/api/wishes/"+url.PathEscape(input.ID), body)
}

func (c *Client) DeleteWish(ctx context.Context, wishID string) (string, error) {
	return c.message(ctx, http.MethodDelete, "/api/wishes/"+url.PathEscape(wishID), nil)
}

func (c *Client) message(ctx context.Context, method, path string, body any) (string, error) {
	var out messageBody
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RemoteError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// IsRemote reports whether err came back from the server rather than from the
// network.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

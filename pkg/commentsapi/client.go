// Package commentsapi talks to the JSONPlaceholder-style comments resource.
package commentsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
	"github.com/samvad-hq/samvad-comment-probe/pkg/httpclient"
)

const commentsPath = "comments"

// Client issues single-attempt requests against the comments API.
type Client struct {
	http    httpclient.Client
	baseURL string
	headers map[string]string
	now     func() time.Time
}

// New builds a Client. headers may be nil; none are sent by default.
func New(client httpclient.Client, baseURL string, headers map[string]string) *Client {
	return &Client{
		http:    client,
		baseURL: baseURL,
		headers: headers,
		now:     time.Now,
	}
}

// GetComment fetches a single comment resource.
func (c *Client) GetComment(ctx context.Context, id int) (domain.Exchange, error) {
	target, err := url.JoinPath(c.baseURL, commentsPath, strconv.Itoa(id))
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("build comment url: %w", err)
	}

	ex := c.newExchange(domain.OperationGetComment, http.MethodGet, target)
	resp, err := c.http.Get(ctx, target, c.headers)
	return c.finish(ex, resp, err)
}

// CreateComment validates draft and posts it as JSON.
func (c *Client) CreateComment(ctx context.Context, draft domain.CommentDraft) (domain.Exchange, error) {
	if err := draft.Validate(); err != nil {
		return domain.Exchange{}, fmt.Errorf("invalid comment draft: %w", err)
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("marshal comment draft: %w", err)
	}

	target, err := url.JoinPath(c.baseURL, commentsPath)
	if err != nil {
		return domain.Exchange{}, fmt.Errorf("build comments url: %w", err)
	}

	ex := c.newExchange(domain.OperationCreateComment, http.MethodPost, target)
	resp, err := c.http.Post(ctx, target, c.headers, payload)
	return c.finish(ex, resp, err)
}

func (c *Client) newExchange(op, method, target string) domain.Exchange {
	return domain.Exchange{
		ID:        uuid.NewString(),
		Operation: op,
		Method:    method,
		URL:       target,
		StartedAt: c.now().UTC(),
	}
}

// finish fills the exchange from the response and classifies the outcome.
func (c *Client) finish(ex domain.Exchange, resp httpclient.Response, reqErr error) (domain.Exchange, error) {
	ex.Elapsed = c.now().UTC().Sub(ex.StartedAt)
	if reqErr != nil {
		return ex, fmt.Errorf("%s request: %w", ex.Operation, reqErr)
	}

	body := resp.Body()
	ex.StatusCode = resp.StatusCode()

	if ex.StatusCode < 200 || ex.StatusCode > 299 {
		if json.Valid(body) {
			ex.Body = append(json.RawMessage(nil), body...)
		}
		return ex, &StatusError{
			Operation:  ex.Operation,
			StatusCode: ex.StatusCode,
			Snippet:    responseSnippet(body),
		}
	}

	parsed, err := decodeBody(body)
	if err != nil {
		return ex, fmt.Errorf("%s response: %w", ex.Operation, err)
	}
	ex.Body = append(json.RawMessage(nil), body...)
	ex.Parsed = parsed
	return ex, nil
}

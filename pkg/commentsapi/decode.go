package commentsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSnippetLen = 512

// StatusError reports a non-2xx response.
type StatusError struct {
	Operation  string
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d body: %s", e.Operation, e.StatusCode, e.Snippet)
}

// decodeBody parses body as a single JSON value, keeping numbers as json.Number.
func decodeBody(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, describeInvalid(body, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, describeInvalid(body, errors.New("unexpected data after JSON value"))
	}
	return v, nil
}

// describeInvalid wraps a decode failure, naming the page title when the body is HTML.
func describeInvalid(body []byte, err error) error {
	if title := htmlTitle(body); title != "" {
		return fmt.Errorf("decode json: %w (got html page %q)", err, title)
	}
	return fmt.Errorf("decode json: %w", err)
}

func htmlTitle(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func responseSnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxSnippetLen {
		return s[:maxSnippetLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

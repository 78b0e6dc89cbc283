package domain

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// Operation names recorded on exchanges.
const (
	OperationGetComment    = "get_comment"
	OperationCreateComment = "create_comment"
)

var validate = validator.New()

// CommentDraft is the payload sent when creating a comment.
// Field order matters: it is the order keys are written on the wire.
type CommentDraft struct {
	PostID int    `json:"postID" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Body   string `json:"body" validate:"required"`
}

// Validate checks the draft before it is sent.
func (d CommentDraft) Validate() error {
	return validate.Struct(d)
}

// Comment is the typed shape of a comment resource on the remote API.
type Comment struct {
	PostID int    `json:"postId"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Exchange is one request/response round trip against the remote API.
type Exchange struct {
	ID         string          `json:"id"`
	Operation  string          `json:"operation"`
	Method     string          `json:"method"`
	URL        string          `json:"url"`
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body,omitempty"`
	Parsed     any             `json:"-"`
	StartedAt  time.Time       `json:"started_at"`
	Elapsed    time.Duration   `json:"elapsed"`
}

// Comment decodes the body into the typed view. Unknown fields are ignored.
func (e Exchange) Comment() (Comment, error) {
	var c Comment
	if len(e.Body) == 0 {
		return c, nil
	}
	err := json.Unmarshal(e.Body, &c)
	return c, err
}

package probe

import (
	"context"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
)

// Operation is one independent call against the API.
type Operation interface {
	Name() string
	Execute(ctx context.Context, api API) (domain.Exchange, error)
}

// GetComment reads a single comment.
type GetComment struct {
	ID int
}

func (GetComment) Name() string { return domain.OperationGetComment }

func (g GetComment) Execute(ctx context.Context, api API) (domain.Exchange, error) {
	return api.GetComment(ctx, g.ID)
}

// CreateComment posts a new comment.
type CreateComment struct {
	Draft domain.CommentDraft
}

func (CreateComment) Name() string { return domain.OperationCreateComment }

func (c CreateComment) Execute(ctx context.Context, api API) (domain.Exchange, error) {
	return api.CreateComment(ctx, c.Draft)
}

package probe

import (
	"context"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
	"github.com/samvad-hq/samvad-comment-probe/pkg/publishers"
)

// API is the remote comments API as seen by operations.
type API interface {
	GetComment(ctx context.Context, id int) (domain.Exchange, error)
	CreateComment(ctx context.Context, draft domain.CommentDraft) (domain.Exchange, error)
}

// EventPublisher publishes exchanges downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Archiver records exchanges.
type Archiver interface {
	Put(ex domain.Exchange) error
}

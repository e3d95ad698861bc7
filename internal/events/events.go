// Package events publishes comment domain events to RabbitMQ.
package events

import (
	"context"
	"time"

	"github.com/evcraddock/comment-board/internal/comment"
)

// CommentCreated is the payload published after a comment is stored.
type CommentCreated struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NewCommentCreated builds the event for c.
func NewCommentCreated(c *comment.Comment) CommentCreated {
	return CommentCreated{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Publisher announces stored comments to downstream consumers.
type Publisher interface {
	CommentCreated(ctx context.Context, c *comment.Comment) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// CommentCreated implements Publisher.
func (Nop) CommentCreated(context.Context, *comment.Comment) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

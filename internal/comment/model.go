// Package comment provides the comment domain model, input validation and
// data access.
package comment

import (
	"context"
	"time"
)

// TimestampLayout is the wire format for created_at (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// Comment is a single posted text record.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the persistence contract for comments. There is no update or
// delete.
type Store interface {
	// Insert persists content and returns the stored record.
	Insert(ctx context.Context, content string) (*Comment, error)
	// ListAll returns every comment, newest first.
	ListAll(ctx context.Context) ([]*Comment, error)
}

// View is the serialized shape of a comment in API responses.
type View struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// View renders c with created_at formatted in loc. A nil loc means UTC.
func (c *Comment) View(loc *time.Location) View {
	if loc == nil {
		loc = time.UTC
	}
	return View{
		ID:        c.ID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.In(loc).Format(TimestampLayout),
	}
}

// Views renders a list of comments. The result is never nil so that an
// empty list serializes as [].
func Views(comments []*Comment, loc *time.Location) []View {
	views := make([]View, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View(loc))
	}
	return views
}

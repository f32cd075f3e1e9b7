package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a generated piece of text saved under one account, kept so a
// user can review or reuse what the generator produced.
type Post struct {
	ID        string
	AccountID string
	Content   string
	CreatedAt time.Time
}

func NewPostID() string {
	return "post_" + uuid.NewString()
}

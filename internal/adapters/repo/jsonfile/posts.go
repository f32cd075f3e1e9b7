package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const postsFile = "posts.json"

// PostsRepository keeps generated post texts per account, at
// posts/<userId>/posts.json.
type PostsRepository struct {
	store *Store
	clock ports.Clock
}

var _ ports.PostRepository = (*PostsRepository)(nil)

func NewPostsRepository(store *Store, clock ports.Clock) *PostsRepository {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &PostsRepository{store: store, clock: clock}
}

type postsSchema struct {
	LastUpdated string       `json:"lastUpdated"`
	Posts       []postSchema `json:"posts"`
}

type postSchema struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func (r *PostsRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if accountID == "" || accountID == domain.UnknownUserID {
		return nil, domain.ErrIdentityUnknown
	}

	path := r.store.path(accountsDir, accountID, postsFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file postsSchema
	if _, err := readFile(path, &file); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(file.Posts))
	for _, entry := range file.Posts {
		posts = append(posts, domain.Post{
			ID:        entry.ID,
			AccountID: entry.AccountID,
			Content:   entry.Content,
			CreatedAt: parseTime(entry.CreatedAt),
		})
	}
	return posts, nil
}

func (r *PostsRepository) Save(ctx context.Context, post domain.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post.AccountID == "" || post.AccountID == domain.UnknownUserID {
		return fmt.Errorf("save post: %w", domain.ErrIdentityUnknown)
	}

	path := r.store.path(accountsDir, post.AccountID, postsFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	var file postsSchema
	if _, err := readFile(path, &file); err != nil {
		return err
	}

	file.Posts = append(file.Posts, postSchema{
		ID:        post.ID,
		AccountID: post.AccountID,
		Content:   post.Content,
		CreatedAt: formatTime(post.CreatedAt),
	})
	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)

	return writeFile(path, file)
}

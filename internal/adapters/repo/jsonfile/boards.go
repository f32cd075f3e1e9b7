package jsonfile

import (
	"context"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const boardsFile = "boards.json"

// BoardsRepository maps account (or slot) keys to their cafe/board pair.
type BoardsRepository struct {
	store *Store
	clock ports.Clock
}

var _ ports.BoardRepository = (*BoardsRepository)(nil)

func NewBoardsRepository(store *Store, clock ports.Clock) *BoardsRepository {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &BoardsRepository{store: store, clock: clock}
}

type boardsSchema struct {
	LastUpdated string                 `json:"lastUpdated"`
	Boards      map[string]boardSchema `json:"boards"`
}

type boardSchema struct {
	CafeID    string `json:"cafeId"`
	BoardID   string `json:"boardId"`
	CafeName  string `json:"cafeName,omitempty"`
	BoardName string `json:"boardName,omitempty"`
}

func (r *BoardsRepository) List(ctx context.Context) (map[string]domain.BoardMapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.store.path(boardsFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file boardsSchema
	if _, err := readFile(path, &file); err != nil {
		return nil, err
	}

	boards := make(map[string]domain.BoardMapping, len(file.Boards))
	for key, entry := range file.Boards {
		boards[key] = boardFromSchema(key, entry)
	}
	return boards, nil
}

func (r *BoardsRepository) Get(ctx context.Context, key string) (domain.BoardMapping, error) {
	if err := ctx.Err(); err != nil {
		return domain.BoardMapping{}, err
	}

	path := r.store.path(boardsFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file boardsSchema
	if _, err := readFile(path, &file); err != nil {
		return domain.BoardMapping{}, err
	}

	entry, ok := file.Boards[key]
	if !ok {
		return domain.BoardMapping{}, domain.ErrBoardNotFound
	}
	return boardFromSchema(key, entry), nil
}

func (r *BoardsRepository) Save(ctx context.Context, mapping domain.BoardMapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(boardsFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	var file boardsSchema
	if _, err := readFile(path, &file); err != nil {
		return err
	}
	if file.Boards == nil {
		file.Boards = map[string]boardSchema{}
	}

	file.Boards[mapping.Key] = boardSchema{
		CafeID:    mapping.CafeID,
		BoardID:   mapping.BoardID,
		CafeName:  mapping.CafeName,
		BoardName: mapping.BoardName,
	}
	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)

	return writeFile(path, file)
}

func (r *BoardsRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(boardsFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	var file boardsSchema
	if _, err := readFile(path, &file); err != nil {
		return err
	}

	if _, ok := file.Boards[key]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(file.Boards, key)
	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)

	return writeFile(path, file)
}

func boardFromSchema(key string, entry boardSchema) domain.BoardMapping {
	return domain.BoardMapping{
		Key:       key,
		CafeID:    entry.CafeID,
		BoardID:   entry.BoardID,
		CafeName:  entry.CafeName,
		BoardName: entry.BoardName,
	}
}

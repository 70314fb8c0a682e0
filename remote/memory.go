package remote

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cppla/riqqa/models"
)

// MemorySource keeps both tables in process memory. It backs the "memory"
// database driver for local runs.
type MemorySource struct {
	mu       sync.RWMutex
	posts    map[string]PostRow
	comments map[string][]CommentRow
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		posts:    map[string]PostRow{},
		comments: map[string][]CommentRow{},
	}
}

func (m *MemorySource) sortedPosts(keep func(PostRow) bool) ([]models.Post, error) {
	m.mu.RLock()
	rows := make([]PostRow, 0, len(m.posts))
	for _, r := range m.posts {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	m.mu.RUnlock()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rowsToPosts(rows), nil
}

func (m *MemorySource) ListPosts(ctx context.Context) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.sortedPosts(func(PostRow) bool { return true })
}

func (m *MemorySource) ListPostsBySection(ctx context.Context, section models.Section) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.sortedPosts(func(r PostRow) bool { return r.Section == string(section) })
}

func (m *MemorySource) GetPost(ctx context.Context, id string) (models.Post, error) {
	if err := ctx.Err(); err != nil {
		return models.Post{}, err
	}
	m.mu.RLock()
	row, ok := m.posts[id]
	m.mu.RUnlock()
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return row.toModel()
}

func (m *MemorySource) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	rows := append([]CommentRow(nil), m.comments[postID]...)
	m.mu.RUnlock()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	out := make([]models.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (m *MemorySource) SetLikes(ctx context.Context, id string, likes int) error {
	_, err := m.modifyLikes(ctx, id, func(int) int { return likes })
	return err
}

func (m *MemorySource) AdjustLikes(ctx context.Context, id string, delta int) (int, error) {
	return m.modifyLikes(ctx, id, func(cur int) int { return cur + delta })
}

func (m *MemorySource) modifyLikes(ctx context.Context, id string, fn func(int) int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.posts[id]
	if !ok {
		return 0, ErrNotFound
	}
	row.Likes = clampLikes(fn(row.Likes))
	m.posts[id] = row
	return row.Likes, nil
}

func (m *MemorySource) InsertComment(ctx context.Context, postID, text string, at time.Time) (models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return models.Comment{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return models.Comment{}, ErrNotFound
	}
	row := CommentRow{ID: uuid.NewString(), PostID: postID, Text: text, CreatedAt: at.UTC()}
	m.comments[postID] = append(m.comments[postID], row)
	return row.toModel(), nil
}

func (m *MemorySource) InsertPost(ctx context.Context, in NewPost) (models.Post, error) {
	if err := ctx.Err(); err != nil {
		return models.Post{}, err
	}
	row := newPostRow(in)
	row.ID = uuid.NewString()
	m.mu.Lock()
	m.posts[row.ID] = row
	m.mu.Unlock()
	return row.toModel()
}

func (m *MemorySource) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	delete(m.comments, id)
	return nil
}

// Package remote is the client of the hosted posts/comments tables. It issues
// plain CRUD calls and owns no application state.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/riqqa/models"
)

// ErrNotFound is returned when the addressed post does not exist.
var ErrNotFound = errors.New("remote: record not found")

// DataSource lists the operations issued against the remote tables.
type DataSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsBySection(ctx context.Context, section models.Section) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	// SetLikes writes an absolute counter value.
	SetLikes(ctx context.Context, id string, likes int) error
	// AdjustLikes adds delta to the counter, never going below zero, and
	// returns the stored value.
	AdjustLikes(ctx context.Context, id string, delta int) (int, error)
	InsertComment(ctx context.Context, postID, text string, at time.Time) (models.Comment, error)
	InsertPost(ctx context.Context, in NewPost) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// NewPost is the insert payload of a post; likes always start at zero.
type NewPost struct {
	Section   models.Section
	Title     string
	Content   models.Content
	CreatedAt time.Time
}

// PostRow maps the posts table.
type PostRow struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Section   string    `gorm:"size:32;not null;index:idx_posts_section_created,priority:1" json:"section"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FileURL   *string   `gorm:"size:1024" json:"file_url"`
	Likes     int       `gorm:"not null" json:"likes"`
	CreatedAt time.Time `gorm:"not null;index:idx_posts_section_created,priority:2" json:"created_at"`
}

func (PostRow) TableName() string { return "posts" }

func (r *PostRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CommentRow maps the comments table.
type CommentRow struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index" json:"post_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CommentRow) TableName() string { return "comments" }

func (r *CommentRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Models returns the table definitions for migration.
func Models() []interface{} {
	return []interface{}{&PostRow{}, &CommentRow{}}
}

func newPostRow(in NewPost) PostRow {
	row := PostRow{
		Section:   string(in.Section),
		Title:     in.Title,
		Type:      string(in.Content.Type()),
		Content:   in.Content.Body(),
		CreatedAt: in.CreatedAt.UTC(),
	}
	if u := models.FileURL(in.Content); u != "" {
		row.FileURL = &u
	}
	return row
}

func (r PostRow) toModel() (models.Post, error) {
	var fileURL string
	if r.FileURL != nil {
		fileURL = *r.FileURL
	}
	content, err := models.NewContent(models.ContentType(r.Type), r.Content, fileURL)
	if err != nil {
		return models.Post{}, err
	}
	return models.Post{
		ID:        r.ID,
		Section:   models.Section(r.Section),
		Title:     r.Title,
		Content:   content,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (r CommentRow) toModel() models.Comment {
	return models.Comment{ID: r.ID, PostID: r.PostID, Text: r.Text, CreatedAt: r.CreatedAt}
}

// rowsToPosts maps listing rows to posts. Rows that do not form a valid post,
// such as media rows saved without a file, are logged and left out so one bad
// row cannot hide the rest of a listing.
func rowsToPosts(rows []PostRow) []models.Post {
	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		p, err := r.toModel()
		if err != nil {
			zap.S().Warnw("skipping unreadable post row", "post_id", r.ID, "type", r.Type, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func clampLikes(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

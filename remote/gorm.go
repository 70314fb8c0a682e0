package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/riqqa/models"
)

// GormSource talks to the posts and comments tables through gorm. Any
// dialector works; postgres and mysql are wired in config.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

func (s *GormSource) ListPosts(ctx context.Context) ([]models.Post, error) {
	var rows []PostRow
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return rowsToPosts(rows), nil
}

func (s *GormSource) ListPostsBySection(ctx context.Context, section models.Section) ([]models.Post, error) {
	var rows []PostRow
	err := s.db.WithContext(ctx).
		Where("section = ?", string(section)).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list posts of %s: %w", section, err)
	}
	return rowsToPosts(rows), nil
}

func (s *GormSource) GetPost(ctx context.Context, id string) (models.Post, error) {
	var row PostRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Post{}, ErrNotFound
		}
		return models.Post{}, fmt.Errorf("get post: %w", err)
	}
	return row.toModel()
}

func (s *GormSource) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var rows []CommentRow
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]models.Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// lockLikes reads the counter of id with a row lock held until tx ends.
func lockLikes(tx *gorm.DB, id string) (int, error) {
	var row PostRow
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "likes").
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	return row.Likes, err
}

func (s *GormSource) SetLikes(ctx context.Context, id string, likes int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockLikes(tx, id); err != nil {
			return err
		}
		return tx.Model(&PostRow{}).Where("id = ?", id).UpdateColumn("likes", clampLikes(likes)).Error
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("set likes: %w", err)
	}
	return err
}

func (s *GormSource) AdjustLikes(ctx context.Context, id string, delta int) (int, error) {
	var likes int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockLikes(tx, id)
		if err != nil {
			return err
		}
		likes = clampLikes(current + delta)
		return tx.Model(&PostRow{}).Where("id = ?", id).UpdateColumn("likes", likes).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("adjust likes: %w", err)
	}
	return likes, nil
}

func (s *GormSource) InsertComment(ctx context.Context, postID, text string, at time.Time) (models.Comment, error) {
	row := CommentRow{PostID: postID, Text: text, CreatedAt: at.UTC()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&PostRow{}).Where("id = ?", postID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Comment{}, err
		}
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return row.toModel(), nil
}

func (s *GormSource) InsertPost(ctx context.Context, in NewPost) (models.Post, error) {
	row := newPostRow(in)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return row.toModel()
}

// DeletePost removes the post together with its comments.
func (s *GormSource) DeletePost(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&CommentRow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&PostRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete post: %w", err)
	}
	return err
}

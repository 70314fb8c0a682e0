package services

import (
	"context"
	"errors"
	"time"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/remote"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

// PostService runs the reader flows: feed, section, post detail, likes and
// comments. Each flow calls the data source first and only mutates the store
// after the call succeeded.
type PostService struct {
	src     remote.DataSource
	store   *store.Store
	timeout time.Duration
	now     func() time.Time
}

func NewPostService(src remote.DataSource, st *store.Store, timeout time.Duration) *PostService {
	return &PostService{src: src, store: st, timeout: timeout, now: time.Now}
}

// PostDetail is a post with its comments, newest first.
type PostDetail struct {
	Post         models.Post      `json:"post"`
	Comments     []models.Comment `json:"comments"`
	CommentCount int              `json:"comment_count"`
}

// SectionPosts is a section listing.
type SectionPosts struct {
	Section models.SectionInfo `json:"section"`
	Posts   []models.Post      `json:"posts"`
}

// LoadFeed fetches every post and replaces the store's list with it.
func (s *PostService) LoadFeed(ctx context.Context) ([]models.Post, error) {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	posts, err := s.src.ListPosts(ctx)
	if err != nil {
		utils.Sugar.Errorw("load feed failed", "error", err)
		return nil, models.NewRemoteError(models.MsgLoadPostsFailed, err)
	}
	s.store.SetPosts(posts)
	return posts, nil
}

// LoadSection returns the posts of one section without touching the store's list.
func (s *PostService) LoadSection(ctx context.Context, sectionID string) (SectionPosts, error) {
	info, ok := models.LookupSection(sectionID)
	if !ok {
		return SectionPosts{}, models.NewValidationError(models.MsgInvalidSection)
	}

	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	posts, err := s.src.ListPostsBySection(ctx, info.ID)
	if err != nil {
		utils.Sugar.Errorw("load section failed", "section", sectionID, "error", err)
		return SectionPosts{}, models.NewRemoteError(models.MsgLoadPostsFailed, err)
	}
	return SectionPosts{Section: info, Posts: posts}, nil
}

// LoadPost fetches one post with its comments, flagging the store as loading
// while the remote calls run.
func (s *PostService) LoadPost(ctx context.Context, id string) (PostDetail, error) {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.src.GetPost(ctx, id)
	if err != nil {
		return PostDetail{}, remoteErr(err, models.MsgLoadPostFailed, "post_id", id)
	}
	comments, err := s.src.ListComments(ctx, id)
	if err != nil {
		return PostDetail{}, remoteErr(err, models.MsgLoadPostFailed, "post_id", id)
	}
	return PostDetail{Post: post, Comments: comments, CommentCount: len(comments)}, nil
}

// Like adds one like remotely, mirrors it locally and returns the stored count.
// The local increment is the optimistic step; the remote count then replaces
// it only when another client moved the counter in between.
func (s *PostService) Like(ctx context.Context, id string) (int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	likes, err := s.src.AdjustLikes(ctx, id, 1)
	if err != nil {
		return 0, remoteErr(err, models.MsgLikeFailed, "post_id", id)
	}
	s.store.LikePost(id)
	s.store.SetPostLikes(id, likes)
	return likes, nil
}

// Unlike removes one like, never going below zero.
func (s *PostService) Unlike(ctx context.Context, id string) (int, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	likes, err := s.src.AdjustLikes(ctx, id, -1)
	if err != nil {
		return 0, remoteErr(err, models.MsgLikeFailed, "post_id", id)
	}
	s.store.SetPostLikes(id, likes)
	return likes, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, text string) (models.Comment, error) {
	text = utils.CleanText(text)
	if text == "" {
		return models.Comment{}, models.NewValidationError(models.MsgCommentRequired)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	c, err := s.src.InsertComment(ctx, postID, text, s.now())
	if err != nil {
		return models.Comment{}, remoteErr(err, models.MsgCommentFailed, "post_id", postID)
	}
	s.store.AddComment(c)
	return c, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// remoteErr logs err and classifies it; a missing post becomes not found.
func remoteErr(err error, key models.MessageKey, kv ...interface{}) error {
	if errors.Is(err, remote.ErrNotFound) {
		return models.NewNotFoundError(models.MsgPostNotFound, err)
	}
	utils.Sugar.Errorw(string(key), append(kv, "error", err)...)
	return models.NewRemoteError(key, err)
}

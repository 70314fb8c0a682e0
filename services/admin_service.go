package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/remote"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

// SessionKey records that the admin logged in on this installation.
const SessionKey = "admin_logged_in"

// SessionStore persists the admin session flag.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CredentialVerifier interface {
	Verify(username, password string) bool
}

type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
}

// Uploader stores a media file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
}

// AdminService runs the admin flows: login, logout, session checks and post management.
type AdminService struct {
	src      remote.DataSource
	store    *store.Store
	session  SessionStore
	verifier CredentialVerifier
	tokens   TokenIssuer
	revoker  TokenRevoker
	uploader Uploader
	timeout  time.Duration
	now      func() time.Time
}

type AdminDeps struct {
	Source   remote.DataSource
	Store    *store.Store
	Session  SessionStore
	Verifier CredentialVerifier
	Tokens   TokenIssuer
	Revoker  TokenRevoker
	// Uploader is optional; uploads report unavailable without it.
	Uploader Uploader
	Timeout  time.Duration
}

func NewAdminService(d AdminDeps) *AdminService {
	return &AdminService{
		src:      d.Source,
		store:    d.Store,
		session:  d.Session,
		verifier: d.Verifier,
		tokens:   d.Tokens,
		revoker:  d.Revoker,
		uploader: d.Uploader,
		timeout:  d.Timeout,
		now:      time.Now,
	}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreatePostInput is the admin form for a new post.
type CreatePostInput struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

func (s *AdminService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return LoginResult{}, models.NewValidationError(models.MsgFillAllFields)
	}
	if !s.verifier.Verify(username, password) {
		utils.Sugar.Warnw("admin login rejected", "username", username)
		return LoginResult{}, models.NewCredentialError()
	}

	if err := s.session.Set(ctx, SessionKey, "true", 0); err != nil {
		utils.Sugar.Errorw("save admin session failed", "error", err)
		return LoginResult{}, models.NewRemoteError(models.MsgSessionSaveFailed, err)
	}
	token, exp, err := s.tokens.Issue(username)
	if err != nil {
		_ = s.session.Delete(ctx, SessionKey)
		return LoginResult{}, fmt.Errorf("issue admin token: %w", err)
	}
	s.store.SetAdmin(true)
	return LoginResult{Token: token, ExpiresAt: exp}, nil
}

// Logout clears the session flag and revokes the presented token.
func (s *AdminService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := s.session.Delete(ctx, SessionKey); err != nil {
		utils.Sugar.Errorw("clear admin session failed", "error", err)
		return models.NewRemoteError(models.MsgSessionSaveFailed, err)
	}
	if tokenID != "" {
		if err := s.revoker.Revoke(ctx, tokenID, expiresAt); err != nil {
			utils.Sugar.Warnw("revoke admin token failed", "error", err)
		}
	}
	s.store.SetAdmin(false)
	return nil
}

// CheckSession fails with a missing session error unless the admin flag is stored.
func (s *AdminService) CheckSession(ctx context.Context) error {
	v, ok, err := s.session.Get(ctx, SessionKey)
	if err != nil {
		utils.Sugar.Errorw("read admin session failed", "error", err)
		return models.NewMissingSessionError()
	}
	if !ok || v != "true" {
		return models.NewMissingSessionError()
	}
	if !s.store.Snapshot().IsAdmin {
		s.store.SetAdmin(true)
	}
	return nil
}

// ListPosts returns every post for the admin list; the store is left alone.
func (s *AdminService) ListPosts(ctx context.Context) ([]models.Post, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	posts, err := s.src.ListPosts(ctx)
	if err != nil {
		utils.Sugar.Errorw("admin list posts failed", "error", err)
		return nil, models.NewRemoteError(models.MsgLoadPostsFailed, err)
	}
	return posts, nil
}

func (s *AdminService) CreatePost(ctx context.Context, in CreatePostInput) (models.Post, error) {
	title := utils.CleanText(in.Title)
	body := utils.CleanText(in.Content)
	if title == "" || body == "" {
		return models.Post{}, models.NewValidationError(models.MsgFillAllFields)
	}
	info, ok := models.LookupSection(in.Section)
	if !ok || !info.Postable {
		return models.Post{}, models.NewValidationError(models.MsgInvalidSection)
	}
	content, err := models.NewContent(models.ContentType(in.Type), body, strings.TrimSpace(in.FileURL))
	switch {
	case errors.Is(err, models.ErrMissingFile):
		return models.Post{}, models.NewValidationError(models.MsgFileRequired)
	case err != nil:
		return models.Post{}, models.NewValidationError(models.MsgInvalidContentType)
	}

	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	post, err := s.src.InsertPost(ctx, remote.NewPost{
		Section:   info.ID,
		Title:     title,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		utils.Sugar.Errorw("add post failed", "section", info.ID, "error", err)
		return models.Post{}, models.NewRemoteError(models.MsgAddPostFailed, err)
	}
	s.store.AddPost(post)
	return post, nil
}

func (s *AdminService) DeletePost(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.src.DeletePost(ctx, id); err != nil {
		return remoteErr(err, models.MsgDeletePostFailed, "post_id", id)
	}
	s.store.DeletePost(id)
	return nil
}

// SetLikes overwrites a post's counter with an absolute value.
func (s *AdminService) SetLikes(ctx context.Context, id string, likes int) error {
	if likes < 0 {
		return models.NewValidationError(models.MsgInvalidLikes)
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.src.SetLikes(ctx, id, likes); err != nil {
		return remoteErr(err, models.MsgUpdateLikesFailed, "post_id", id)
	}
	s.store.SetPostLikes(id, likes)
	return nil
}

// Upload stores a media file for a later image or video post.
func (s *AdminService) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	if s.uploader == nil {
		return "", models.NewUnavailableError(models.MsgUploadUnavailable)
	}
	url, err := s.uploader.Upload(ctx, name, contentType, body)
	if err != nil {
		utils.Sugar.Errorw("upload failed", "name", name, "error", err)
		return "", models.NewRemoteError(models.MsgUploadFailed, err)
	}
	return url, nil
}

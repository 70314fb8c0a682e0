package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/riqqa/health"
	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/remote"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

// sourceStub is a stub for remote.DataSource. Unset funcs fail the call.
type sourceStub struct {
	listPostsFn          func(context.Context) ([]models.Post, error)
	listPostsBySectionFn func(context.Context, models.Section) ([]models.Post, error)
	getPostFn            func(context.Context, string) (models.Post, error)
	listCommentsFn       func(context.Context, string) ([]models.Comment, error)
	setLikesFn           func(context.Context, string, int) error
	adjustLikesFn        func(context.Context, string, int) (int, error)
	insertCommentFn      func(context.Context, string, string, time.Time) (models.Comment, error)
	insertPostFn         func(context.Context, remote.NewPost) (models.Post, error)
	deletePostFn         func(context.Context, string) error
	calls                int
}

var errUnexpectedCall = errors.New("unexpected data source call")

func (s *sourceStub) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.calls++
	if s.listPostsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listPostsFn(ctx)
}
func (s *sourceStub) ListPostsBySection(ctx context.Context, sec models.Section) ([]models.Post, error) {
	s.calls++
	if s.listPostsBySectionFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listPostsBySectionFn(ctx, sec)
}
func (s *sourceStub) GetPost(ctx context.Context, id string) (models.Post, error) {
	s.calls++
	if s.getPostFn == nil {
		return models.Post{}, errUnexpectedCall
	}
	return s.getPostFn(ctx, id)
}
func (s *sourceStub) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	s.calls++
	if s.listCommentsFn == nil {
		return nil, errUnexpectedCall
	}
	return s.listCommentsFn(ctx, id)
}
func (s *sourceStub) SetLikes(ctx context.Context, id string, n int) error {
	s.calls++
	if s.setLikesFn == nil {
		return errUnexpectedCall
	}
	return s.setLikesFn(ctx, id, n)
}
func (s *sourceStub) AdjustLikes(ctx context.Context, id string, d int) (int, error) {
	s.calls++
	if s.adjustLikesFn == nil {
		return 0, errUnexpectedCall
	}
	return s.adjustLikesFn(ctx, id, d)
}
func (s *sourceStub) InsertComment(ctx context.Context, id, text string, at time.Time) (models.Comment, error) {
	s.calls++
	if s.insertCommentFn == nil {
		return models.Comment{}, errUnexpectedCall
	}
	return s.insertCommentFn(ctx, id, text, at)
}
func (s *sourceStub) InsertPost(ctx context.Context, in remote.NewPost) (models.Post, error) {
	s.calls++
	if s.insertPostFn == nil {
		return models.Post{}, errUnexpectedCall
	}
	return s.insertPostFn(ctx, in)
}
func (s *sourceStub) DeletePost(ctx context.Context, id string) error {
	s.calls++
	if s.deletePostFn == nil {
		return errUnexpectedCall
	}
	return s.deletePostFn(ctx, id)
}

type verifierStub struct{ ok bool }

func (v verifierStub) Verify(string, string) bool { return v.ok }

type revokerStub struct{ revoked []string }

func (r *revokerStub) Revoke(_ context.Context, id string, _ time.Time) error {
	r.revoked = append(r.revoked, id)
	return nil
}

type uploaderStub struct {
	uploadFn func(context.Context, string, string, io.Reader) (string, error)
}

func (u uploaderStub) Upload(ctx context.Context, name, ct string, body io.Reader) (string, error) {
	return u.uploadFn(ctx, name, ct, body)
}

func samplePost(id string, likes int) models.Post {
	return models.Post{
		ID:        id,
		Section:   models.SectionFeelings,
		Title:     "title",
		Content:   models.TextContent{Text: "body"},
		Likes:     likes,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, models.KindOf(err))
}

// ==================== POSTS ====================

func TestPostService_LoadFeed(t *testing.T) {
	st := store.New()
	src := &sourceStub{listPostsFn: func(context.Context) ([]models.Post, error) {
		return []models.Post{samplePost("a", 1), samplePost("b", 0)}, nil
	}}
	var loading []bool
	st.Subscribe(func(s models.AppState) { loading = append(loading, s.IsLoading) })

	posts, err := NewPostService(src, st, time.Second).LoadFeed(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Len(t, st.Snapshot().Posts, 2)
	assert.Equal(t, []bool{true, true, false}, loading)
}

func TestPostService_LoadFeedFailureLeavesStore(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("kept", 0)})
	src := &sourceStub{listPostsFn: func(context.Context) ([]models.Post, error) {
		return nil, errors.New("network down")
	}}

	_, err := NewPostService(src, st, time.Second).LoadFeed(context.Background())
	assertKind(t, err, models.KindRemote)

	snap := st.Snapshot()
	require.Len(t, snap.Posts, 1)
	assert.Equal(t, "kept", snap.Posts[0].ID)
	assert.False(t, snap.IsLoading)
}

func TestPostService_LoadSection(t *testing.T) {
	st := store.New()
	src := &sourceStub{listPostsBySectionFn: func(_ context.Context, sec models.Section) ([]models.Post, error) {
		assert.Equal(t, models.SectionPoems, sec)
		return []models.Post{samplePost("p", 0)}, nil
	}}
	svc := NewPostService(src, st, time.Second)

	res, err := svc.LoadSection(context.Background(), "poems")
	require.NoError(t, err)
	assert.Equal(t, "Poems", res.Section.Title)
	assert.Len(t, res.Posts, 1)
	assert.Empty(t, st.Snapshot().Posts)

	_, err = svc.LoadSection(context.Background(), "cooking")
	assertKind(t, err, models.KindValidation)
	assert.Equal(t, 1, src.calls)
}

func TestPostService_LoadPost(t *testing.T) {
	src := &sourceStub{
		getPostFn: func(_ context.Context, id string) (models.Post, error) {
			if id == "missing" {
				return models.Post{}, remote.ErrNotFound
			}
			return samplePost(id, 2), nil
		},
		listCommentsFn: func(context.Context, string) ([]models.Comment, error) {
			return []models.Comment{{ID: "c2"}, {ID: "c1"}}, nil
		},
	}
	svc := NewPostService(src, store.New(), time.Second)

	detail, err := svc.LoadPost(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a", detail.Post.ID)
	assert.Equal(t, 2, detail.CommentCount)

	_, err = svc.LoadPost(context.Background(), "missing")
	assertKind(t, err, models.KindNotFound)
}

func TestPostService_LoadPostTogglesLoading(t *testing.T) {
	st := store.New()
	src := &sourceStub{
		getPostFn: func(_ context.Context, id string) (models.Post, error) {
			if id == "missing" {
				return models.Post{}, remote.ErrNotFound
			}
			assert.True(t, st.Snapshot().IsLoading)
			return samplePost(id, 0), nil
		},
		listCommentsFn: func(context.Context, string) ([]models.Comment, error) {
			return nil, nil
		},
	}
	var loading []bool
	st.Subscribe(func(s models.AppState) { loading = append(loading, s.IsLoading) })
	svc := NewPostService(src, st, time.Second)

	_, err := svc.LoadPost(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, loading)

	_, err = svc.LoadPost(context.Background(), "missing")
	assertKind(t, err, models.KindNotFound)
	assert.Equal(t, []bool{true, false, true, false}, loading)
	assert.False(t, st.Snapshot().IsLoading)
}

func TestPostService_LikeMatchingRemoteNotifiesOnce(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 3)})
	src := &sourceStub{adjustLikesFn: func(context.Context, string, int) (int, error) {
		return 4, nil
	}}
	var seen []int
	st.Subscribe(func(s models.AppState) { seen = append(seen, s.Posts[0].Likes) })
	before := st.Snapshot().Version

	likes, err := NewPostService(src, st, time.Second).Like(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 4, likes)
	assert.Equal(t, []int{4}, seen)
	assert.Equal(t, before+1, st.Snapshot().Version)
}

func TestPostService_LikeReconcilesWithRemote(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 3)})
	src := &sourceStub{adjustLikesFn: func(_ context.Context, id string, d int) (int, error) {
		assert.Equal(t, 1, d)
		return 10, nil
	}}

	likes, err := NewPostService(src, st, time.Second).Like(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 10, likes)
	assert.Equal(t, 10, st.Snapshot().Posts[0].Likes)
}

func TestPostService_LikeFailureLeavesStore(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 3)})
	src := &sourceStub{adjustLikesFn: func(context.Context, string, int) (int, error) {
		return 0, errors.New("timeout")
	}}

	_, err := NewPostService(src, st, time.Second).Like(context.Background(), "a")
	assertKind(t, err, models.KindRemote)
	assert.Equal(t, 3, st.Snapshot().Posts[0].Likes)
}

func TestPostService_Unlike(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 1)})
	src := &sourceStub{adjustLikesFn: func(_ context.Context, _ string, d int) (int, error) {
		assert.Equal(t, -1, d)
		return 0, nil
	}}

	likes, err := NewPostService(src, st, time.Second).Unlike(context.Background(), "a")
	require.NoError(t, err)
	assert.Zero(t, likes)
	assert.Zero(t, st.Snapshot().Posts[0].Likes)
}

func TestPostService_AddComment(t *testing.T) {
	st := store.New()
	src := &sourceStub{insertCommentFn: func(_ context.Context, postID, text string, at time.Time) (models.Comment, error) {
		return models.Comment{ID: "c1", PostID: postID, Text: text, CreatedAt: at}, nil
	}}
	svc := NewPostService(src, st, time.Second)

	c, err := svc.AddComment(context.Background(), "a", "  <i>nice</i>  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Text)
	require.Len(t, st.Snapshot().Comments, 1)

	_, err = svc.AddComment(context.Background(), "a", "   ")
	assertKind(t, err, models.KindValidation)
	assert.Equal(t, 1, src.calls)
}

func TestPostService_AddCommentRemoteFailure(t *testing.T) {
	st := store.New()
	src := &sourceStub{insertCommentFn: func(context.Context, string, string, time.Time) (models.Comment, error) {
		return models.Comment{}, errors.New("insert failed")
	}}

	_, err := NewPostService(src, st, time.Second).AddComment(context.Background(), "a", "hi")
	assertKind(t, err, models.KindRemote)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "حدث خطأ أثناء إضافة التعليق", appErr.Localized(models.LocaleArabic))
	assert.Empty(t, st.Snapshot().Comments)
}

func TestPostService_AppliesTimeout(t *testing.T) {
	src := &sourceStub{listPostsFn: func(ctx context.Context) ([]models.Post, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	_, err := NewPostService(src, store.New(), 10*time.Millisecond).LoadFeed(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ==================== ADMIN ====================

func newAdmin(src remote.DataSource, st *store.Store, ok bool) (*AdminService, *utils.KVStore, *revokerStub) {
	kv := utils.NewKVStore(nil, "")
	rev := &revokerStub{}
	svc := NewAdminService(AdminDeps{
		Source:   src,
		Store:    st,
		Session:  kv,
		Verifier: verifierStub{ok: ok},
		Tokens:   utils.NewTokenService("secret", time.Hour),
		Revoker:  rev,
		Timeout:  time.Second,
	})
	return svc, kv, rev
}

func TestAdminService_Login(t *testing.T) {
	st := store.New()
	svc, kv, _ := newAdmin(&sourceStub{}, st, true)
	ctx := context.Background()

	res, err := svc.Login(ctx, "editor", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.True(t, st.Snapshot().IsAdmin)

	v, ok, err := kv.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.NoError(t, svc.CheckSession(ctx))
}

func TestAdminService_LoginRejected(t *testing.T) {
	st := store.New()
	svc, kv, _ := newAdmin(&sourceStub{}, st, false)
	ctx := context.Background()

	_, err := svc.Login(ctx, "editor", "wrong")
	assertKind(t, err, models.KindCredential)
	assert.False(t, st.Snapshot().IsAdmin)
	ok, _ := kv.Exists(ctx, SessionKey)
	assert.False(t, ok)

	_, err = svc.Login(ctx, " ", "")
	assertKind(t, err, models.KindValidation)
}

func TestAdminService_LogoutClearsSession(t *testing.T) {
	st := store.New()
	svc, _, rev := newAdmin(&sourceStub{}, st, true)
	ctx := context.Background()

	_, err := svc.Login(ctx, "editor", "pw")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))

	assert.False(t, st.Snapshot().IsAdmin)
	assert.Equal(t, []string{"jti-1"}, rev.revoked)
	assertKind(t, svc.CheckSession(ctx), models.KindMissingSession)
}

func TestAdminService_CreatePostValidation(t *testing.T) {
	src := &sourceStub{}
	svc, _, _ := newAdmin(src, store.New(), true)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreatePostInput
		key  models.MessageKey
	}{
		{"empty title", CreatePostInput{Section: "poems", Type: "poem", Content: "x"}, models.MsgFillAllFields},
		{"blank content", CreatePostInput{Section: "poems", Type: "poem", Title: "t", Content: "  "}, models.MsgFillAllFields},
		{"unknown section", CreatePostInput{Section: "cooking", Type: "text", Title: "t", Content: "c"}, models.MsgInvalidSection},
		{"non content section", CreatePostInput{Section: "health", Type: "text", Title: "t", Content: "c"}, models.MsgInvalidSection},
		{"image without file", CreatePostInput{Section: "images", Type: "image", Title: "t", Content: "c"}, models.MsgFileRequired},
		{"unknown type", CreatePostInput{Section: "poems", Type: "audio", Title: "t", Content: "c"}, models.MsgInvalidContentType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tc.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.KindValidation, appErr.Kind)
			assert.Equal(t, tc.key, appErr.Key)
		})
	}
	assert.Zero(t, src.calls)
}

func TestAdminService_CreatePost(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("old", 0)})
	src := &sourceStub{insertPostFn: func(_ context.Context, in remote.NewPost) (models.Post, error) {
		return models.Post{ID: "new", Section: in.Section, Title: in.Title, Content: in.Content, CreatedAt: in.CreatedAt}, nil
	}}
	svc, _, _ := newAdmin(src, st, true)

	p, err := svc.CreatePost(context.Background(), CreatePostInput{
		Section: "videos",
		Title:   "Clip",
		Type:    "video",
		Content: "watch",
		FileURL: "https://cdn.example/v.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VideoContent{Text: "watch", FileURL: "https://cdn.example/v.mp4"}, p.Content)

	snap := st.Snapshot()
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "new", snap.Posts[1].ID)
	assert.False(t, snap.IsLoading)
}

func TestAdminService_CreatePostRemoteFailure(t *testing.T) {
	st := store.New()
	src := &sourceStub{insertPostFn: func(context.Context, remote.NewPost) (models.Post, error) {
		return models.Post{}, errors.New("rejected")
	}}
	svc, _, _ := newAdmin(src, st, true)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{Section: "fiqh", Type: "text", Title: "t", Content: "c"})
	assertKind(t, err, models.KindRemote)
	assert.Empty(t, st.Snapshot().Posts)
	assert.False(t, st.Snapshot().IsLoading)
}

func TestAdminService_DeletePost(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 0), samplePost("b", 0)})
	src := &sourceStub{deletePostFn: func(_ context.Context, id string) error {
		if id == "gone" {
			return remote.ErrNotFound
		}
		return nil
	}}
	svc, _, _ := newAdmin(src, st, true)

	require.NoError(t, svc.DeletePost(context.Background(), "a"))
	require.Len(t, st.Snapshot().Posts, 1)

	assertKind(t, svc.DeletePost(context.Background(), "gone"), models.KindNotFound)
}

func TestAdminService_SetLikes(t *testing.T) {
	st := store.New()
	st.SetPosts([]models.Post{samplePost("a", 0)})
	src := &sourceStub{setLikesFn: func(context.Context, string, int) error { return nil }}
	svc, _, _ := newAdmin(src, st, true)

	require.NoError(t, svc.SetLikes(context.Background(), "a", 12))
	assert.Equal(t, 12, st.Snapshot().Posts[0].Likes)

	assertKind(t, svc.SetLikes(context.Background(), "a", -1), models.KindValidation)
}

func TestAdminService_Upload(t *testing.T) {
	svc, _, _ := newAdmin(&sourceStub{}, store.New(), true)
	_, err := svc.Upload(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("x"))
	assertKind(t, err, models.KindUnavailable)

	svc.uploader = uploaderStub{uploadFn: func(_ context.Context, name, _ string, body io.Reader) (string, error) {
		b, _ := io.ReadAll(body)
		assert.Equal(t, "x", string(b))
		return "https://cdn.example/" + name, nil
	}}
	url, err := svc.Upload(context.Background(), "a.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a.jpg", url)
}

// ==================== HEALTH ====================

func TestHealthService(t *testing.T) {
	st := store.New()
	svc := NewHealthService(st)
	now := time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.SavePeriod("2025-01-01", "abc"))
	sum := svc.Summary(models.LocaleEnglish)
	assert.Equal(t, "2025-01-29", sum.NextPeriodDate)
	assert.Equal(t, models.DefaultCycleLength, sum.Data.CycleLength)

	assertKind(t, svc.SavePeriod("01/01/2025", "28"), models.KindValidation)
	assertKind(t, svc.SavePregnancy(""), models.KindValidation)

	require.NoError(t, svc.SavePregnancy("2024-11-11"))
	assert.Equal(t, 10, svc.Summary(models.LocaleEnglish).PregnancyWeeks)

	assert.Equal(t, health.NotRecorded, svc.Summary(models.LocaleEnglish).SinceLastFeed)
	svc.RecordFeeding()
	now = now.Add(90 * time.Minute)
	sum = svc.Summary(models.LocaleEnglish)
	assert.Equal(t, "1 hours and 30 minutes", sum.SinceLastFeed)
	assert.Equal(t, 1, sum.Data.FeedingCount)
}

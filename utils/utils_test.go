package utils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/riqqa/config"
)

func redisConfig(t *testing.T, mr *miniredis.Miniredis) config.AppConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.AppConfig{RedisHost: mr.Host(), RedisPort: port}
}

func TestKVStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(redisConfig(t, mr))
	require.NotNil(t, rc)
	defer rc.Close()

	kv := NewKVStore(rc, "session:")
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "admin_logged_in")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "admin_logged_in", "true", 0))
	v, ok, err := kv.Get(ctx, "admin_logged_in")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.True(t, mr.Exists("session:admin_logged_in"))
	assert.Equal(t, time.Duration(0), mr.TTL("session:admin_logged_in"))

	require.NoError(t, kv.Delete(ctx, "admin_logged_in"))
	exists, err := kv.Exists(ctx, "admin_logged_in")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKVStore_RedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(redisConfig(t, mr))
	require.NotNil(t, rc)
	defer rc.Close()

	kv := NewKVStore(rc, "jwt:blacklist:")
	require.NoError(t, kv.Set(context.Background(), "abc", "1", time.Minute))

	mr.FastForward(2 * time.Minute)
	exists, err := kv.Exists(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKVStore_MemoryFallback(t *testing.T) {
	kv := NewKVStore(nil, "")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "persistent", "true", 0))
	require.NoError(t, kv.Set(ctx, "short", "1", time.Second))

	now = now.Add(time.Hour)
	ok, _ := kv.Exists(ctx, "persistent")
	assert.True(t, ok)
	ok, _ = kv.Exists(ctx, "short")
	assert.False(t, ok)

	require.NoError(t, kv.Delete(ctx, "persistent"))
	ok, _ = kv.Exists(ctx, "persistent")
	assert.False(t, ok)
}

func TestNewRedisUnreachableReturnsNil(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr)
	mr.Close()

	assert.Nil(t, NewRedis(cfg))
}

func TestTokenBlacklist(t *testing.T) {
	bl := NewTokenBlacklist(NewKVStore(nil, ""))
	ctx := context.Background()

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, bl.Revoke(ctx, "jti-old", time.Now().Add(-time.Hour)))

	assert.True(t, bl.IsRevoked(ctx, "jti-1"))
	assert.False(t, bl.IsRevoked(ctx, "jti-old"))
	assert.False(t, bl.IsRevoked(ctx, "jti-2"))
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, exp, err := svc.Issue("editor")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenService("secret", time.Hour)
	token, _, err := issuer.Issue("editor")
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Parse(token)
	assert.Error(t, err)

	later := NewTokenService("secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(token)
	assert.Error(t, err)

	_, err = issuer.Parse("not-a-token")
	assert.Error(t, err)
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	v := BcryptVerifier{Username: "editor", PasswordHash: string(hash)}

	assert.True(t, v.Verify("editor", "s3cret"))
	assert.False(t, v.Verify("editor", "wrong"))
	assert.False(t, v.Verify("someone", "s3cret"))
	assert.False(t, BcryptVerifier{}.Verify("", ""))
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, BcryptVerifier{Username: "a", PasswordHash: hash}.Verify("a", "s3cret"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello", CleanText("  <b>hello</b> "))
	assert.Equal(t, "", CleanText("<script>alert(1)</script>"))
	assert.Equal(t, "قصيدة &amp; نثر", CleanText("قصيدة & نثر"))
}

func TestCleanTextStripsEncodedMarkup(t *testing.T) {
	assert.Equal(t, "", CleanText("&lt;script&gt;alert(1)&lt;/script&gt;"))
	assert.Equal(t, "hi", CleanText("&lt;b&gt;hi&lt;/b&gt;"))
	assert.NotContains(t, CleanText("&amp;lt;script&amp;gt;x"), "<")
}

func TestDirOf(t *testing.T) {
	assert.Equal(t, "logs", dirOf("logs/app.log"))
	assert.Equal(t, "/", dirOf("/app.log"))
	assert.Equal(t, "", dirOf("app.log"))
}

package social_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/cache"
	"github.com/dkurbatov/datingapp-backend/internal/config"
	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
	"github.com/dkurbatov/datingapp-backend/internal/service/social"
)

type fixture struct {
	svc   *social.Service
	db    *gorm.DB
	redis *miniredis.Miniredis
	cache *cache.RedisCache
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(dbase))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	redisCache := cache.NewRedisCache(cfg)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(dbase, redisCache, logger)

	return &fixture{
		svc:   social.NewService(appCtx),
		db:    dbase,
		redis: mr,
		cache: redisCache,
	}
}

func (f *fixture) mustUser(t *testing.T, telegramID int64, username string) *db.User {
	t.Helper()
	user := &db.User{TelegramID: telegramID, Username: username, Active: true}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func TestPutLike_SelfLikeRejected(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")

	_, err := f.svc.PutLike(ctx, alice.TelegramID, alice.ID, db.LikeTypeLike)
	var apiErr *svcErr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
}

func TestPutLike_UnknownTargetIs404(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")

	_, err := f.svc.PutLike(ctx, alice.TelegramID, alice.ID+999, db.LikeTypeLike)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPutLike_MutualDerivesMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")
	bob := f.mustUser(t, 1002, "bob")

	out, err := f.svc.PutLike(ctx, alice.TelegramID, bob.ID, db.LikeTypeLike)
	require.NoError(t, err)
	assert.Nil(t, out.Match, "one-way like must not match")

	out, err = f.svc.PutLike(ctx, bob.TelegramID, alice.ID, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, out.Match)
	assert.True(t, out.Match.Active)
	assert.Less(t, out.Match.User1ID, out.Match.User2ID)
}

func TestRetractLike_DeactivatesMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")
	bob := f.mustUser(t, 1002, "bob")

	_, err := f.svc.PutLike(ctx, alice.TelegramID, bob.ID, db.LikeTypeLike)
	require.NoError(t, err)
	out, err := f.svc.PutLike(ctx, bob.TelegramID, alice.ID, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, out.Match)

	require.NoError(t, f.svc.RetractLike(ctx, alice.TelegramID, bob.ID))

	matches, _, err := f.svc.Matches(ctx, alice.TelegramID, nil, 20)
	require.NoError(t, err)
	assert.Empty(t, matches)

	// retracting a like that no longer exists
	err = f.svc.RetractLike(ctx, alice.TelegramID, bob.ID)
	var apiErr *svcErr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestLikesReceivedCount_CacheFirst(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")

	// A pre-seeded cache value is served without touching the DB, which
	// holds zero likes here.
	f.redis.Set(f.cache.KeyForLikesReceived(alice.ID), "7")

	count, err := f.svc.LikesReceivedCount(ctx, alice.TelegramID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestLikesReceivedCount_MissRepopulates(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")
	bob := f.mustUser(t, 1002, "bob")
	carol := f.mustUser(t, 1003, "carol")

	_, err := f.svc.PutLike(ctx, bob.TelegramID, alice.ID, db.LikeTypeLike)
	require.NoError(t, err)
	_, err = f.svc.PutLike(ctx, carol.TelegramID, alice.ID, db.LikeTypeLike)
	require.NoError(t, err)

	count, err := f.svc.LikesReceivedCount(ctx, alice.TelegramID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// the miss repopulated the counter
	cached, err := f.redis.Get(f.cache.KeyForLikesReceived(alice.ID))
	require.NoError(t, err)
	assert.Equal(t, "2", cached)
}

func TestPutLike_InvalidatesRecipientCounter(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")
	bob := f.mustUser(t, 1002, "bob")

	f.redis.Set(f.cache.KeyForLikesReceived(alice.ID), "99")

	_, err := f.svc.PutLike(ctx, bob.TelegramID, alice.ID, db.LikeTypeLike)
	require.NoError(t, err)

	assert.False(t, f.redis.Exists(f.cache.KeyForLikesReceived(alice.ID)),
		"like write must drop the stale counter")

	count, err := f.svc.LikesReceivedCount(ctx, alice.TelegramID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPutLike_BadLikeType(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	alice := f.mustUser(t, 1001, "alice")
	bob := f.mustUser(t, 1002, "bob")

	_, err := f.svc.PutLike(ctx, alice.TelegramID, bob.ID, "superlike")
	var apiErr *svcErr.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.Status)
}

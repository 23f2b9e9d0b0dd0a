package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkurbatov/datingapp-backend/internal/db"
	"github.com/dkurbatov/datingapp-backend/internal/repository"
)

func TestPutLike_OneWayDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(setupTestDB(t))

	like, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	assert.Nil(t, match)
	assert.Nil(t, like.MatchID)
	assert.True(t, like.Active)
}

func TestPutLike_MutualCreatesOneMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)

	like, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, match)

	// pair is normalized
	assert.Equal(t, uint64(1), match.User1ID)
	assert.Equal(t, uint64(2), match.User2ID)
	assert.True(t, match.Active)

	// both likes are linked to the match
	require.NotNil(t, like.MatchID)
	var linked int64
	dbase.Model(&db.Like{}).Where("match_id = ?", match.ID).Count(&linked)
	assert.Equal(t, int64(2), linked)
}

func TestPutLike_RepeatLikeDoesNotDuplicateMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	_, first, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, second, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var likes, matches int64
	dbase.Model(&db.Like{}).Count(&likes)
	dbase.Model(&db.Match{}).Count(&matches)
	assert.Equal(t, int64(2), likes, "one row per direction")
	assert.Equal(t, int64(1), matches, "one match per unordered pair")
}

func TestPutLike_DislikeNeverMatches(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)

	_, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeDislike)
	require.NoError(t, err)
	assert.Nil(t, match)

	var matches int64
	dbase.Model(&db.Match{}).Count(&matches)
	assert.Zero(t, matches)
}

func TestPutLike_DislikeOverwriteThenLikeBack(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(setupTestDB(t))

	// user 1 dislikes 2, changes their mind, then 2 likes back
	_, _, err := repo.PutLike(ctx, 1, 2, db.LikeTypeDislike)
	require.NoError(t, err)
	_, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	assert.Nil(t, match)

	_, match, err = repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	assert.NotNil(t, match)
}

func TestPutLike_DislikeOverwriteBreaksMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	like, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, match)
	require.NotNil(t, like.MatchID)

	// user 1 flips the matched like into a dislike
	like, noMatch, err := repo.PutLike(ctx, 1, 2, db.LikeTypeDislike)
	require.NoError(t, err)
	assert.Nil(t, noMatch)
	assert.Equal(t, db.LikeTypeDislike, like.LikeType)

	var stored db.Match
	require.NoError(t, dbase.First(&stored, match.ID).Error)
	assert.False(t, stored.Active, "a dislike overwriting a matched like must break the match")

	// changing their mind reactivates the same canonical match row
	_, again, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, match.ID, again.ID)
	assert.True(t, again.Active)
}

func TestRetractLike_DeactivatesLikeAndMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	_, match, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, match)

	found, err := repo.RetractLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, found)

	var like db.Like
	require.NoError(t, dbase.Where("liker_id = ? AND liked_id = ?", 1, 2).First(&like).Error)
	assert.False(t, like.Active)

	var stored db.Match
	require.NoError(t, dbase.First(&stored, match.ID).Error)
	assert.False(t, stored.Active, "retracting a matched like deactivates the match")

	// retracting again is a no-op
	found, err = repo.RetractLike(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPutLike_ReactivatesRetractedMatch(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	_, first, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = repo.RetractLike(ctx, 1, 2)
	require.NoError(t, err)

	_, again, err := repo.PutLike(ctx, 1, 2, db.LikeTypeLike)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID, "the pair's canonical match row is reused")
	assert.True(t, again.Active)
}

func TestListActiveMatches_Pagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewLikeRepository(dbase)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 1; i <= 3; i++ {
		require.NoError(t, dbase.Create(&db.Match{
			User1ID:   1,
			User2ID:   uint64(i + 1),
			Active:    true,
			MatchedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	page1, token, err := repo.ListActiveMatches(ctx, 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, token)
	assert.Equal(t, uint64(4), page1[0].User2ID, "newest first")

	page2, token2, err := repo.ListActiveMatches(ctx, 1, token, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Nil(t, token2)
	assert.Equal(t, uint64(2), page2[0].User2ID)
}

func TestCountActiveLikesReceived(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewLikeRepository(setupTestDB(t))

	_, _, err := repo.PutLike(ctx, 2, 1, db.LikeTypeLike)
	require.NoError(t, err)
	_, _, err = repo.PutLike(ctx, 3, 1, db.LikeTypeLike)
	require.NoError(t, err)
	_, _, err = repo.PutLike(ctx, 4, 1, db.LikeTypeDislike)
	require.NoError(t, err)
	_, err = repo.RetractLike(ctx, 3, 1)
	require.NoError(t, err)

	count, err := repo.CountActiveLikesReceived(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

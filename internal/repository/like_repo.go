package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/db"
	"github.com/dkurbatov/datingapp-backend/internal/utils/pagination"
)

// LikeRepository provides data access for likes and the matches derived from
// them. All multi-row writes run in a single transaction so a request aborted
// mid-way leaves nothing half-linked.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// PutLike records liker -> liked with the given type and derives a match when
// the opposite-direction active LIKE exists.
//
// Behavior:
//   - One row per direction: an existing edge is overwritten (type refreshed,
//     reactivated) instead of stacking rows.
//   - On a LIKE with an active reciprocal LIKE, the unordered pair's match is
//     created (or an inactive one reactivated) and both likes are linked to it.
//   - DISLIKE never produces a match, and overwriting a matched LIKE with a
//     DISLIKE deactivates the pair's match.
//
// Returns the stored like and the match, nil when the like is one-way.
func (r *LikeRepository) PutLike(ctx context.Context, likerID, likedID uint64, likeType string) (*db.Like, *db.Match, error) {
	var (
		like  db.Like
		match *db.Match
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Like
		err := tx.Where("liker_id = ? AND liked_id = ?", likerID, likedID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"like_type": likeType,
				"is_active": true,
			}).Error; err != nil {
				return err
			}
			// A dislike overwriting a matched like breaks the match, same
			// as a retraction would. The canonical match row stays linked
			// for reactivation.
			if likeType == db.LikeTypeDislike && existing.MatchID != nil {
				if err := tx.Model(&db.Match{}).
					Where("id = ? AND is_active = ?", *existing.MatchID, true).
					Update("is_active", false).Error; err != nil {
					return err
				}
			}
			existing.LikeType = likeType
			existing.Active = true
			like = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			like = db.Like{LikerID: likerID, LikedID: likedID, LikeType: likeType, Active: true}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if likeType != db.LikeTypeLike {
			return nil
		}

		var reciprocal db.Like
		err = tx.Where(
			"liker_id = ? AND liked_id = ? AND like_type = ? AND is_active = ?",
			likedID, likerID, db.LikeTypeLike, true,
		).First(&reciprocal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		m, err := ensureMatch(tx, likerID, likedID)
		if err != nil {
			return err
		}

		if err := tx.Model(&db.Like{}).
			Where("id IN ?", []uint64{like.ID, reciprocal.ID}).
			Update("match_id", m.ID).Error; err != nil {
			return err
		}
		like.MatchID = &m.ID
		match = m
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &like, match, nil
}

// RetractLike deactivates the liker -> liked edge without deleting it.
// A retraction that breaks an active match deactivates the match too.
// Returns false when no active edge exists.
func (r *LikeRepository) RetractLike(ctx context.Context, likerID, likedID uint64) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var like db.Like
		err := tx.Where(
			"liker_id = ? AND liked_id = ? AND is_active = ?",
			likerID, likedID, true,
		).First(&like).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		if err := tx.Model(&like).Update("is_active", false).Error; err != nil {
			return err
		}
		if like.MatchID != nil {
			if err := tx.Model(&db.Match{}).
				Where("id = ? AND is_active = ?", *like.MatchID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListActiveMatches returns the user's active matches, newest first, with
// cursor-based pagination.
//
// Example:
//
//	repo.ListActiveMatches(ctx, 42, nil, 20) // first 20 matches of user 42
func (r *LikeRepository) ListActiveMatches(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	var matches []db.Match

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?) AND is_active = ?", userID, userID, true).
		Order("matched_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.MatchID > 0 && cursor.MatchedUnix > 0 {
		ts := time.UnixMilli(cursor.MatchedUnix)
		query = query.Where(
			"(matched_at < ? OR (matched_at = ? AND id < ?))",
			ts, ts, cursor.MatchID,
		)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			MatchID:     last.ID,
			MatchedUnix: last.MatchedAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}

	return matches, nextToken, nil
}

// CountActiveLikesReceived counts active LIKEs pointing at the user.
// Used in conjunction with the Redis counter (DB is fallback).
func (r *LikeRepository) CountActiveLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.Like{}).
		Where("liked_id = ? AND like_type = ? AND is_active = ?", userID, db.LikeTypeLike, true).
		Count(&count).Error
	return count, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ensureMatch returns the pair's canonical match row, creating or
// reactivating it as needed. User1ID < User2ID always so the unordered pair
// maps to one row.
func ensureMatch(tx *gorm.DB, a, b uint64) (*db.Match, error) {
	u1, u2 := a, b
	if u1 > u2 {
		u1, u2 = u2, u1
	}

	var match db.Match
	err := tx.Where("user1_id = ? AND user2_id = ?", u1, u2).
		Order("id DESC").
		First(&match).Error
	switch {
	case err == nil:
		if !match.Active {
			if err := tx.Model(&match).Updates(map[string]interface{}{
				"is_active":  true,
				"matched_at": tx.NowFunc(),
			}).Error; err != nil {
				return nil, err
			}
			match.Active = true
		}
		return &match, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		match = db.Match{User1ID: u1, User2ID: u2, Active: true, MatchedAt: tx.NowFunc()}
		if err := tx.Create(&match).Error; err != nil {
			return nil, err
		}
		return &match, nil
	default:
		return nil, err
	}
}

package social

import (
	"context"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
	"github.com/dkurbatov/datingapp-backend/internal/repository"
)

// LikeOutcome is the result of recording a like: the stored edge and, when
// the like completed a mutual pair, the match.
type LikeOutcome struct {
	Like  *db.Like
	Match *db.Match
}

// Service implements likes, logical retraction, match listing, and the
// cached likes-received counter.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	likeRepo *repository.LikeRepository
}

// NewService creates the social service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		likeRepo: repository.NewLikeRepository(appCtx.DB),
	}
}

// PutLike records the caller's like or dislike of another user.
//
// Invariants enforced here:
//   - the caller cannot like themselves
//   - like_type is one of {like, dislike}
//
// The mutual-match derivation itself happens in the repository transaction.
func (s *Service) PutLike(ctx context.Context, telegramID int64, likedUserID uint64, likeType string) (*LikeOutcome, error) {
	if likeType != db.LikeTypeLike && likeType != db.LikeTypeDislike {
		return nil, svcErr.InvalidArgument("like_type must be \"like\" or \"dislike\"")
	}

	liker, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if liker.ID == likedUserID {
		return nil, svcErr.InvalidArgument("cannot like yourself")
	}

	var liked db.User
	if err := s.appCtx.DB.WithContext(ctx).First(&liked, likedUserID).Error; err != nil {
		return nil, err
	}

	like, match, err := s.likeRepo.PutLike(ctx, liker.ID, likedUserID, likeType)
	if err != nil {
		return nil, err
	}

	// The recipient's likes-received counter changed; drop it so the next
	// read recomputes from the DB.
	if err := s.appCtx.RedisCache.InvalidateLikesReceived(ctx, likedUserID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate like counter", "user_id", likedUserID, "err", err)
	}

	if match != nil {
		s.appCtx.Logger.Info("mutual like, match derived",
			"match_id", match.ID, "user1_id", match.User1ID, "user2_id", match.User2ID)
	}
	return &LikeOutcome{Like: like, Match: match}, nil
}

// RetractLike logically deactivates the caller's like of another user.
func (s *Service) RetractLike(ctx context.Context, telegramID int64, likedUserID uint64) error {
	liker, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return err
	}

	found, err := s.likeRepo.RetractLike(ctx, liker.ID, likedUserID)
	if err != nil {
		return err
	}
	if !found {
		return svcErr.NotFound("Like not found")
	}

	if err := s.appCtx.RedisCache.InvalidateLikesReceived(ctx, likedUserID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate like counter", "user_id", likedUserID, "err", err)
	}
	return nil
}

// Matches lists the caller's active matches with cursor pagination.
func (s *Service) Matches(ctx context.Context, telegramID int64, paginationToken *string, limit int) ([]db.Match, *string, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, nil, err
	}
	return s.likeRepo.ListActiveMatches(ctx, user.ID, paginationToken, limit)
}

// LikesReceivedCount returns how many active likes point at the caller.
// Cache-first strategy:
//  1. Attempt the Redis counter.
//  2. On miss, count in the DB and repopulate the cache with a fresh TTL.
func (s *Service) LikesReceivedCount(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return 0, err
	}

	if count, hit, err := s.appCtx.RedisCache.GetLikesReceived(ctx, user.ID); err == nil && hit {
		return count, nil
	}

	count, err := s.likeRepo.CountActiveLikesReceived(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetLikesReceived(ctx, user.ID, count); err != nil {
		s.appCtx.Logger.Warn("failed to cache like counter", "user_id", user.ID, "err", err)
	}
	return count, nil
}

func (s *Service) resolveUser(ctx context.Context, telegramID int64) (*db.User, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, svcErr.NotFound("User not found")
	}
	return user, nil
}

package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
	"github.com/dkurbatov/datingapp-backend/internal/repository"
)

// Claim is the set of attributes Telegram presents for a user. TelegramID is
// the only required field; the rest are display attributes overwritten on
// every authentication.
type Claim struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
	Premium      bool
}

// Result is the outcome of resolving a claim.
type Result struct {
	User      *db.User
	IsNewUser bool
}

// Service implements the Telegram authentication flow: resolve-or-create a
// local user record for an inbound identity claim.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
}

// NewService creates the auth service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// Authenticate resolves the claim to exactly one user record.
//
// Flow:
//  1. Look up by telegram_id.
//  2. Hit: overwrite mutable attributes, IsNewUser=false.
//  3. Miss: insert, IsNewUser=true.
//  4. Insert lost a concurrent first-auth race (duplicate key): re-run the
//     lookup and treat as an update. No duplicate row can result.
//
// Repeated calls with the same telegram_id therefore always converge on a
// single record.
func (s *Service) Authenticate(ctx context.Context, claim Claim) (*Result, error) {
	if claim.TelegramID <= 0 {
		return nil, svcErr.InvalidArgument("telegram_id must be a positive integer")
	}
	if claim.LanguageCode == "" {
		claim.LanguageCode = "en"
	}

	user, err := s.userRepo.FindByTelegramID(ctx, claim.TelegramID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return s.refresh(ctx, user, claim)
	}

	fresh := &db.User{
		TelegramID:   claim.TelegramID,
		Username:     claim.Username,
		FirstName:    claim.FirstName,
		LastName:     claim.LastName,
		LanguageCode: claim.LanguageCode,
		Premium:      claim.Premium,
		Active:       true,
	}
	err = s.userRepo.Create(ctx, fresh)
	if err == nil {
		s.appCtx.Logger.Info("registered new user", "telegram_id", claim.TelegramID, "user_id", fresh.ID)
		return &Result{User: fresh, IsNewUser: true}, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Lost the race: a concurrent first auth inserted the row between our
	// lookup and create. Re-resolve and update.
	s.appCtx.Logger.Debug("first-auth race lost, retrying as update", "telegram_id", claim.TelegramID)
	user, err = s.userRepo.FindByTelegramID(ctx, claim.TelegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Row vanished between the failed insert and the retry lookup.
		return nil, gorm.ErrRecordNotFound
	}
	return s.refresh(ctx, user, claim)
}

func (s *Service) refresh(ctx context.Context, user *db.User, claim Claim) (*Result, error) {
	user.Username = claim.Username
	user.FirstName = claim.FirstName
	user.LastName = claim.LastName
	user.LanguageCode = claim.LanguageCode
	user.Premium = claim.Premium

	if err := s.userRepo.UpdateClaim(ctx, user); err != nil {
		return nil, err
	}
	return &Result{User: user, IsNewUser: false}, nil
}

// Get returns the user for a telegram_id.
func (s *Service) Get(ctx context.Context, telegramID int64) (*db.User, error) {
	user, err := s.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, svcErr.NotFound("User not found")
	}
	return user, nil
}

// Delete removes the user account and everything it owns.
func (s *Service) Delete(ctx context.Context, telegramID int64) error {
	found, err := s.userRepo.DeleteByTelegramID(ctx, telegramID)
	if err != nil {
		return err
	}
	if !found {
		return svcErr.NotFound("User not found")
	}
	s.appCtx.Logger.Info("deleted user account", "telegram_id", telegramID)
	return nil
}

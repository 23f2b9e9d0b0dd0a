package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/db"
)

// UserRepository provides data access methods for the User model, keyed by
// the external Telegram identity.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// FindByTelegramID looks a user up by Telegram id.
//
// Absence is an expected outcome of authentication, not a fault, so a missing
// user is returned as (nil, nil) rather than gorm.ErrRecordNotFound.
func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user row.
//
// The unique index on telegram_id makes this the loser's side of the
// concurrent first-auth race: a duplicate insert fails with
// gorm.ErrDuplicatedKey, which the auth service recovers from by re-running
// the lookup.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateClaim overwrites the mutable identity attributes with the values in
// user. ID, TelegramID and CreatedAt are never touched; UpdatedAt advances.
func (r *UserRepository) UpdateClaim(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"language_code": user.LanguageCode,
		"is_premium":    user.Premium,
	}).Error
}

// DeleteByTelegramID removes the user and, in the same transaction, the
// owned profile and its photos. Returns false when no such user exists.
//
// The cascade is explicit rather than schema-level so it behaves the same
// on every supported driver.
func (r *UserRepository) DeleteByTelegramID(ctx context.Context, telegramID int64) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user db.User
		if err := tx.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		var profile db.Profile
		err := tx.Where("user_id = ?", user.ID).First(&profile).Error
		switch {
		case err == nil:
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&db.Photo{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

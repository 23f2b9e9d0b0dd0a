package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dkurbatov/datingapp-backend/internal/db"
)

// ProfileRepository provides data access methods for profiles and their
// photos. The single-primary-photo rule lives here: every write that can
// produce a primary photo clears the previous one inside the same
// transaction.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID returns the user's profile with photos, or (nil, nil) when the
// user has none yet.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Preload("Photos", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("display_order ASC, id ASC")
		}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the user's profile or overwrites its editable fields.
// The unique index on user_id keeps the relation 1:1.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *db.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Profile
		err := tx.Where("user_id = ?", profile.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(profile).Error
		}
		if err != nil {
			return err
		}

		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]interface{}{
			"display_name": profile.DisplayName,
			"age":          profile.Age,
			"bio":          profile.Bio,
			"city":         profile.City,
			"interests":    profile.Interests,
			"gender":       profile.Gender,
			"looking_for":  profile.LookingFor,
			"min_age":      profile.MinAge,
			"max_age":      profile.MaxAge,
			"is_visible":   profile.Visible,
			"is_complete":  profile.Complete,
		}).Error
	})
}

// Delete removes the profile and all of its photos in one transaction.
// Returns false when the profile does not exist.
func (r *ProfileRepository) Delete(ctx context.Context, profileID uint64) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile db.Profile
		if err := tx.First(&profile, profileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true
		if err := tx.Where("profile_id = ?", profileID).Delete(&db.Photo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// AddPhoto appends a photo to the profile. When the new photo is primary the
// previous primary is demoted in the same transaction.
func (r *ProfileRepository) AddPhoto(ctx context.Context, photo *db.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if photo.Primary {
			if err := clearPrimary(tx, photo.ProfileID); err != nil {
				return err
			}
		}
		return tx.Create(photo).Error
	})
}

// SetPrimaryPhoto makes photoID the profile's only primary photo.
// Returns gorm.ErrRecordNotFound when the photo is not on this profile.
func (r *ProfileRepository) SetPrimaryPhoto(ctx context.Context, profileID, photoID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photo db.Photo
		if err := tx.Where("id = ? AND profile_id = ?", photoID, profileID).First(&photo).Error; err != nil {
			return err
		}
		if err := clearPrimary(tx, profileID); err != nil {
			return err
		}
		return tx.Model(&photo).Update("is_primary", true).Error
	})
}

// DeletePhoto removes one photo. Returns false when the photo is not on this
// profile.
func (r *ProfileRepository) DeletePhoto(ctx context.Context, profileID, photoID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", photoID, profileID).
		Delete(&db.Photo{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListPhotos returns a profile's photos in display order.
func (r *ProfileRepository) ListPhotos(ctx context.Context, profileID uint64) ([]db.Photo, error) {
	var photos []db.Photo
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("display_order ASC, id ASC").
		Find(&photos).Error
	return photos, err
}

func clearPrimary(tx *gorm.DB, profileID uint64) error {
	return tx.Model(&db.Photo{}).
		Where("profile_id = ? AND is_primary = ?", profileID, true).
		Update("is_primary", false).Error
}

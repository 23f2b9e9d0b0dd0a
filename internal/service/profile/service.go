package profile

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/db"
	svcErr "github.com/dkurbatov/datingapp-backend/internal/errors"
	"github.com/dkurbatov/datingapp-backend/internal/repository"
)

const maxPhotoURLLen = 500

// Input is the editable profile surface. Free-text fields are sanitized
// before they reach storage.
type Input struct {
	DisplayName string
	Age         int
	Bio         string
	City        string
	Interests   string
	Gender      string
	LookingFor  string
	MinAge      int
	MaxAge      int
	Visible     bool
	Complete    bool
}

// PhotoInput describes one photo to attach.
type PhotoInput struct {
	URL          string
	IsPrimary    bool
	DisplayOrder int
}

// Service manages dating profiles and their photos on top of the user and
// profile repositories.
type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
	sanitizer   *bluemonday.Policy
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		// StrictPolicy strips all markup from user-supplied text
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Save creates or overwrites the caller's profile.
func (s *Service) Save(ctx context.Context, telegramID int64, in Input) (*db.Profile, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	profile := &db.Profile{
		UserID:      user.ID,
		DisplayName: s.clean(in.DisplayName),
		Age:         in.Age,
		Bio:         s.clean(in.Bio),
		City:        s.clean(in.City),
		Interests:   in.Interests,
		Gender:      in.Gender,
		LookingFor:  in.LookingFor,
		MinAge:      in.MinAge,
		MaxAge:      in.MaxAge,
		Visible:     in.Visible,
		Complete:    in.Complete,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return s.Get(ctx, telegramID)
}

// Get returns the caller's profile with photos.
func (s *Service) Get(ctx context.Context, telegramID int64) (*db.Profile, error) {
	user, err := s.resolveUser(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, svcErr.NotFound("Profile not found")
	}
	return profile, nil
}

// AddPhoto attaches a photo to the caller's profile.
func (s *Service) AddPhoto(ctx context.Context, telegramID int64, in PhotoInput) (*db.Photo, error) {
	url := strings.TrimSpace(in.URL)
	if url == "" {
		return nil, svcErr.InvalidArgument("url is required")
	}
	if len(url) > maxPhotoURLLen {
		return nil, svcErr.InvalidArgument("url must be at most 500 characters")
	}

	profile, err := s.Get(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	photo := &db.Photo{
		ProfileID:    profile.ID,
		URL:          url,
		Primary:      in.IsPrimary,
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.profileRepo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// SetPrimaryPhoto switches the profile's primary photo atomically.
func (s *Service) SetPrimaryPhoto(ctx context.Context, telegramID int64, photoID uint64) error {
	profile, err := s.Get(ctx, telegramID)
	if err != nil {
		return err
	}
	return s.profileRepo.SetPrimaryPhoto(ctx, profile.ID, photoID)
}

// DeletePhoto removes one photo from the caller's profile.
func (s *Service) DeletePhoto(ctx context.Context, telegramID int64, photoID uint64) error {
	profile, err := s.Get(ctx, telegramID)
	if err != nil {
		return err
	}
	found, err := s.profileRepo.DeletePhoto(ctx, profile.ID, photoID)
	if err != nil {
		return err
	}
	if !found {
		return svcErr.NotFound("Photo not found")
	}
	return nil
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

func (s *Service) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}

func validate(in Input) error {
	if strings.TrimSpace(in.DisplayName) == "" {
		return svcErr.InvalidArgument("display_name is required")
	}
	if in.Age < 18 {
		return svcErr.InvalidArgument("age must be at least 18")
	}
	if in.MinAge > in.MaxAge {
		return svcErr.InvalidArgument("min_age must not exceed max_age")
	}
	return nil
}

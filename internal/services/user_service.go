package services

import (
	"context"
	"time"

	"leaseboard/internal/models"
	"leaseboard/internal/repositories"

	"github.com/google/uuid"
)

type ProfileUpdateRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, settings models.UserSettings) (*models.User, error)
	GetNotificationSettings(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, notifications map[string]bool) (map[string]bool, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdateSettings replaces the whole settings blob.
func (s *userService) UpdateSettings(ctx context.Context, userID uuid.UUID, settings models.UserSettings) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Settings = settings
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *userService) GetNotificationSettings(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notificationsFrom(user.Settings), nil
}

func (s *userService) UpdateNotificationSettings(ctx context.Context, userID uuid.UUID, notifications map[string]bool) (map[string]bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Settings == nil {
		user.Settings = models.DefaultUserSettings()
	}
	merged := notificationsFrom(user.Settings)
	for k, v := range notifications {
		merged[k] = v
	}
	user.Settings["notifications"] = merged
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return merged, nil
}

// notificationsFrom digs the notifications map out of the settings blob,
// tolerating the loosely typed values JSON round-trips produce.
func notificationsFrom(settings models.UserSettings) map[string]bool {
	out := models.DefaultNotificationSettings()
	if settings == nil {
		return out
	}
	raw, ok := settings["notifications"]
	if !ok {
		return out
	}
	switch m := raw.(type) {
	case map[string]bool:
		for k, v := range m {
			out[k] = v
		}
	case map[string]interface{}:
		for k, v := range m {
			if b, ok := v.(bool); ok {
				out[k] = b
			}
		}
	}
	return out
}

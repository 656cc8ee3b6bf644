package service

import (
	"context"
	"fmt"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

const (
	profilePath  = "/api/users/profile"
	passwordPath = profilePath + "/password"
	picturePath  = profilePath + "/picture"
)

// UserService edits the signed-in user's own account.
type UserService struct {
	client *api.Client
}

func NewUserService(c *api.Client) *UserService {
	return &UserService{client: c}
}

// UpdateProfile saves profile fields. The response may carry a new token
// when the username changed.
func (s *UserService) UpdateProfile(ctx context.Context, req models.ProfileUpdateRequest) (*models.User, error) {
	var u models.User
	if err := s.client.PutJSON(ctx, profilePath, req, &u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &u, nil
}

// UpdatePassword changes the password. The confirmation is checked locally
// first so a typo never reaches the server.
func (s *UserService) UpdatePassword(ctx context.Context, req models.PasswordUpdateRequest) error {
	if req.NewPassword == "" || req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.client.PutJSON(ctx, passwordPath, req, nil); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdatePicture uploads a new profile picture.
func (s *UserService) UpdatePicture(ctx context.Context, image *Image) (*models.User, error) {
	if image == nil || image.Content == nil {
		return nil, ErrImageRequired
	}
	body := &api.Multipart{FileField: imageField, File: image}
	var u models.User
	if err := s.client.PutMultipart(ctx, picturePath, body, &u); err != nil {
		return nil, fmt.Errorf("update profile picture: %w", err)
	}
	return &u, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/cinetalk/cinetalk/internal/models"
)

// TokenPair is the access/refresh pair issued by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput is the payload for account creation. CaptchaToken is
// required by the server only when the deployment has CAPTCHA enabled.
type RegisterInput struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token,omitempty"`
}

// UserService exposes identity and account operations.
type UserService struct {
	client *Client
}

// NewUserService creates a UserService on the given client.
func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// Login exchanges credentials for a token pair. The caller decides where
// the pair is stored.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := map[string]string{"email": email, "password": password}

	var tokens TokenPair
	if err := s.client.Post(ctx, "/users/login/", body, &tokens); err != nil {
		return nil, err
	}
	if tokens.Access == "" {
		return nil, fmt.Errorf("login response missing access token")
	}
	return &tokens, nil
}

// Register creates a new account. The new user still has to log in (the
// session store chains the two for the auto-login flow).
func (s *UserService) Register(ctx context.Context, in RegisterInput) error {
	return s.client.Post(ctx, "/users/register/", in, nil)
}

// Profile resolves the current identity from the stored session.
func (s *UserService) Profile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := s.client.Get(ctx, "/users/profile/", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout notifies the server that the session ended. Local state is
// cleared by the session store regardless of this call's outcome.
func (s *UserService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/users/logout/", nil, nil)
}

// Subscribe replaces the user's subscribed OTT service set.
func (s *UserService) Subscribe(ctx context.Context, ottIDs []int) error {
	if ottIDs == nil {
		ottIDs = []int{}
	}
	body := map[string][]int{"ott_ids": ottIDs}
	return s.client.Post(ctx, "/users/subscribe/", body, nil)
}

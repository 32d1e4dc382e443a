package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cinetalk/cinetalk/internal/models"
	"github.com/cinetalk/cinetalk/internal/services"
	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token pair and stores it locally.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	if err := r.session.Login(ctx, email, password); err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 401 {
			return fmt.Errorf("%w: wrong email or password", shared.ErrAuthFailed)
		}
		return err
	}

	snap := r.session.Snapshot()
	r.cacheProfile(snap.Email, snap.Username)

	return r.writePlain("✓ Logged in as %s\n", snap.Username)
}

// AuthRegister creates an account and logs straight in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	in := services.RegisterInput{
		Email:        cmd.String("email"),
		Username:     cmd.String("username"),
		Password:     cmd.String("password"),
		CaptchaToken: cmd.String("captcha"),
	}

	if r.config.CaptchaEnabled() && in.CaptchaToken == "" {
		signupURL := strings.TrimSuffix(r.config.API.BaseURL, "/api") + "/signup"
		if err := shared.OpenBrowser(signupURL); err == nil {
			r.writePlain("Opened %s to complete the captcha.\n", signupURL)
		}
		return fmt.Errorf("%w: pass --captcha with a token from the site", shared.ErrCaptchaRequired)
	}

	r.logger.Info("registering account", "email", in.Email, "username", in.Username)

	if err := r.session.Register(ctx, in); err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			// Only an explicit "already exists" rejection gets the friendly
			// duplicate message; other field errors pass through as-is.
			for _, field := range []string{"email", "username"} {
				msg := apiErr.Field(field)
				if msg == "" {
					continue
				}
				if strings.Contains(msg, "already exists") {
					return fmt.Errorf("%w: an account with that %s already exists", shared.ErrInvalidInput, field)
				}
				return fmt.Errorf("%w: %s: %s", shared.ErrInvalidInput, field, msg)
			}
		}
		return err
	}

	snap := r.session.Snapshot()
	r.cacheProfile(snap.Email, snap.Username)

	r.writePlain("✓ Account created, logged in as %s\n", snap.Username)
	r.writePlain("Pick your streaming providers with 'cinetalk auth subscribe --ott <id>'.\n")
	return nil
}

// AuthSubscribe replaces the account's streaming provider subscriptions.
// An empty ID set clears them.
func (r *Runner) AuthSubscribe(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)
	if err := r.session.Require(); err != nil {
		return err
	}

	ids := []int{}
	for _, id := range cmd.IntSlice("ott") {
		ids = append(ids, int(id))
	}

	if err := r.users.Subscribe(ctx, ids); err != nil {
		return fmt.Errorf("failed to update subscriptions: %w", err)
	}

	if len(ids) == 0 {
		return r.writePlain("✓ Subscriptions cleared\n")
	}
	return r.writePlain("✓ Subscribed to %d providers\n", len(ids))
}

// AuthLogout clears the stored session. Local state is dropped even when the
// server call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout(ctx)

	if r.profiles != nil {
		if err := r.profiles.ClearProfile(); err != nil {
			r.logger.Debug("failed to clear cached profile", "error", err)
		}
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus resolves the stored session and reports the current identity.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.ensureSession(ctx)

	snap := r.session.Snapshot()
	if !snap.LoggedIn {
		return r.writePlain("✗ Not logged in\n")
	}

	r.writePlain("✓ Logged in\n")
	r.writePlain("Email: %s\n", snap.Email)
	r.writePlain("Username: %s\n", snap.Username)
	return nil
}

func (r *Runner) cacheProfile(email, username string) {
	if r.profiles == nil {
		return
	}
	if err := r.profiles.SaveProfile(models.Profile{Email: email, Username: username}); err != nil {
		r.logger.Debug("failed to cache profile", "error", err)
	}
}

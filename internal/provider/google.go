package provider

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"sleepcalc-api/internal/config"
	"sleepcalc-api/pkg/errors"
)

// GoogleOAuth wraps the direct Google code-exchange path used by the
// callback route.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth builds the OAuth config for the callback route.
func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			RedirectURL:  cfg.BaseURL + config.AuthCallbackPath,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthCodeURL returns Google's consent page URL. state carries the
// post-login return path.
func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the callback code for tokens and returns the ID token the
// identity provider needs alongside the user's basic info.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (idToken string, info *oauth2api.Userinfo, err error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", nil, errors.NewAuthenticationError("Failed to exchange authorization code")
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", nil, errors.NewAuthenticationError("No ID token in OAuth response")
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return "", nil, errors.NewExternalError("Failed to create userinfo service", err)
	}

	info, err = svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", nil, errors.NewExternalError(fmt.Sprintf("Failed to fetch userinfo: %v", err), err)
	}

	return idToken, info, nil
}

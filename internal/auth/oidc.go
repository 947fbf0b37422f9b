package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/medicalregister/go-backend/config"
)

// TokenVerifier verifies a raw ID token and returns its claims. Satisfied by
// *Authenticator; tests substitute a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (map[string]any, error)
}

// Authenticator wraps the Auth0 tenant's OIDC endpoints: the authorization
// code flow for the web UI and ID token verification for both the callback
// and the bearer-token API middleware.
type Authenticator struct {
	domain   string
	clientID string
	oauth    oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewAuthenticator discovers the tenant's OIDC configuration and prepares the
// OAuth2 client. baseURL is this service's external origin; the callback is
// registered at <baseURL>/callback.
func NewAuthenticator(ctx context.Context, cfg config.Auth0Config, baseURL string) (*Authenticator, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("AUTH0_DOMAIN is required")
	}

	provider, err := oidc.NewProvider(ctx, "https://"+cfg.Domain+"/")
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	return &Authenticator{
		domain:   cfg.Domain,
		clientID: cfg.ClientID,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  baseURL + "/callback",
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL builds the authorize redirect for the given CSRF state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and returns the verified
// ID token claims.
func (a *Authenticator) Exchange(ctx context.Context, code string) (map[string]any, error) {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("token response carries no id_token")
	}

	return a.VerifyIDToken(ctx, rawIDToken)
}

// VerifyIDToken checks the token signature, issuer, audience and expiry
// against the tenant, and returns the claim set.
func (a *Authenticator) VerifyIDToken(ctx context.Context, rawToken string) (map[string]any, error) {
	idToken, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}

	claims := map[string]any{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	return claims, nil
}

// LogoutURL builds the tenant's RP-initiated logout endpoint. Auth0 ends its
// own session and then sends the browser back to returnTo.
func (a *Authenticator) LogoutURL(returnTo string) string {
	return "https://" + a.domain + "/v2/logout?client_id=" + url.QueryEscape(a.clientID) +
		"&returnTo=" + url.QueryEscape(returnTo)
}

// Package spotify talks to the Spotify accounts service and Web API.
//
// Endpoint shapes follow https://developer.spotify.com/documentation/web-api/
package spotify

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/tunefolio/tunefolio/internal/config"
	"github.com/tunefolio/tunefolio/internal/domain"
)

const (
	authURL  = "https://accounts.spotify.com/authorize"
	tokenURL = "https://accounts.spotify.com/api/token"
)

// Authenticator exchanges authorization codes and refresh tokens for
// token pairs. It holds no state between calls; client credentials are
// sent Basic-auth encoded, never in the URL.
type Authenticator struct {
	config *oauth2.Config
}

// NewAuthenticator builds an Authenticator for the configured OAuth
// client against the Spotify accounts service.
func NewAuthenticator(cfg config.SpotifyConfig) *Authenticator {
	return newAuthenticator(cfg, oauth2.Endpoint{
		AuthURL:   authURL,
		TokenURL:  tokenURL,
		AuthStyle: oauth2.AuthStyleInHeader,
	})
}

func newAuthenticator(cfg config.SpotifyConfig, endpoint oauth2.Endpoint) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
	}
}

// AuthCodeURL returns the authorize URL the user should be redirected
// to, carrying the client id, scopes, redirect URI and state token.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades a one-time authorization code for a token pair. Any
// non-success upstream status or malformed body comes back as a
// *domain.AuthError carrying the upstream status and message.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*domain.TokenPair, error) {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, asAuthError(err)
	}
	return pairFromToken(tok), nil
}

// Refresh obtains a fresh token pair from a refresh token, with the
// same error contract as Exchange. Spotify may omit the refresh token
// in the response; the caller keeps the old one in that case.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	src := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, asAuthError(err)
	}
	pair := pairFromToken(tok)
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return pair, nil
}

func pairFromToken(tok *oauth2.Token) *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}

func asAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		authErr := &domain.AuthError{}
		if retrieveErr.Response != nil {
			authErr.StatusCode = retrieveErr.Response.StatusCode
		}
		switch {
		case retrieveErr.ErrorCode != "" && retrieveErr.ErrorDescription != "":
			authErr.Message = retrieveErr.ErrorCode + ": " + retrieveErr.ErrorDescription
		case retrieveErr.ErrorCode != "":
			authErr.Message = retrieveErr.ErrorCode
		default:
			authErr.Message = string(retrieveErr.Body)
		}
		return authErr
	}
	return &domain.AuthError{Message: err.Error()}
}

package roster

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthConfig enables OAuth2 client credentials for a remote roster. It is
// disabled while ClientID is empty.
type AuthConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

func (a AuthConfig) enabled() bool { return a.ClientID != "" }

// Validate requires a token endpoint once a client id is set.
func (a AuthConfig) Validate() error {
	if a.enabled() && a.TokenURL == "" {
		return errors.New("roster auth requires token_url")
	}
	return nil
}

// wrap returns a client that authenticates every request with a token from
// the client credentials flow. Tokens are cached until they expire.
func (a AuthConfig) wrap(base *http.Client) *http.Client {
	cc := clientcredentials.Config{
		ClientID:     a.ClientID,
		ClientSecret: a.ClientSecret,
		TokenURL:     a.TokenURL,
		Scopes:       a.Scopes,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	c := cc.Client(ctx)
	c.Timeout = base.Timeout
	return c
}

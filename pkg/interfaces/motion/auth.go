package motion

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mrjones/oauth"
)

const (
	requestTokenPath   = "/oauth/request_token"
	authorizeTokenPath = "/oauth/authorize"
	accessTokenPath    = "/oauth/access_token"
)

// Authenticator produces the HTTP client used for gateway requests. Fleet
// gateways deployed behind the vendor cloud sign requests with OAuth 1.0a;
// locally deployed gateways use a static bearer token.
type Authenticator struct {
	client      *http.Client
	bearerToken string
}

func NewAuthenticator(config *MotionConfig) (*Authenticator, error) {
	// Command (write) traffic through the fleet cloud needs OAuth 1.0a
	if config.ConsumerKey != "" && config.AccessToken != "" {
		return newSignedAuthenticator(config)
	}

	if config.BearerToken != "" {
		return newBearerAuthenticator(config.BearerToken)
	}

	return nil, fmt.Errorf("either OAuth 1.0a credentials or a bearer token must be provided")
}

func newBearerAuthenticator(bearerToken string) (*Authenticator, error) {
	return &Authenticator{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		bearerToken: bearerToken,
	}, nil
}

func newSignedAuthenticator(config *MotionConfig) (*Authenticator, error) {
	consumer := oauth.NewConsumer(config.ConsumerKey, config.ConsumerSecret, oauth.ServiceProvider{
		RequestTokenUrl:   config.BaseURL + requestTokenPath,
		AuthorizeTokenUrl: config.BaseURL + authorizeTokenPath,
		AccessTokenUrl:    config.BaseURL + accessTokenPath,
	})

	consumer.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	token := oauth.AccessToken{
		Token:  config.AccessToken,
		Secret: config.AccessTokenSecret,
	}

	client, err := consumer.MakeHttpClient(&token)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth client: %w", err)
	}

	return &Authenticator{client: client}, nil
}

// GetClient returns the HTTP client to issue requests with.
func (a *Authenticator) GetClient() *http.Client {
	return a.client
}

// SetAuthHeader adds bearer authentication when in bearer mode. The OAuth
// client signs requests itself.
func (a *Authenticator) SetAuthHeader(req *http.Request) {
	if a.bearerToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.bearerToken))
	}
}

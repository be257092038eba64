package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/brizzai/oauth-relay/internal/models"
	"github.com/brizzai/oauth-relay/internal/requester"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const (
	authorizePath   = "/oauth/authorize"
	accessTokenPath = "/oauth/access_token"
	profilePath     = "/v1/users/self/"
)

// Endpoint returns the OAuth2 endpoints of an Instagram compatible provider rooted at baseURL
func Endpoint(baseURL string) oauth2.Endpoint {
	baseURL = strings.TrimRight(baseURL, "/")
	return oauth2.Endpoint{
		AuthURL:   baseURL + authorizePath,
		TokenURL:  baseURL + accessTokenPath,
		AuthStyle: oauth2.AuthStyleInParams,
	}
}

// InstagramProvider implements Provider against the Instagram OAuth and profile API
type InstagramProvider struct {
	oauth2Config *oauth2.Config
	scopes       string
	profileURL   string
	encoding     config.TokenRequestEncoding
	requester    *requester.HTTPRequester
}

// NewInstagramProvider creates a new Instagram provider from the provider and relay configuration
func NewInstagramProvider(cfg *config.Config, r *requester.HTTPRequester) *InstagramProvider {
	encoding := cfg.Relay.TokenRequestEncoding
	if encoding == "" {
		encoding = config.TokenRequestEncodingForm
	}
	return &InstagramProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.Provider.ClientID,
			ClientSecret: cfg.Provider.ClientSecret,
			RedirectURL:  cfg.Provider.RedirectURI,
			Endpoint:     Endpoint(cfg.Provider.BaseURL),
		},
		scopes:     cfg.Provider.Scopes,
		profileURL: strings.TrimRight(cfg.Provider.BaseURL, "/") + profilePath,
		encoding:   encoding,
		requester:  r,
	}
}

// AuthURL returns the authorize link the user follows to log in
func (p *InstagramProvider) AuthURL() string {
	opts := []oauth2.AuthCodeOption{}
	// the provider expects a comma separated list, oauth2.Config.Scopes would join with spaces
	if p.scopes != "" {
		opts = append(opts, oauth2.SetAuthURLParam("scope", p.scopes))
	}
	return p.oauth2Config.AuthCodeURL("", opts...)
}

// ExchangeCode trades an authorization code for an access token with a single token request
func (p *InstagramProvider) ExchangeCode(ctx context.Context, code string) (*models.TokenResult, error) {
	params := url.Values{
		"client_id":     {p.oauth2Config.ClientID},
		"client_secret": {p.oauth2Config.ClientSecret},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {p.oauth2Config.RedirectURL},
		"code":          {code},
	}

	req := &requester.Request{
		Method:  http.MethodPost,
		URL:     p.oauth2Config.Endpoint.TokenURL,
		Headers: map[string]string{"Accept": "application/json"},
	}
	switch p.encoding {
	case config.TokenRequestEncodingQuery:
		req.URL += "?" + params.Encode()
	default:
		req.Body = strings.NewReader(params.Encode())
		req.ContentType = "application/x-www-form-urlencoded"
	}

	resp, err := p.requester.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}

	if !resp.OK() {
		return nil, retrieveError(resp)
	}

	if !gjson.ValidBytes(resp.Body) {
		return nil, fmt.Errorf("token response: %w", ErrMalformedResponse)
	}
	body := gjson.ParseBytes(resp.Body)
	if !body.IsObject() {
		return nil, fmt.Errorf("token response: %w", ErrMalformedResponse)
	}

	accessToken := body.Get("access_token")
	if accessToken.Type != gjson.String || accessToken.String() == "" {
		return nil, ErrMissingAccessToken
	}

	return &models.TokenResult{
		AccessToken: accessToken.String(),
		UserID:      body.Get("user_id").String(),
	}, nil
}

// FetchProfile retrieves the profile of the access token owner
func (p *InstagramProvider) FetchProfile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	resp, err := p.requester.Do(ctx, &requester.Request{
		Method:      http.MethodGet,
		URL:         p.profileURL + "?" + url.Values{"access_token": {accessToken}}.Encode(),
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstreamStatus, resp.Status,
			gjson.GetBytes(resp.Body, "meta.error_message").String())
	}

	if !gjson.ValidBytes(resp.Body) {
		return nil, fmt.Errorf("profile response: %w", ErrMalformedResponse)
	}

	data := gjson.GetBytes(resp.Body, "data")
	if !data.IsObject() || !data.Get("counts").IsObject() {
		return nil, fmt.Errorf("profile response has no data.counts: %w", ErrMalformedResponse)
	}

	return &models.UserProfile{
		Username:          data.Get("username").String(),
		ProfilePictureURL: data.Get("profile_picture").String(),
		MediaCount:        data.Get("counts.media").Int(),
		FollowersCount:    data.Get("counts.followed_by").Int(),
		FollowingCount:    data.Get("counts.follows").Int(),
		Raw:               resp.Body,
	}, nil
}

// retrieveError reports a non-2xx token response the way golang.org/x/oauth2 does
func retrieveError(resp *requester.Response) *oauth2.RetrieveError {
	body := gjson.ParseBytes(resp.Body)
	return &oauth2.RetrieveError{
		Response: &http.Response{
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Header:     resp.Headers,
		},
		Body:             resp.Body,
		ErrorCode:        body.Get("error_type").String(),
		ErrorDescription: body.Get("error_message").String(),
	}
}

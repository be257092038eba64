package models

import "encoding/json"

// TokenResult is the outcome of a successful authorization code exchange
type TokenResult struct {
	AccessToken string
	UserID      string // kept as the provider's raw text, ids exceed float64 precision
}

// UserProfile is the profile summary rendered by the /user page
type UserProfile struct {
	Username          string
	ProfilePictureURL string
	MediaCount        int64
	FollowersCount    int64
	FollowingCount    int64

	// Raw is the full response body as returned by the provider
	Raw json.RawMessage
}

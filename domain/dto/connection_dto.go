package dto

import "social-flood/domain/model"

// Res is the generic response envelope used by handlers.
type Res struct {
	ResponseCode    string      `json:"response_code"`
	ResponseMessage string      `json:"response_message"`
	Data            interface{} `json:"data,omitempty"`
}

// APIError is the remote API's error body shape.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ConnectionsResponse wraps GET /api/connections.
type ConnectionsResponse struct {
	Connections []model.Connection `json:"connections"`
}

// LegacyStatusResponse is the per-user transport's status reply
// (GET /auth/{platform}/status?userId=...).
type LegacyStatusResponse struct {
	Connected  bool              `json:"connected"`
	Connection *model.Connection `json:"connection,omitempty"`
}

// LegacyStatusQuery carries the query string of the per-user transport,
// encoded with go-querystring.
type LegacyStatusQuery struct {
	UserID string `url:"userId"`
}

// TikTokUsersResponse wraps the global-listing endpoint
// (GET /api/auth/tiktok/users).
type TikTokUsersResponse struct {
	Users []model.Connection `json:"users"`
}

// ConnectBeginResponse is returned to the caller starting an OAuth popup
// flow: the URL to open in a detached window.
type ConnectBeginResponse struct {
	Platform model.Platform `json:"platform"`
	AuthURL  string         `json:"auth_url"`
}

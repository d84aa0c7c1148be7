package model

import "time"

// Connection is one authorized link between the local user and a platform
// account. The remote authorization service owns it; we hold a read-only
// cached copy that is refetched after every mutating action.
type Connection struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId,omitempty"`
	Platform         Platform   `json:"platform"`
	PlatformUserID   string     `json:"platformUserId"`
	PlatformUsername string     `json:"platformUsername,omitempty"`
	DisplayName      string     `json:"displayName,omitempty"`
	Scopes           []string   `json:"scopes"`
	ExpiresAt        time.Time  `json:"expiresAt"`
	RefreshExpiresAt *time.Time `json:"refreshExpiresAt,omitempty"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ConnectionSnapshot is the aggregator's per-platform view as of the last
// refresh. Exactly one of Connection/FetchError is set when something
// happened; both absent means "looked up fine, not connected". For
// globally-authenticated platforms Accounts may carry several connections
// and Connection points at the first active one.
type ConnectionSnapshot struct {
	Platform   Platform       `json:"platform"`
	Connection *Connection    `json:"connection,omitempty"`
	Accounts   []Connection   `json:"accounts,omitempty"`
	FetchError *PlatformError `json:"fetch_error,omitempty"`
}

// Connected reports whether the snapshot holds an active connection.
func (s ConnectionSnapshot) Connected() bool {
	return s.Connection != nil && s.Connection.IsActive
}

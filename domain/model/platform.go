package model

// Platform identifies one supported social network. The set is closed;
// adding a platform means adding a constant plus a registry entry below.
type Platform string

const (
	PlatformPinterest Platform = "pinterest"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformBluesky   Platform = "bluesky"
)

// PlatformDescriptor is the immutable registry entry for a platform.
// RequiresUserID selects the legacy per-user transport (query-string userId)
// instead of the cookie-session connections API. GlobalAuth marks platforms
// whose authorization is not scoped to a local user at all; those may carry
// several external accounts at once and are listed through a dedicated
// endpoint.
type PlatformDescriptor struct {
	Platform         Platform `json:"platform"`
	DisplayName      string   `json:"display_name"`
	Description      string   `json:"description,omitempty"`
	Available        bool     `json:"available"`
	RequiresUserID   bool     `json:"requires_user_id"`
	GlobalAuth       bool     `json:"global_auth"`
	MaxContentLength int      `json:"max_content_length"`
	MaxMediaItems    int      `json:"max_media_items"`
}

// platformOrder fixes the iteration order everywhere platforms are listed.
var platformOrder = []Platform{
	PlatformPinterest,
	PlatformTikTok,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformYouTube,
	PlatformFacebook,
	PlatformBluesky,
}

var descriptors = map[Platform]PlatformDescriptor{
	PlatformPinterest: {
		Platform:         PlatformPinterest,
		DisplayName:      "Pinterest",
		Description:      "Share pins and boards",
		Available:        true,
		MaxContentLength: 500,
		MaxMediaItems:    1,
	},
	PlatformTikTok: {
		Platform:         PlatformTikTok,
		DisplayName:      "TikTok",
		Description:      "Share short-form videos",
		Available:        true,
		GlobalAuth:       true,
		MaxContentLength: 2200,
		MaxMediaItems:    1,
	},
	PlatformTwitter: {
		Platform:         PlatformTwitter,
		DisplayName:      "X (Twitter)",
		Description:      "Share tweets and threads",
		Available:        true,
		MaxContentLength: 280,
		MaxMediaItems:    4,
	},
	PlatformLinkedIn: {
		Platform:         PlatformLinkedIn,
		DisplayName:      "LinkedIn",
		Description:      "Share professional content",
		Available:        true,
		MaxContentLength: 3000,
		MaxMediaItems:    9,
	},
	PlatformInstagram: {
		Platform:         PlatformInstagram,
		DisplayName:      "Instagram",
		Description:      "Share photos and reels",
		Available:        true,
		RequiresUserID:   true,
		MaxContentLength: 2200,
		MaxMediaItems:    10,
	},
	PlatformYouTube: {
		Platform:         PlatformYouTube,
		DisplayName:      "YouTube",
		Description:      "Upload videos to your channel",
		Available:        true,
		MaxContentLength: 5000,
		MaxMediaItems:    1,
	},
	PlatformFacebook: {
		Platform:         PlatformFacebook,
		DisplayName:      "Facebook",
		Description:      "Coming soon",
		Available:        false,
		MaxContentLength: 63206,
		MaxMediaItems:    10,
	},
	PlatformBluesky: {
		Platform:         PlatformBluesky,
		DisplayName:      "Bluesky",
		Description:      "Share on the decentralized social network",
		Available:        true,
		MaxContentLength: 300,
		MaxMediaItems:    4,
	},
}

// Descriptor returns the registry entry for a platform. Total: unknown
// platform values yield an unavailable zero-limit descriptor rather than an
// error so callers never branch on a missing entry.
func Descriptor(p Platform) PlatformDescriptor {
	if d, ok := descriptors[p]; ok {
		return d
	}
	return PlatformDescriptor{Platform: p, DisplayName: string(p)}
}

// AllPlatforms returns every registered platform in display order.
func AllPlatforms() []Platform {
	out := make([]Platform, len(platformOrder))
	copy(out, platformOrder)
	return out
}

// AvailablePlatforms returns the platforms users can connect today.
func AvailablePlatforms() []Platform {
	out := make([]Platform, 0, len(platformOrder))
	for _, p := range platformOrder {
		if descriptors[p].Available {
			out = append(out, p)
		}
	}
	return out
}

// ComingSoonPlatforms returns the registered but not yet available platforms.
func ComingSoonPlatforms() []Platform {
	out := make([]Platform, 0, 2)
	for _, p := range platformOrder {
		if !descriptors[p].Available {
			out = append(out, p)
		}
	}
	return out
}

// IsKnownPlatform reports whether p is a registered platform value.
func IsKnownPlatform(p Platform) bool {
	_, ok := descriptors[p]
	return ok
}

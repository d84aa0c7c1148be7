package dto

import "social-flood/domain/model"

// Per-platform posting payloads for POST /api/platforms/{platform}/posts.
// The remote API expects a different body per platform, so the outgoing
// request is a tagged union with the platform as discriminant: exactly one
// payload pointer is set and it must match Platform.

// TwitterPostRequest posts a tweet (280 chars, up to 4 images).
type TwitterPostRequest struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// LinkedInPostRequest posts to LinkedIn (3000 chars, optional article card).
type LinkedInPostRequest struct {
	Text         string   `json:"text"`
	Images       []string `json:"images,omitempty"`
	ArticleURL   string   `json:"articleUrl,omitempty"`
	ArticleTitle string   `json:"articleTitle,omitempty"`
}

// BlueskyPostRequest posts to Bluesky (300 chars, optional link card).
type BlueskyPostRequest struct {
	Text            string `json:"text"`
	LinkURL         string `json:"linkUrl,omitempty"`
	LinkTitle       string `json:"linkTitle,omitempty"`
	LinkDescription string `json:"linkDescription,omitempty"`
}

// TikTokPostRequest publishes a video (video URL required).
type TikTokPostRequest struct {
	VideoURL      string `json:"videoUrl"`
	Caption       string `json:"caption,omitempty"`
	PrivacyLevel  string `json:"privacyLevel,omitempty"`
	AllowComments bool   `json:"allowComments,omitempty"`
}

// PinterestPostRequest creates a pin (board id, image and title required).
type PinterestPostRequest struct {
	BoardID     string `json:"boardId"`
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// InstagramPostRequest publishes media (1-10 items, per-user identifier).
type InstagramPostRequest struct {
	UserID    string   `json:"userId"`
	MediaURLs []string `json:"mediaUrls"`
	Caption   string   `json:"caption,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// YouTubePostRequest publishes a video with title and description.
type YouTubePostRequest struct {
	VideoURL    string `json:"videoUrl"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PlatformPostRequest is the tagged union handed to the posting client.
type PlatformPostRequest struct {
	Platform  model.Platform        `json:"platform"`
	Twitter   *TwitterPostRequest   `json:"twitter,omitempty"`
	LinkedIn  *LinkedInPostRequest  `json:"linkedin,omitempty"`
	Bluesky   *BlueskyPostRequest   `json:"bluesky,omitempty"`
	TikTok    *TikTokPostRequest    `json:"tiktok,omitempty"`
	Pinterest *PinterestPostRequest `json:"pinterest,omitempty"`
	Instagram *InstagramPostRequest `json:"instagram,omitempty"`
	YouTube   *YouTubePostRequest   `json:"youtube,omitempty"`
}

// Body returns the platform-specific payload for serialization, or nil when
// the union is inconsistent with its tag.
func (r PlatformPostRequest) Body() interface{} {
	switch r.Platform {
	case model.PlatformTwitter:
		if r.Twitter != nil {
			return r.Twitter
		}
	case model.PlatformLinkedIn:
		if r.LinkedIn != nil {
			return r.LinkedIn
		}
	case model.PlatformBluesky:
		if r.Bluesky != nil {
			return r.Bluesky
		}
	case model.PlatformTikTok:
		if r.TikTok != nil {
			return r.TikTok
		}
	case model.PlatformPinterest:
		if r.Pinterest != nil {
			return r.Pinterest
		}
	case model.PlatformInstagram:
		if r.Instagram != nil {
			return r.Instagram
		}
	case model.PlatformYouTube:
		if r.YouTube != nil {
			return r.YouTube
		}
	}
	return nil
}

// PostResponse is the remote posting endpoint's reply.
type PostResponse struct {
	Success        bool   `json:"success"`
	PostID         string `json:"postId,omitempty"`
	PlatformPostID string `json:"platformPostId,omitempty"`
	Message        string `json:"message"`
}

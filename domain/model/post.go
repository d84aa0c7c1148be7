package model

import "time"

// PostStatus is the per-variant lifecycle: pending -> posting -> success|failed.
// A variant that fails validation jumps straight from pending to failed.
type PostStatus string

const (
	PostStatusPending PostStatus = "pending"
	PostStatusPosting PostStatus = "posting"
	PostStatusSuccess PostStatus = "success"
	PostStatusFailed  PostStatus = "failed"
)

// Terminal reports whether the status can no longer change for this attempt.
func (s PostStatus) Terminal() bool {
	return s == PostStatusSuccess || s == PostStatusFailed
}

// PackageStatus is the aggregate package lifecycle.
type PackageStatus string

const (
	PackageStatusDraft   PackageStatus = "draft"
	PackageStatusPosting PackageStatus = "posting"
	PackageStatusSuccess PackageStatus = "success"
	PackageStatusPartial PackageStatus = "partial"
	PackageStatusFailed  PackageStatus = "failed"
)

// VariantOptions holds the platform-specific extras a draft can carry beyond
// plain content and media. Which fields matter is decided by the variant's
// platform when the outgoing request payload is built.
type VariantOptions struct {
	// Pinterest
	BoardID string `json:"board_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	// LinkedIn
	ArticleURL   string `json:"article_url,omitempty"`
	ArticleTitle string `json:"article_title,omitempty"`
	// Bluesky
	LinkURL         string `json:"link_url,omitempty"`
	LinkTitle       string `json:"link_title,omitempty"`
	LinkDescription string `json:"link_description,omitempty"`
	// TikTok
	VideoURL      string `json:"video_url,omitempty"`
	PrivacyLevel  string `json:"privacy_level,omitempty"`
	AllowComments bool   `json:"allow_comments,omitempty"`
	// Instagram
	Location string `json:"location,omitempty"`
}

// PostVariant is one platform-specific draft inside a package. Media entries
// are URLs or blob references, in user order.
type PostVariant struct {
	Platform Platform       `json:"platform"`
	Enabled  bool           `json:"enabled"`
	Content  string         `json:"content"`
	Media    []string       `json:"media"`
	Options  VariantOptions `json:"options"`
	Status   PostStatus     `json:"status,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// Clone returns a deep copy so updates never mutate a shared value.
func (v PostVariant) Clone() PostVariant {
	out := v
	out.Media = append([]string(nil), v.Media...)
	return out
}

// PostPackage is the aggregate multi-platform draft. Status is always derived
// from the enabled variants' statuses, never set independently.
type PostPackage struct {
	ID        string                   `json:"id"`
	UserID    string                   `json:"user_id,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	Status    PackageStatus            `json:"status"`
	Variants  map[Platform]PostVariant `json:"variants"`
}

// Clone returns a deep copy of the package.
func (p PostPackage) Clone() PostPackage {
	out := p
	out.Variants = make(map[Platform]PostVariant, len(p.Variants))
	for k, v := range p.Variants {
		out.Variants[k] = v.Clone()
	}
	return out
}

// EnabledVariants returns the enabled variants in registry display order.
func (p PostPackage) EnabledVariants() []PostVariant {
	out := make([]PostVariant, 0, len(p.Variants))
	for _, plat := range AllPlatforms() {
		if v, ok := p.Variants[plat]; ok && v.Enabled {
			out = append(out, v)
		}
	}
	return out
}

// DerivePackageStatus computes the package status from the multiset of
// enabled variant statuses:
//
//	any pending/posting        -> posting
//	all success                -> success
//	all failed                 -> failed
//	mix of success and failed  -> partial
//
// A package whose enabled variants carry no status yet (or that has no
// enabled variant at all) is still a draft.
func DerivePackageStatus(pkg PostPackage) PackageStatus {
	var successes, failures, inflight, unset int
	for _, v := range pkg.Variants {
		if !v.Enabled {
			continue
		}
		switch v.Status {
		case PostStatusSuccess:
			successes++
		case PostStatusFailed:
			failures++
		case PostStatusPending, PostStatusPosting:
			inflight++
		default:
			unset++
		}
	}
	switch {
	case successes+failures+inflight == 0:
		return PackageStatusDraft
	case inflight+unset > 0:
		return PackageStatusPosting
	case failures == 0:
		return PackageStatusSuccess
	case successes == 0:
		return PackageStatusFailed
	default:
		return PackageStatusPartial
	}
}

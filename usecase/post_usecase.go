package usecase

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf16"

	"social-flood/domain/model"

	"github.com/google/uuid"
)

// IPostUsecase owns the in-memory draft packages. Every update is
// copy-on-write: callers always receive a fresh value and the stored package
// is only replaced under the store's lock.
type IPostUsecase interface {
	CreatePackage(userID string) model.PostPackage
	GetPackage(id string) (model.PostPackage, error)
	SetContent(id string, platform model.Platform, content string) (model.PostPackage, error)
	SetMedia(id string, platform model.Platform, media []string) (model.PostPackage, error)
	SetOptions(id string, platform model.Platform, opts model.VariantOptions) (model.PostPackage, error)
	Toggle(id string, platform model.Platform, enabled bool) (model.PostPackage, error)
	ValidatePackage(pkg model.PostPackage) map[model.Platform]model.ValidationResult
	// BeginPublish atomically moves a package into posting and returns the
	// copy to fan out. At most one caller wins the transition.
	BeginPublish(id string) (model.PostPackage, error)
	// Replace installs a package whose statuses were advanced by the publish
	// orchestrator. Only the orchestrator calls it.
	Replace(pkg model.PostPackage)
}

type postUsecase struct {
	mu       sync.Mutex
	packages map[string]model.PostPackage
}

func NewPostUsecase() IPostUsecase {
	return &postUsecase{packages: make(map[string]model.PostPackage)}
}

// CreatePackage starts a draft with every available platform enabled and
// empty content, mirroring how composing starts in the UI.
func (u *postUsecase) CreatePackage(userID string) model.PostPackage {
	pkg := model.PostPackage{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Status:    model.PackageStatusDraft,
		Variants:  make(map[model.Platform]model.PostVariant),
	}
	for _, p := range model.AvailablePlatforms() {
		pkg.Variants[p] = model.PostVariant{
			Platform: p,
			Enabled:  true,
			Content:  "",
			Media:    []string{},
		}
	}
	u.mu.Lock()
	u.packages[pkg.ID] = pkg
	u.mu.Unlock()
	return pkg.Clone()
}

func (u *postUsecase) GetPackage(id string) (model.PostPackage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	pkg, ok := u.packages[id]
	if !ok {
		return model.PostPackage{}, model.NewPlatformError("", model.ErrNotFound, fmt.Sprintf("post package %s not found", id))
	}
	return pkg.Clone(), nil
}

// update applies fn to a cloned variant and swaps the rebuilt package in.
// Edits are rejected while a publish is in flight.
func (u *postUsecase) update(id string, platform model.Platform, fn func(*model.PostVariant)) (model.PostPackage, error) {
	if !model.IsKnownPlatform(platform) {
		return model.PostPackage{}, model.NewPlatformError(platform, model.ErrValidationFailed, "unknown platform")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	pkg, ok := u.packages[id]
	if !ok {
		return model.PostPackage{}, model.NewPlatformError(platform, model.ErrNotFound, fmt.Sprintf("post package %s not found", id))
	}
	if pkg.Status == model.PackageStatusPosting {
		return model.PostPackage{}, model.NewPlatformError(platform, model.ErrValidationFailed, "package is being published")
	}
	next := pkg.Clone()
	variant, ok := next.Variants[platform]
	if !ok {
		variant = model.PostVariant{Platform: platform, Enabled: true, Media: []string{}}
	}
	fn(&variant)
	next.Variants[platform] = variant
	u.packages[id] = next
	return next.Clone(), nil
}

// SetContent replaces a variant's text. No validation happens here: the user
// may exceed limits while drafting and sees a warning instead of a block.
func (u *postUsecase) SetContent(id string, platform model.Platform, content string) (model.PostPackage, error) {
	return u.update(id, platform, func(v *model.PostVariant) {
		v.Content = content
	})
}

func (u *postUsecase) SetMedia(id string, platform model.Platform, media []string) (model.PostPackage, error) {
	return u.update(id, platform, func(v *model.PostVariant) {
		v.Media = append([]string(nil), media...)
	})
}

func (u *postUsecase) SetOptions(id string, platform model.Platform, opts model.VariantOptions) (model.PostPackage, error) {
	return u.update(id, platform, func(v *model.PostVariant) {
		v.Options = opts
	})
}

func (u *postUsecase) Toggle(id string, platform model.Platform, enabled bool) (model.PostPackage, error) {
	return u.update(id, platform, func(v *model.PostVariant) {
		v.Enabled = enabled
	})
}

// BeginPublish is the irreversible draft -> posting transition. The guard,
// the eligibility check and the status flip all happen under the store lock,
// so a second concurrent publish request can never fan out the same variants
// again.
func (u *postUsecase) BeginPublish(id string) (model.PostPackage, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	pkg, ok := u.packages[id]
	if !ok {
		return model.PostPackage{}, model.NewPlatformError("", model.ErrNotFound, fmt.Sprintf("post package %s not found", id))
	}
	if pkg.Status == model.PackageStatusPosting {
		return model.PostPackage{}, model.NewPlatformError("", model.ErrValidationFailed, "publish already in progress")
	}
	eligible := false
	for _, v := range pkg.Variants {
		if v.Enabled && v.Status != model.PostStatusSuccess {
			eligible = true
			break
		}
	}
	if !eligible {
		return model.PostPackage{}, model.NewPlatformError("", model.ErrValidationFailed, "no enabled variants to publish")
	}
	next := pkg.Clone()
	next.Status = model.PackageStatusPosting
	u.packages[id] = next
	return next.Clone(), nil
}

// Replace installs a package mutated by the publish orchestrator.
func (u *postUsecase) Replace(pkg model.PostPackage) {
	u.mu.Lock()
	u.packages[pkg.ID] = pkg.Clone()
	u.mu.Unlock()
}

// ValidateVariant checks one variant against its descriptor. Rules in
// precedence order: content length, media count, then platform-specific
// required fields. Disabled variants are never validated.
func ValidateVariant(v model.PostVariant, d model.PlatformDescriptor) model.ValidationResult {
	res := model.ValidationResult{Platform: v.Platform, IsValid: true}
	if !v.Enabled {
		return res
	}
	if n := contentLength(v.Content); n > d.MaxContentLength {
		res.Errors = append(res.Errors, *model.NewPlatformError(v.Platform, model.ErrContentTooLong,
			fmt.Sprintf("content is %d characters, limit is %d", n, d.MaxContentLength)))
	}
	if len(v.Media) > d.MaxMediaItems {
		res.Errors = append(res.Errors, *model.NewPlatformError(v.Platform, model.ErrTooManyMedia,
			fmt.Sprintf("%d media items, limit is %d", len(v.Media), d.MaxMediaItems)))
	}
	for _, missing := range missingRequiredFields(v) {
		res.Errors = append(res.Errors, *model.NewPlatformError(v.Platform, model.ErrMissingRequiredField, missing))
	}
	res.IsValid = len(res.Errors) == 0
	return res
}

// contentLength counts UTF-16 code units, which is how the platforms meter
// their limits: code points above the BMP (emoji) count twice.
func contentLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// missingRequiredFields lists the per-platform mandatory inputs a variant
// still lacks.
func missingRequiredFields(v model.PostVariant) []string {
	var missing []string
	switch v.Platform {
	case model.PlatformPinterest:
		if v.Options.BoardID == "" {
			missing = append(missing, "board id is required")
		}
		if len(v.Media) == 0 {
			missing = append(missing, "an image is required")
		}
		if v.Options.Title == "" {
			missing = append(missing, "a pin title is required")
		}
	case model.PlatformInstagram:
		if len(v.Media) == 0 {
			missing = append(missing, "at least one media item is required")
		}
	case model.PlatformTikTok, model.PlatformYouTube:
		if v.Options.VideoURL == "" && len(v.Media) == 0 {
			missing = append(missing, "a video URL is required")
		}
	}
	return missing
}

// ValidatePackage validates every enabled variant, one result per platform.
func (u *postUsecase) ValidatePackage(pkg model.PostPackage) map[model.Platform]model.ValidationResult {
	out := make(map[model.Platform]model.ValidationResult, len(pkg.Variants))
	for p, v := range pkg.Variants {
		if !v.Enabled {
			continue
		}
		out[p] = ValidateVariant(v, model.Descriptor(p))
	}
	return out
}

package usecase_test

import (
	"strings"
	"testing"

	"social-flood/domain/model"
	"social-flood/usecase"

	"github.com/stretchr/testify/assert"
)

func TestPostUsecase_CreatePackage(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	assert.NotEmpty(t, pkg.ID)
	assert.Equal(t, "user-1", pkg.UserID)
	assert.Equal(t, model.PackageStatusDraft, pkg.Status)
	assert.Len(t, pkg.Variants, len(model.AvailablePlatforms()))
	for _, v := range pkg.Variants {
		assert.True(t, v.Enabled)
		assert.Empty(t, v.Content)
	}
	_, ok := pkg.Variants[model.PlatformFacebook]
	assert.False(t, ok, "unavailable platforms get no variant")
}

func TestPostUsecase_GetPackage_NotFound(t *testing.T) {
	u := usecase.NewPostUsecase()
	_, err := u.GetPackage("nope")
	assert.Error(t, err)
	assert.Equal(t, model.ErrNotFound, model.KindOf(err))
}

func TestPostUsecase_SetContentRoundTrip(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	updated, err := u.SetContent(pkg.ID, model.PlatformTwitter, "hello world")
	assert.NoError(t, err)
	assert.Equal(t, "hello world", updated.Variants[model.PlatformTwitter].Content)

	got, err := u.GetPackage(pkg.ID)
	assert.NoError(t, err)
	assert.Equal(t, "hello world", got.Variants[model.PlatformTwitter].Content)
}

func TestPostUsecase_UpdateUnknownPlatform(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	_, err := u.SetContent(pkg.ID, "myspace", "hi")
	assert.Error(t, err)
	assert.Equal(t, model.ErrValidationFailed, model.KindOf(err))
}

func TestPostUsecase_EditsBlockedWhilePosting(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	pkg.Status = model.PackageStatusPosting
	u.Replace(pkg)

	_, err := u.SetContent(pkg.ID, model.PlatformTwitter, "too late")
	assert.Error(t, err)
	assert.Equal(t, model.ErrValidationFailed, model.KindOf(err))
}

func TestPostUsecase_BeginPublish(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	started, err := u.BeginPublish(pkg.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.PackageStatusPosting, started.Status)

	// The stored package moved with it, so a second begin is rejected.
	_, err = u.BeginPublish(pkg.ID)
	assert.Error(t, err)
	assert.Equal(t, model.ErrValidationFailed, model.KindOf(err))

	_, err = u.BeginPublish("nope")
	assert.Equal(t, model.ErrNotFound, model.KindOf(err))
}

func TestPostUsecase_BeginPublishNeedsCandidates(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")
	for _, p := range model.AvailablePlatforms() {
		var err error
		pkg, err = u.Toggle(pkg.ID, p, false)
		assert.NoError(t, err)
	}

	_, err := u.BeginPublish(pkg.ID)
	assert.Error(t, err)
	assert.Equal(t, model.ErrValidationFailed, model.KindOf(err))

	// The failed begin left the package a draft.
	got, err := u.GetPackage(pkg.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.PackageStatusDraft, got.Status)
}

func TestValidateVariant_ContentTooLong(t *testing.T) {
	// One character past the LinkedIn limit fails; exactly at the limit passes.
	v := model.PostVariant{
		Platform: model.PlatformLinkedIn,
		Enabled:  true,
		Content:  strings.Repeat("a", 3001),
	}
	res := usecase.ValidateVariant(v, model.Descriptor(model.PlatformLinkedIn))
	assert.False(t, res.IsValid)
	assert.Equal(t, model.ErrContentTooLong, res.Errors[0].Kind)

	v.Content = strings.Repeat("a", 3000)
	res = usecase.ValidateVariant(v, model.Descriptor(model.PlatformLinkedIn))
	assert.True(t, res.IsValid)
}

func TestValidateVariant_LengthCountsUTF16Units(t *testing.T) {
	// 280 multi-byte BMP characters are within the Twitter limit even though
	// the byte length is far larger.
	v := model.PostVariant{
		Platform: model.PlatformTwitter,
		Enabled:  true,
		Content:  strings.Repeat("ü", 280),
	}
	res := usecase.ValidateVariant(v, model.Descriptor(model.PlatformTwitter))
	assert.True(t, res.IsValid)

	// Emoji are astral code points and count as two units each, the way the
	// platforms meter them: 140 fit exactly, 141 go over.
	v.Content = strings.Repeat("😀", 140)
	res = usecase.ValidateVariant(v, model.Descriptor(model.PlatformTwitter))
	assert.True(t, res.IsValid)

	v.Content = strings.Repeat("😀", 141)
	res = usecase.ValidateVariant(v, model.Descriptor(model.PlatformTwitter))
	assert.False(t, res.IsValid)
	assert.Equal(t, model.ErrContentTooLong, res.Errors[0].Kind)
	assert.Contains(t, res.Errors[0].Message, "content is 282 characters")
}

func TestValidateVariant_TooManyMedia(t *testing.T) {
	v := model.PostVariant{
		Platform: model.PlatformTwitter,
		Enabled:  true,
		Content:  "ok",
		Media:    []string{"1.png", "2.png", "3.png", "4.png", "5.png"},
	}
	res := usecase.ValidateVariant(v, model.Descriptor(model.PlatformTwitter))
	assert.False(t, res.IsValid)
	assert.Equal(t, model.ErrTooManyMedia, res.Errors[0].Kind)
}

func TestValidateVariant_RequiredFields(t *testing.T) {
	pinterest := model.PostVariant{Platform: model.PlatformPinterest, Enabled: true, Content: "a pin"}
	res := usecase.ValidateVariant(pinterest, model.Descriptor(model.PlatformPinterest))
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 3) // board id, image, title
	for _, e := range res.Errors {
		assert.Equal(t, model.ErrMissingRequiredField, e.Kind)
	}

	instagram := model.PostVariant{Platform: model.PlatformInstagram, Enabled: true, Content: "caption"}
	res = usecase.ValidateVariant(instagram, model.Descriptor(model.PlatformInstagram))
	assert.False(t, res.IsValid)
	assert.Equal(t, model.ErrMissingRequiredField, res.Errors[0].Kind)

	tiktok := model.PostVariant{Platform: model.PlatformTikTok, Enabled: true, Content: "caption"}
	res = usecase.ValidateVariant(tiktok, model.Descriptor(model.PlatformTikTok))
	assert.False(t, res.IsValid)

	tiktok.Options.VideoURL = "https://cdn.example.com/v.mp4"
	res = usecase.ValidateVariant(tiktok, model.Descriptor(model.PlatformTikTok))
	assert.True(t, res.IsValid)
}

func TestValidateVariant_PrecedenceOrder(t *testing.T) {
	// All three rules broken at once: length first, media count second,
	// required fields last.
	v := model.PostVariant{
		Platform: model.PlatformPinterest,
		Enabled:  true,
		Content:  strings.Repeat("x", 501),
		Media:    []string{"1.png", "2.png"},
	}
	res := usecase.ValidateVariant(v, model.Descriptor(model.PlatformPinterest))
	assert.False(t, res.IsValid)
	assert.GreaterOrEqual(t, len(res.Errors), 3)
	assert.Equal(t, model.ErrContentTooLong, res.Errors[0].Kind)
	assert.Equal(t, model.ErrTooManyMedia, res.Errors[1].Kind)
	assert.Equal(t, model.ErrMissingRequiredField, res.Errors[2].Kind)
}

func TestValidateVariant_DisabledIsAlwaysValid(t *testing.T) {
	v := model.PostVariant{
		Platform: model.PlatformTwitter,
		Enabled:  false,
		Content:  strings.Repeat("x", 10000),
	}
	res := usecase.ValidateVariant(v, model.Descriptor(model.PlatformTwitter))
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
}

func TestPostUsecase_ValidatePackageSkipsDisabled(t *testing.T) {
	u := usecase.NewPostUsecase()
	pkg := u.CreatePackage("user-1")

	pkg, err := u.SetContent(pkg.ID, model.PlatformTwitter, strings.Repeat("x", 281))
	assert.NoError(t, err)
	pkg, err = u.Toggle(pkg.ID, model.PlatformPinterest, false)
	assert.NoError(t, err)

	results := u.ValidatePackage(pkg)
	_, ok := results[model.PlatformPinterest]
	assert.False(t, ok)
	assert.False(t, results[model.PlatformTwitter].IsValid)
}

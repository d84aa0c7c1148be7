package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"social-flood/domain/dto"
	"social-flood/domain/model"
	"social-flood/domain/repository"
	"social-flood/infrastructure/logger"
	"social-flood/infrastructure/pubsub"
)

// PublishBroadcaster receives live status updates during a fan-out. A nil
// variant signals a package-level transition.
type PublishBroadcaster func(pkg model.PostPackage, variant *model.PostVariant)

// IPublishUsecase fans a validated package out to every enabled, connected
// platform. Submissions run independently and concurrently; one platform's
// failure never cancels or delays the others.
type IPublishUsecase interface {
	Publish(ctx context.Context, packageID, userID string) (model.PostPackage, error)
	WithBroadcaster(b PublishBroadcaster) IPublishUsecase
}

type publishUsecase struct {
	posts       IPostUsecase
	publisher   repository.IPublisher
	events      pubsub.IOutcomeEvents
	topic       string
	broadcaster PublishBroadcaster
}

func NewPublishUsecase(posts IPostUsecase, publisher repository.IPublisher, events pubsub.IOutcomeEvents, topic string) IPublishUsecase {
	return &publishUsecase{posts: posts, publisher: publisher, events: events, topic: topic}
}

// WithBroadcaster attaches a live status listener (SSE hub).
func (u *publishUsecase) WithBroadcaster(b PublishBroadcaster) IPublishUsecase {
	u.broadcaster = b
	return u
}

func (u *publishUsecase) notify(pkg model.PostPackage, v *model.PostVariant) {
	if u.broadcaster != nil {
		u.broadcaster(pkg, v)
	}
}

func (u *publishUsecase) Publish(ctx context.Context, packageID, userID string) (model.PostPackage, error) {
	// The draft -> posting transition is taken inside the store lock, so of
	// two concurrent publish requests exactly one proceeds past this point.
	pkg, err := u.posts.BeginPublish(packageID)
	if err != nil {
		return model.PostPackage{}, err
	}

	// Candidates are the enabled variants that have not already succeeded:
	// re-publishing a partial package resubmits only the failed or newly
	// enabled ones, and an already-successful variant is never sent twice.
	var candidates []model.Platform
	for p, v := range pkg.Variants {
		if v.Enabled && v.Status != model.PostStatusSuccess {
			candidates = append(candidates, p)
		}
	}

	// Validation pass: invalid variants go pending -> failed without ever
	// being submitted, and without holding back their siblings.
	var submit []model.Platform
	for _, p := range candidates {
		v := pkg.Variants[p]
		res := ValidateVariant(v, model.Descriptor(p))
		if res.IsValid {
			v.Status = model.PostStatusPending
		} else {
			v.Status = model.PostStatusFailed
			v.Error = joinValidationErrors(res)
		}
		pkg.Variants[p] = v
		if res.IsValid {
			submit = append(submit, p)
		}
	}

	u.posts.Replace(pkg)
	u.notify(pkg, nil)
	for _, p := range candidates {
		v := pkg.Variants[p]
		if v.Status == model.PostStatusFailed {
			u.notify(pkg, &v)
		}
	}

	// Fan-out: one goroutine per valid variant, all-complete join. Outcomes
	// are attached to the variant, never returned as the call's error.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, p := range submit {
		v := pkg.Variants[p]
		v.Status = model.PostStatusPosting
		pkg.Variants[p] = v
		u.notify(pkg, &v)

		wg.Add(1)
		go func(p model.Platform, v model.PostVariant) {
			defer wg.Done()
			req := BuildPostRequest(v, userID)
			resp, err := u.publisher.PublishPost(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				v.Status = model.PostStatusFailed
				v.Error = asPlatformError(p, err).Error()
				logger.GetLogger().
					WithField("package_id", pkg.ID).
					WithField("platform", p).
					WithField("error", v.Error).
					Warn("platform publish failed")
			} else {
				v.Status = model.PostStatusSuccess
				v.Error = ""
				logger.GetLogger().
					WithField("package_id", pkg.ID).
					WithField("platform", p).
					WithField("post_id", resp.PostID).
					Info("platform publish succeeded")
			}
			pkg.Variants[p] = v
			u.notify(pkg, &v)
		}(p, v)
	}
	wg.Wait()

	pkg.Status = model.DerivePackageStatus(pkg)
	u.posts.Replace(pkg)
	u.notify(pkg, nil)
	u.emitOutcome(ctx, pkg)
	return pkg, nil
}

// emitOutcome publishes the terminal package state to the outcome topic when
// one is configured.
func (u *publishUsecase) emitOutcome(ctx context.Context, pkg model.PostPackage) {
	if u.events == nil || u.topic == "" {
		return
	}
	statuses := make(map[model.Platform]model.PostStatus, len(pkg.Variants))
	for p, v := range pkg.Variants {
		if v.Enabled {
			statuses[p] = v.Status
		}
	}
	payload, err := json.Marshal(map[string]interface{}{
		"package_id": pkg.ID,
		"user_id":    pkg.UserID,
		"status":     pkg.Status,
		"variants":   statuses,
	})
	if err != nil {
		return
	}
	if _, err := u.events.Publish(ctx, u.topic, payload); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed to publish outcome event")
	}
}

func joinValidationErrors(res model.ValidationResult) string {
	msgs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// BuildPostRequest converts a variant into the remote API's tagged union,
// choosing the payload shape by platform at the boundary.
func BuildPostRequest(v model.PostVariant, userID string) dto.PlatformPostRequest {
	req := dto.PlatformPostRequest{Platform: v.Platform}
	switch v.Platform {
	case model.PlatformTwitter:
		req.Twitter = &dto.TwitterPostRequest{Text: v.Content, Images: v.Media}
	case model.PlatformLinkedIn:
		req.LinkedIn = &dto.LinkedInPostRequest{
			Text:         v.Content,
			Images:       v.Media,
			ArticleURL:   v.Options.ArticleURL,
			ArticleTitle: v.Options.ArticleTitle,
		}
	case model.PlatformBluesky:
		req.Bluesky = &dto.BlueskyPostRequest{
			Text:            v.Content,
			LinkURL:         v.Options.LinkURL,
			LinkTitle:       v.Options.LinkTitle,
			LinkDescription: v.Options.LinkDescription,
		}
	case model.PlatformTikTok:
		videoURL := v.Options.VideoURL
		if videoURL == "" && len(v.Media) > 0 {
			videoURL = v.Media[0]
		}
		req.TikTok = &dto.TikTokPostRequest{
			VideoURL:      videoURL,
			Caption:       v.Content,
			PrivacyLevel:  v.Options.PrivacyLevel,
			AllowComments: v.Options.AllowComments,
		}
	case model.PlatformPinterest:
		imageURL := ""
		if len(v.Media) > 0 {
			imageURL = v.Media[0]
		}
		req.Pinterest = &dto.PinterestPostRequest{
			BoardID:     v.Options.BoardID,
			ImageURL:    imageURL,
			Title:       v.Options.Title,
			Description: v.Content,
			Link:        v.Options.Link,
		}
	case model.PlatformInstagram:
		req.Instagram = &dto.InstagramPostRequest{
			UserID:    userID,
			MediaURLs: v.Media,
			Caption:   v.Content,
			Location:  v.Options.Location,
		}
	case model.PlatformYouTube:
		videoURL := v.Options.VideoURL
		if videoURL == "" && len(v.Media) > 0 {
			videoURL = v.Media[0]
		}
		req.YouTube = &dto.YouTubePostRequest{
			VideoURL:    videoURL,
			Title:       v.Options.Title,
			Description: v.Content,
		}
	}
	return req
}

package http

import (
	"context"
	"net/http"

	"social-flood/domain/model"
	"social-flood/infrastructure/clients/socialapi"
	"social-flood/infrastructure/logger"
	"social-flood/usecase"

	"github.com/gin-gonic/gin"
)

type IPostHandler interface {
	CreatePackage(ctx *gin.Context)
	GetPackage(ctx *gin.Context)
	UpdatePackage(ctx *gin.Context)
	ValidatePackage(ctx *gin.Context)
	Publish(ctx *gin.Context)
}

type PostHandler struct {
	postUsecase    usecase.IPostUsecase
	publishUsecase usecase.IPublishUsecase
	cookieName     string
}

func NewPostHandler(postUsecase usecase.IPostUsecase, publishUsecase usecase.IPublishUsecase, cookieName string) IPostHandler {
	return &PostHandler{
		postUsecase:    postUsecase,
		publishUsecase: publishUsecase,
		cookieName:     cookieName,
	}
}

func (h *PostHandler) requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie != "" {
		ctx = socialapi.WithSessionCookie(ctx, cookie)
	}
	return ctx
}

func (h *PostHandler) CreatePackage(c *gin.Context) {
	userID := c.GetString("user_id")
	pkg := h.postUsecase.CreatePackage(userID)
	c.JSON(http.StatusCreated, pkg)
}

func (h *PostHandler) GetPackage(c *gin.Context) {
	pkg, err := h.postUsecase.GetPackage(c.Param("packageId"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// updatePackageRequest is one edit to a single variant. Pointer fields
// distinguish "not sent" from zero values.
type updatePackageRequest struct {
	Platform model.Platform        `json:"platform" binding:"required"`
	Content  *string               `json:"content,omitempty"`
	Media    *[]string             `json:"media,omitempty"`
	Options  *model.VariantOptions `json:"options,omitempty"`
	Enabled  *bool                 `json:"enabled,omitempty"`
}

func (h *PostHandler) UpdatePackage(c *gin.Context) {
	packageID := c.Param("packageId")
	var req updatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while unmarshal")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		pkg model.PostPackage
		err error
	)
	switch {
	case req.Content != nil:
		pkg, err = h.postUsecase.SetContent(packageID, req.Platform, *req.Content)
	case req.Media != nil:
		pkg, err = h.postUsecase.SetMedia(packageID, req.Platform, *req.Media)
	case req.Options != nil:
		pkg, err = h.postUsecase.SetOptions(packageID, req.Platform, *req.Options)
	case req.Enabled != nil:
		pkg, err = h.postUsecase.Toggle(packageID, req.Platform, *req.Enabled)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pkg)
}

// ValidatePackage reports per-platform validation results without touching
// any variant status.
func (h *PostHandler) ValidatePackage(c *gin.Context) {
	pkg, err := h.postUsecase.GetPackage(c.Param("packageId"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"package_id": pkg.ID, "results": h.postUsecase.ValidatePackage(pkg)})
}

// Publish fans the package out and blocks until every variant reached a
// terminal state; live progress streams over the SSE hub.
func (h *PostHandler) Publish(c *gin.Context) {
	packageID := c.Param("packageId")
	userID := c.GetString("user_id")
	pkg, err := h.publishUsecase.Publish(h.requestContext(c), packageID, userID)
	if err != nil {
		logger.GetLogger().WithField("package_id", packageID).WithField("error", err.Error()).Warn("publish request failed")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pkg)
}

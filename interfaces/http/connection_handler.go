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

type IConnectionHandler interface {
	GetConnections(ctx *gin.Context)
	GetPlatforms(ctx *gin.Context)
	BeginConnect(ctx *gin.Context)
	Disconnect(ctx *gin.Context)
	RefreshConnection(ctx *gin.Context)
	ConnectionDetails(ctx *gin.Context)
	Reconcile(ctx *gin.Context)
}

type ConnectionHandler struct {
	connectionUsecase usecase.IConnectionUsecase
	oauthUsecase      usecase.IOAuthUsecase
	cookieName        string
}

func NewConnectionHandler(connectionUsecase usecase.IConnectionUsecase, oauthUsecase usecase.IOAuthUsecase, cookieName string) IConnectionHandler {
	return &ConnectionHandler{
		connectionUsecase: connectionUsecase,
		oauthUsecase:      oauthUsecase,
		cookieName:        cookieName,
	}
}

// requestContext forwards the caller's session cookie to the remote API.
func (h *ConnectionHandler) requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie != "" {
		ctx = socialapi.WithSessionCookie(ctx, cookie)
	}
	return ctx
}

// statusForError maps a classified error to an HTTP status.
func statusForError(err error) int {
	switch model.KindOf(err) {
	case model.ErrUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrNotFound:
		return http.StatusNotFound
	case model.ErrValidationFailed, model.ErrContentTooLong, model.ErrTooManyMedia, model.ErrMissingRequiredField:
		return http.StatusBadRequest
	case model.ErrExpired:
		return http.StatusGone
	case model.ErrNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// GetConnections re-aggregates connection state across every available
// platform and returns the per-platform snapshots.
func (h *ConnectionHandler) GetConnections(c *gin.Context) {
	userID := c.GetString("user_id")
	snaps, err := h.connectionUsecase.Refresh(h.requestContext(c), nil, userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshots":    snaps,
		"active_count": h.connectionUsecase.ActiveCount(),
	})
}

// GetPlatforms returns the registry: available and coming-soon platforms
// with their limits.
func (h *ConnectionHandler) GetPlatforms(c *gin.Context) {
	available := make([]model.PlatformDescriptor, 0, 8)
	for _, p := range model.AvailablePlatforms() {
		available = append(available, model.Descriptor(p))
	}
	comingSoon := make([]model.PlatformDescriptor, 0, 2)
	for _, p := range model.ComingSoonPlatforms() {
		comingSoon = append(comingSoon, model.Descriptor(p))
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "coming_soon": comingSoon})
}

// BeginConnect returns the authorization URL the client opens in a popup.
func (h *ConnectionHandler) BeginConnect(c *gin.Context) {
	platform := model.Platform(c.Param("platform"))
	userID := c.GetString("user_id")
	res, err := h.oauthUsecase.BeginConnect(h.requestContext(c), platform, userID)
	if err != nil {
		logger.GetLogger().WithField("platform", platform).WithField("error", err.Error()).Warn("begin connect failed")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	connectionID := c.Param("connectionId")
	if err := h.connectionUsecase.Disconnect(h.requestContext(c), connectionID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true, "connection_id": connectionID})
}

func (h *ConnectionHandler) RefreshConnection(c *gin.Context) {
	connectionID := c.Param("connectionId")
	conn, err := h.connectionUsecase.RefreshOne(h.requestContext(c), connectionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) ConnectionDetails(c *gin.Context) {
	connectionID := c.Param("connectionId")
	conn, err := h.connectionUsecase.Details(h.requestContext(c), connectionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conn)
}

// Reconcile re-runs aggregation after a popup flow; the client calls this on
// window focus or a user-initiated "I'm done".
func (h *ConnectionHandler) Reconcile(c *gin.Context) {
	userID := c.GetString("user_id")
	snaps, err := h.oauthUsecase.Reconcile(h.requestContext(c), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-flood/domain/model"
	"social-flood/domain/repository"
	"social-flood/infrastructure/cache"
	"social-flood/infrastructure/clients/socialapi"
	"social-flood/infrastructure/configuration"
	"social-flood/infrastructure/logger"
	"social-flood/infrastructure/pubsub"
	"social-flood/infrastructure/realtime"
	httpHandler "social-flood/interfaces/http"
	"social-flood/server"
	"social-flood/usecase"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	apiClient := socialapi.NewClient(socialapi.Config{
		BaseURL:       configuration.C.SocialAPI.BaseURL,
		CookieName:    configuration.C.SocialAPI.CookieName,
		SessionCookie: configuration.C.SocialAPI.SessionCookie,
		Timeout:       time.Duration(configuration.C.SocialAPI.TimeoutSec) * time.Second,
	})
	logger.GetLogger().WithField("base_url", configuration.C.SocialAPI.BaseURL).Info("Social API client initialized")

	// Redis-backed pending-connect state; fall back to memory when absent.
	var connectState repository.IConnectState
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - using in-memory connect state")
		connectState = cache.NewMemoryConnectState()
	} else {
		connectState = cache.NewConnectState(redisClient)
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	// Optional outcome events over Pub/Sub; nil client degrades to a no-op.
	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without outcome events")
		pubSubClient = nil
	}
	outcomeEvents := pubsub.NewOutcomeEvents(pubSubClient)

	connectionUsecase := usecase.NewConnectionUsecase(apiClient)
	postUsecase := usecase.NewPostUsecase()
	oauthUsecase := usecase.NewOAuthUsecase(apiClient, connectionUsecase, connectState, directOAuthConfigs())

	publishHub := realtime.NewPublishHub()
	publishUsecase := usecase.NewPublishUsecase(postUsecase, apiClient, outcomeEvents, configuration.C.Pubsub.OutcomeTopic).
		WithBroadcaster(func(pkg model.PostPackage, variant *model.PostVariant) {
			evt := realtime.PublishStatusEvent{Type: "publish_status", PackageID: pkg.ID, PackageStatus: pkg.Status}
			if variant != nil {
				evt.Platform = variant.Platform
				evt.Status = variant.Status
				evt.Error = variant.Error
			}
			publishHub.BroadcastPublishStatus(pkg.UserID, evt)
		})

	connectionHandler := httpHandler.NewConnectionHandler(connectionUsecase, oauthUsecase, configuration.C.SocialAPI.CookieName)
	postHandler := httpHandler.NewPostHandler(postUsecase, publishUsecase, configuration.C.SocialAPI.CookieName)

	router := server.InitiateRouter(connectionHandler, postHandler, app.SecretKey, func(c *gin.Context) { publishHub.Serve(c) })

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// directOAuthConfigs builds authorize-URL configs for platforms whose client
// credentials are configured locally instead of behind the remote connect
// endpoint.
func directOAuthConfigs() map[model.Platform]*oauth2.Config {
	out := map[model.Platform]*oauth2.Config{}
	ig := configuration.C.OAuth.Instagram
	if ig.ClientID != "" && ig.AuthURL != "" {
		out[model.PlatformInstagram] = &oauth2.Config{
			ClientID:     ig.ClientID,
			ClientSecret: ig.ClientSecret,
			RedirectURL:  ig.RedirectURI,
			Scopes:       ig.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  ig.AuthURL,
				TokenURL: ig.TokenURL,
			},
		}
	}
	return out
}

package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-lists/internal/config"
	"github.com/adanyl0v/go-todo-lists/internal/delivery/http/web"
	"github.com/adanyl0v/go-todo-lists/internal/services"
)

// Version is reported by the health check. Set it with -ldflags "-X".
var Version = "dev"

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	err := router.SetTrustedProxies(httpCfg.TrustedProxies)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Strs("trusted_proxies", httpCfg.TrustedProxies).
			Msg("failed to set trusted proxies")
		panic(err)
	}
	router.Use(newAccessLogMiddleware(globalLogger))
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(web.Templates())
	mustRegisterRoutes(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:      router,
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT.
	// SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustRegisterRoutes(router gin.IRouter) {
	cfg := config.Global()

	hasher, err := services.NewPasswordHasher(cfg.Password.Hasher)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("hasher", cfg.Password.Hasher).
			Msg("failed to create password hasher")
		panic(err)
	}

	userService := services.NewUserService(globalLogger, globalPostgresPool)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		userService,
		sessionService,
		hasher,
		cfg.Session.Issuer,
		[]byte(cfg.Session.SigningKey),
		cfg.Session.TTL,
	)
	listService := services.NewListService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)

	options := web.Options{
		Env:          cfg.Env,
		Version:      Version,
		SecureCookie: cfg.Session.SecureCookie,
		CookieSecret: []byte(cfg.Session.CookieSecret),
	}
	if cfg.RateLimit.Enabled {
		options.RateLimiter = web.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	handler := web.New(
		globalLogger,
		authService,
		listService,
		taskService,
		globalPostgresPool,
		options,
	)
	web.RegisterRoutes(router, handler)
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"github.com/hippo-protocol/hippo-protocol/did"
)

// registered with the default prometheus registry once per process
var metricsMiddleware = echoprometheus.NewMiddleware("hippo")

type Server struct {
	echo     *echo.Echo
	httpd    *http.Server
	logger   *slog.Logger
	resolver did.Resolver
}

type Config struct {
	Logger   *slog.Logger
	Bind     string
	Resolver did.Resolver
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	resolver := config.Resolver
	if resolver == nil {
		resolver = did.DefaultResolver()
	}

	e := echo.New()

	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)

	srv := &Server{
		echo:     e,
		logger:   logger,
		resolver: resolver,
	}
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	e.HideBanner = true
	e.HidePort = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("4M"))
	e.Use(metricsMiddleware)
	e.HTTPErrorHandler = srv.errorHandler
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000, // 365 days
	}))

	e.GET("/_health", srv.HandleHealthCheck)

	v1 := e.Group("/v1")
	v1.POST("/keypair", srv.HandleCreateKeyPair)
	v1.POST("/did/encode", srv.HandleKeyToDID)
	v1.POST("/did/decode", srv.HandleDIDToKey)
	v1.GET("/did/resolve", srv.HandleResolveDID)
	v1.POST("/encrypt", srv.HandleEncrypt)
	v1.POST("/decrypt", srv.HandleDecrypt)
	v1.POST("/aes/encrypt", srv.HandleEncryptAES)
	v1.POST("/aes/decrypt", srv.HandleDecryptAES)
	v1.POST("/sign", srv.HandleSign)
	v1.POST("/verify", srv.HandleVerify)
	v1.POST("/sha256", srv.HandleSha256)
	v1.POST("/ecdh", srv.HandleECDH)
	v1.POST("/pedersen/commit", srv.HandlePedersenCommit)
	v1.POST("/pedersen/reveal", srv.HandlePedersenReveal)

	return srv, nil
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

// Runs the HTTP server until SIGINT or SIGTERM, then shuts down gracefully.
func (srv *Server) RunAPI() error {
	srv.logger.Info("starting server", "bind", srv.httpd.Addr)
	errc := make(chan error, 1)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Error("HTTP server shutting down unexpectedly", "err", err)
			errc <- err
		}
	}()

	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(exitSignals)

	select {
	case sig := <-exitSignals:
		srv.logger.Info("received OS exit signal", "signal", sig)
	case err := <-errc:
		return err
	}

	if err := srv.Shutdown(); err != nil {
		srv.logger.Error("HTTP server shutdown error", "err", err)
		return err
	}
	srv.logger.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}

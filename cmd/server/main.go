package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jmolinera/go-session-center/auth"
	"github.com/jmolinera/go-session-center/cache"
	"github.com/jmolinera/go-session-center/identity"
	"github.com/jmolinera/go-session-center/idp"
	"github.com/jmolinera/go-session-center/internal/config"
	"github.com/jmolinera/go-session-center/registry/contracts"
	"github.com/jmolinera/go-session-center/registry/customers"
	"github.com/jmolinera/go-session-center/registry/products"
	"github.com/jmolinera/go-session-center/registry/roles"
	"github.com/jmolinera/go-session-center/resolve"
	"github.com/jmolinera/go-session-center/server"
	"github.com/jmolinera/go-session-center/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	displayAppname(cfg.AppName)

	handler, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildServer(cfg *config.Config, logger zerolog.Logger) (*server.Server, error) {
	timeout := cfg.RegistryCallTimeout()
	customerRegistry := customers.NewClient(cfg.CustomerRegistryURL, timeout)
	contractRegistry := contracts.NewClient(cfg.ContractRegistryURL, timeout)
	roleRegistry := roles.NewClient(cfg.RoleRegistryURL, timeout)
	productCatalog := products.NewClient(cfg.ProductCatalogURL, timeout)

	aggregator := resolve.NewSessionAggregator(
		resolve.NewCustomerResolver(customerRegistry, logger),
		resolve.NewContractResolver(contractRegistry, roleRegistry, productCatalog, logger),
	)

	manager, err := sessions.NewManager(sessions.Deps{
		Cache:      newCache(cfg),
		Aggregator: aggregator,
		Codec:      sessions.NewIDCodec([]byte(cfg.SessionSigningKey)),
	}, cfg.TTL(), sessions.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	adapter, err := idp.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(auth.Deps{
		IDP:      adapter,
		Mapper:   identity.NewMapper(customerRegistry, logger),
		Sessions: manager,
	}, auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return server.New(cfg, manager, authService, logger), nil
}

func newCache(cfg *config.Config) sessions.Cache {
	if strings.ToLower(cfg.CacheBackend) == "redis" {
		return cache.NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
	}
	return cache.NewMemory()
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) error {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

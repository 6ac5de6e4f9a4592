package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aicms/aicms-api/internal/config"
	"github.com/aicms/aicms-api/internal/domain"
	"github.com/aicms/aicms-api/internal/generation"
	"github.com/aicms/aicms-api/internal/platform/gemini"
	"github.com/aicms/aicms-api/internal/platform/google"
	"github.com/aicms/aicms-api/internal/platform/groq"
	"github.com/aicms/aicms-api/internal/platform/postgres"
	"github.com/aicms/aicms-api/internal/platform/rediscache"
	"github.com/aicms/aicms-api/internal/service"
	"github.com/aicms/aicms-api/internal/service/auth"
	"github.com/aicms/aicms-api/internal/store"
)

// googleVerifyTimeout bounds each call to Google's token endpoints.
const googleVerifyTimeout = 10 * time.Second

// application holds the shared dependencies so they can be torn down
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	templateStore store.TemplateStore
	generator     generation.Generator

	jwtService     auth.JWTService
	userService    service.UserService
	contentService service.ContentService
}

// newApplication wires stores, the generator and services on top of an open
// database. It also creates the bootstrap user when one is configured. The
// caller keeps ownership of db until Run is called.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	userStore := postgres.NewPostgresUserStore(db, logger)
	contentStore := postgres.NewPostgresContentStore(db, logger)
	app.templateStore, err = app.setupTemplateStore(ctx, postgres.NewPostgresTemplateStore(db, logger))
	if err != nil {
		return nil, err
	}

	app.generator, err = newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		app.closeRedis()
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized",
		slog.String("provider", app.generator.Provider()),
		slog.String("model", cfg.LLM.ModelName),
		slog.Int("max_retries", cfg.LLM.MaxRetries))

	verifier := google.NewVerifier(cfg.Auth.GoogleTokenInfoURL, cfg.Auth.GoogleUserInfoURL, cfg.Auth.GoogleClientID,
		googleVerifyTimeout, logger)

	app.userService, err = service.NewUserService(userStore, verifier, app.jwtService,
		domain.Role(cfg.Auth.DefaultRole), logger)
	if err != nil {
		app.closeRedis()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.contentService, err = service.NewContentService(app.templateStore, contentStore, app.generator, db, logger)
	if err != nil {
		app.closeRedis()
		return nil, fmt.Errorf("failed to create content service: %w", err)
	}

	if user, err := app.userService.EnsureBootstrapUser(ctx, cfg.Bootstrap); err != nil {
		app.closeRedis()
		return nil, fmt.Errorf("failed to ensure bootstrap user: %w", err)
	} else if user != nil {
		logger.Info("bootstrap user ready", slog.String("user_id", user.PublicID))
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupTemplateStore wraps templates with the Redis cache when a Redis URL
// is configured. The cached list is dropped at startup so migrations that
// change templates take effect immediately.
func (app *application) setupTemplateStore(ctx context.Context, templates store.TemplateStore) (store.TemplateStore, error) {
	if app.config.Cache.RedisURL == "" {
		return templates, nil
	}

	client, err := rediscache.Connect(ctx, app.config.Cache.RedisURL)
	if err != nil {
		return nil, err
	}
	app.redis = client

	cached := rediscache.NewCachedTemplateStore(templates, client, app.config.Cache.TemplateTTL(), app.logger)
	if err := cached.Invalidate(ctx); err != nil {
		app.logger.Warn("failed to clear cached template list", slog.String("error", err.Error()))
	}
	app.logger.Info("template cache enabled",
		slog.Int("ttl_seconds", app.config.Cache.TemplateTTLSeconds))
	return cached, nil
}

// newGenerator builds the configured provider wrapped with retries for
// transient failures.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	var (
		gen generation.Generator
		err error
	)
	switch cfg.Provider {
	case groq.ProviderName:
		gen, err = groq.NewClient(cfg, logger)
	case gemini.ProviderName:
		gen, err = gemini.NewGeminiGenerator(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return generation.NewRetryingGenerator(gen, cfg.MaxRetries, cfg.RetryDelay(), logger), nil
}

// Run serves HTTP until ctx is canceled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database pool and Redis client.
func (app *application) cleanup() {
	app.closeRedis()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}

func (app *application) closeRedis() {
	if app.redis == nil {
		return
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis client", slog.String("error", err.Error()))
	}
	app.redis = nil
}

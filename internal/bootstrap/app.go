package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/audit"
	"compliance-backend/internal/documents"
	"compliance-backend/internal/export"
	"compliance-backend/internal/llm"
	"compliance-backend/internal/llm/anthropic"
	"compliance-backend/internal/llm/gemini"
	"compliance-backend/internal/llm/openai"
	"compliance-backend/internal/recommendations"
	"compliance-backend/internal/services/health"
	"compliance-backend/internal/shared/config"
	"compliance-backend/internal/shared/server"
	"compliance-backend/internal/shared/server/middleware"
	"compliance-backend/internal/shared/storage/object"
	localstore "compliance-backend/internal/shared/storage/object/local"
	s3store "compliance-backend/internal/shared/storage/object/s3"
	"compliance-backend/internal/shared/telemetry"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// App holds shared dependencies.
type App struct {
	Config                 config.Config
	Router                 *gin.Engine
	Store                  object.ObjectStore
	Templates              documents.Templates
	Health                 *health.Service
	GenerationService      *recommendations.Service
	Orchestrator           *export.Orchestrator
	ScoresHandler          *audit.Handler
	RecommendationsHandler *recommendations.Handler
	ExportHandler          *export.Handler
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.Configure(cfg.LogLevel)

	templates, err := documents.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load document templates: %w", err)
	}

	var store object.ObjectStore
	if cfg.ArchiveExports {
		store, err = buildStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:    cfg,
		Store:     store,
		Templates: templates,
	}
	buildServices(app)
	app.Health = buildHealth(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:                 cfg,
		Health:                 app.Health,
		ScoresHandler:          app.ScoresHandler,
		RecommendationsHandler: app.RecommendationsHandler,
		ExportHandler:          app.ExportHandler,
		Limiter:                middleware.NewRateLimiter(nil),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":         cfg.Env,
		"provider":    cfg.LLMProvider,
		"model":       cfg.ModelFor(cfg.LLMProvider),
		"templates":   templates.Types(),
		"archive":     cfg.ArchiveExports,
		"objectStore": cfg.ObjectStoreType,
	})
	return app, nil
}

func buildServices(app *App) {
	cfg := app.Config
	app.GenerationService = &recommendations.Service{
		Clients:         ClientFactory(cfg),
		DefaultProvider: cfg.LLMProvider,
		Retry: recommendations.RetryPolicy{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.InitialDelay,
		},
		Timeout: cfg.GenerationTimeout,
	}
	app.Orchestrator = &export.Orchestrator{
		Templates: app.Templates,
		Brand:     cfg.Brand,
		Store:     app.Store,
		Archive:   cfg.ArchiveExports,
	}
	app.ScoresHandler = audit.NewHandler()
	app.RecommendationsHandler = recommendations.NewHandler(app.GenerationService)
	app.ExportHandler = export.NewHandler(app.Orchestrator)
}

// ClientFactory resolves providers lazily so a missing credential surfaces as
// a configuration error on the request that needs it.
func ClientFactory(cfg config.Config) recommendations.ClientFactory {
	return func(ctx context.Context, provider string) (llm.Client, error) {
		var (
			client llm.Client
			err    error
		)
		switch strings.ToLower(strings.TrimSpace(provider)) {
		case "anthropic":
			client, err = unwrap(anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout))
		case "openai":
			client, err = unwrap(openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout))
		case "gemini":
			client, err = unwrap(gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout))
		default:
			err = llm.MissingConfig(provider, "LLM_PROVIDER")
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// unwrap keeps a failed constructor's typed nil out of the interface.
func unwrap[C llm.Client](c C, err error) (llm.Client, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Config{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildHealth(app *App) *health.Service {
	svc := health.NewService(Version)
	svc.Register("templates", func(ctx context.Context) error {
		if len(app.Templates) == 0 {
			return documents.ErrNoTemplates
		}
		return nil
	})
	if app.Store != nil && app.Config.ObjectStoreType == "local" {
		dir := app.Config.LocalStoreDir
		svc.Register("objectStore", func(ctx context.Context) error {
			info, err := os.Stat(filepath.Clean(dir))
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}
			return nil
		})
	}
	svc.SetInfo("defaultProvider", app.Config.LLMProvider)
	svc.SetInfo("providers", map[string]bool{
		"anthropic": app.Config.AnthropicAPIKey != "",
		"openai":    app.Config.OpenAIAPIKey != "",
		"gemini":    app.Config.GeminiAPIKey != "",
	})
	svc.SetInfo("archive", app.Config.ArchiveExports)
	return svc
}

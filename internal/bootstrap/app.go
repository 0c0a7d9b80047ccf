package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"docmanager-backend/internal/account"
	"docmanager-backend/internal/documents"
	"docmanager-backend/internal/ingestions"
	"docmanager-backend/internal/services/health"
	"docmanager-backend/internal/shared/auth"
	"docmanager-backend/internal/shared/config"
	"docmanager-backend/internal/shared/server"
	"docmanager-backend/internal/shared/server/middleware"
	"docmanager-backend/internal/shared/storage/db"
	"docmanager-backend/internal/shared/storage/object"
	localstore "docmanager-backend/internal/shared/storage/object/local"
	miniostore "docmanager-backend/internal/shared/storage/object/minio"
	s3store "docmanager-backend/internal/shared/storage/object/s3"
	"docmanager-backend/internal/shared/telemetry"
	"docmanager-backend/internal/users"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Tokens            *auth.Tokens
	UsersRepo         users.Repo
	DocumentsRepo     documents.Repo
	IngestionsRepo    ingestions.Repo
	UsersService      *users.Service
	AccountService    *account.Service
	DocumentsService  *documents.Service
	IngestionsService *ingestions.Service
}

// Build prepares dependencies and routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	tokens, err := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: tokens,
	}
	buildServices(app)

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Tokens:           tokens,
		Health:           health.NewService(pinger),
		AccountHandler:   account.NewHandler(app.AccountService),
		UserHandler:      users.NewHandler(app.UsersService),
		DocumentHandler:  documents.NewHandler(app.DocumentsService, cfg.MaxUploadBytes),
		IngestionHandler: ingestions.NewHandler(app.IngestionsService),
		RateLimiter:      middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "minio":
		store, err := miniostore.New(miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("minio bucket: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var (
		userRepo      users.Repo
		docRepo       documents.Repo
		ingestionRepo ingestions.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		ingestionRepo = &ingestions.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		docRepo = documents.NewMemoryRepo()
		ingestionRepo = ingestions.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo, auth.NewPasswordHasher(app.Config.BcryptCost))

	app.UsersRepo = userRepo
	app.DocumentsRepo = docRepo
	app.IngestionsRepo = ingestionRepo
	app.UsersService = userSvc
	app.AccountService = account.NewService(userSvc, app.Tokens)
	app.DocumentsService = documents.NewService(app.Store, docRepo, userSvc)
	app.IngestionsService = ingestions.NewService(ingestionRepo)
}

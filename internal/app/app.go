package app

import (
	"context"
	"fmt"
	"time"

	"github.com/markdave123-py/Coursely/internal/api/handlers"
	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/assistant"
	db "github.com/markdave123-py/Coursely/internal/core/database"
	"github.com/markdave123-py/Coursely/internal/core/drive"
	"github.com/markdave123-py/Coursely/internal/core/extraction"
	"github.com/markdave123-py/Coursely/internal/core/lesson"
	"github.com/markdave123-py/Coursely/internal/core/llm"
	objectclient "github.com/markdave123-py/Coursely/internal/core/object-client"
	"github.com/markdave123-py/Coursely/internal/core/regenlock"
	"github.com/markdave123-py/Coursely/internal/core/sheets"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/services"
)

type App struct {
	Config   *config.Config
	Log      *logger.Logger
	DBClient *db.DatabaseClient

	Content   *services.ContentService
	Assistant *services.AssistantService
	Courses   *services.CourseService
	Progress  *services.ProgressService
	Server    *Server

	closers []func() error
}

// NewApp builds every dependency once and wires the HTTP server.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	a := &App{Config: cfg, Log: log}

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBClient = dbClient
	a.closers = append(a.closers, dbClient.Close)
	log.Info("database initialized and ready")

	storage, err := a.newStorage(appCtx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var driveClient core.DriveClient
	if dc, err := drive.NewClient(appCtx, cfg); err != nil {
		log.Warn("drive client disabled", "error", err)
	} else {
		driveClient = dc
	}

	provider, err := llm.NewProvider(appCtx, cfg, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("couldn't initialize the llm provider: %w", err)
	}

	var lock regenlock.Locker = regenlock.Noop{}
	if cfg.RedisAddr != "" {
		rl, err := regenlock.NewRedis(appCtx, cfg.RedisAddr, cfg.RegenLockTTL, log)
		if err != nil {
			log.Warn("redis regeneration lock disabled", "error", err)
		} else {
			lock = rl
			a.closers = append(a.closers, rl.Close)
		}
	}

	extractor := extraction.NewExtractor(driveClient, storage, extraction.Mode(cfg.DriveSniffMode), log)
	locator := services.NewLocator(dbClient)

	a.Content = services.NewContentService(locator, dbClient, extractor, lesson.NewGenerator(provider, log), lock, log).
		WithGenerationTimeout(cfg.GenerationTimeout)
	a.Assistant = services.NewAssistantService(locator, extractor, assistant.NewResponder(provider, log))
	a.Courses = services.NewCourseService(dbClient, log)
	a.Progress = services.NewProgressService(dbClient)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; test result submissions will be rejected")
	}

	a.Server = NewServer(cfg, log, Routes{
		Content:   handlers.NewContentHandler(a.Content, log),
		Assistant: handlers.NewAssistantHandler(a.Assistant, log),
		Courses:   handlers.NewCourseHandler(a.Courses, log),
		Progress:  handlers.NewProgressHandler(a.Progress, log),
	})
	return a, nil
}

// newStorage registers every object store that is configured. The default
// backend must come up; the other one is optional.
func (a *App) newStorage(ctx context.Context) (*objectclient.Router, error) {
	cfg := a.Config

	var s3Client, gcsClient core.ObjectClient
	if cfg.StorageBackend == objectclient.BackendS3 || cfg.AwsAccessKey != "" {
		c, err := objectclient.NewS3Client(ctx, cfg, a.Log)
		if err != nil && cfg.StorageBackend == objectclient.BackendS3 {
			return nil, err
		} else if err != nil {
			a.Log.Warn("s3 storage disabled", "error", err)
		} else {
			s3Client = c
		}
	}
	if cfg.StorageBackend == objectclient.BackendGCS || cfg.GCSBucketName != "" {
		c, err := objectclient.NewGCSClient(ctx, drive.GoogleOptions(cfg)...)
		if err != nil && cfg.StorageBackend == objectclient.BackendGCS {
			return nil, err
		} else if err != nil {
			a.Log.Warn("gcs storage disabled", "error", err)
		} else {
			gcsClient = c
			a.closers = append(a.closers, c.Close)
		}
	}

	return objectclient.NewRouter(s3Client, gcsClient, cfg.StorageBackend, cfg.BucketName, cfg.GCSBucketName), nil
}

// SheetSource opens the catalogue spreadsheet configured for sync-courses.
func SheetSource(ctx context.Context, cfg *config.Config) (*sheets.Client, error) {
	return sheets.NewClient(ctx, cfg.SheetID, drive.GoogleOptions(cfg)...)
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

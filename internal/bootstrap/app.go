// Package bootstrap builds the application dependency graph once and hands it
// to whichever entrypoint is running.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"hireflow-backend/internal/ai"
	aiopenai "hireflow-backend/internal/ai/openai"
	"hireflow-backend/internal/applications"
	"hireflow-backend/internal/audio"
	"hireflow-backend/internal/candidates"
	"hireflow-backend/internal/email"
	"hireflow-backend/internal/interview"
	"hireflow-backend/internal/jobs"
	"hireflow-backend/internal/orgs"
	"hireflow-backend/internal/shared/config"
	"hireflow-backend/internal/shared/server"
	"hireflow-backend/internal/shared/storage/db"
	"hireflow-backend/internal/shared/storage/object"
	localstore "hireflow-backend/internal/shared/storage/object/local"
	s3store "hireflow-backend/internal/shared/storage/object/s3"
)

// App holds the wired dependency graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	AI     ai.Client

	OrgsRepo         orgs.Repo
	JobsRepo         jobs.Repo
	CandidatesRepo   candidates.Repo
	ApplicationsRepo applications.Repo

	JobsService         *jobs.Service
	ApplicationsService *applications.Service
	Orchestrator        *interview.Orchestrator
	Sessions            *interview.SessionStore
	Email               email.Notifier
	Audio               *audio.Pipeline

	OrgHandler         *orgs.Handler
	JobHandler         *jobs.Handler
	ApplicationHandler *applications.Handler
	SocketHandler      *interview.SocketHandler
}

// Build prepares the full dependency graph and router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

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
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		OrgHandler:         app.OrgHandler,
		JobHandler:         app.JobHandler,
		ApplicationHandler: app.ApplicationHandler,
		SocketHandler:      app.SocketHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildAIClient(cfg config.Config) (ai.Client, error) {
	inner := ai.Client(ai.PlaceholderClient{})
	if cfg.AIProvider == "openai" {
		client, err := aiopenai.NewClient(aiopenai.Config{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			Model:           cfg.AIModel,
			TTSModel:        cfg.TTSModel,
			TTSVoice:        cfg.TTSVoice,
			TranscribeModel: cfg.TranscribeModel,
		})
		if err != nil {
			return nil, err
		}
		inner = client
	} else {
		log.Printf("bootstrap: AI_PROVIDER not set to openai; interview scoring uses fallback values")
	}
	return ai.FallbackClient{Inner: inner}, nil
}

func buildEmail(cfg config.Config) email.Notifier {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		log.Printf("bootstrap: SMTP_HOST empty; candidate emails disabled")
		return email.NoopNotifier{}
	}
	return email.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
}

func buildServices(app *App) error {
	var orgRepo orgs.Repo
	var jobRepo jobs.Repo
	var candRepo candidates.Repo
	var appRepo applications.Repo

	if app.DB != nil {
		orgRepo = &orgs.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		candRepo = &candidates.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
	} else {
		orgRepo = orgs.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		candRepo = candidates.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
	}

	aiClient, err := buildAIClient(app.Config)
	if err != nil {
		return err
	}
	notifier := buildEmail(app.Config)
	pipeline := audio.NewPipeline(app.Store, app.Config.FFmpegPath)

	jobSvc := &jobs.Service{Repo: jobRepo, AI: aiClient}
	appSvc := &applications.Service{
		Repo:       appRepo,
		Candidates: candRepo,
		Jobs:       jobRepo,
		Store:      app.Store,
		AI:         aiClient,
		Email:      notifier,
	}

	sessions := interview.NewSessionStore()
	orch := interview.NewOrchestrator(appRepo, jobRepo, candRepo, aiClient, pipeline, notifier, sessions)

	app.OrgsRepo = orgRepo
	app.JobsRepo = jobRepo
	app.CandidatesRepo = candRepo
	app.ApplicationsRepo = appRepo
	app.AI = aiClient
	app.Email = notifier
	app.Audio = pipeline
	app.JobsService = jobSvc
	app.ApplicationsService = appSvc
	app.Sessions = sessions
	app.Orchestrator = orch
	app.OrgHandler = orgs.NewHandler(orgRepo)
	app.JobHandler = jobs.NewHandler(jobSvc)
	app.ApplicationHandler = applications.NewHandler(appSvc)
	app.SocketHandler = interview.NewSocketHandler(orch, app.Config.CORSAllowOrigin)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

package bootstrap

import (
	"context"
	"database/sql"
	"log"

	"consent-backend/internal/analysis"
	"consent-backend/internal/consents"
	"consent-backend/internal/extract"
	"consent-backend/internal/extract/ocr"
	"consent-backend/internal/extract/pdftext"
	"consent-backend/internal/ingest"
	"consent-backend/internal/llm"
	"consent-backend/internal/llm/ollama"
	"consent-backend/internal/patients"
	"consent-backend/internal/query"
	"consent-backend/internal/sessions"
	"consent-backend/internal/shared/config"
	"consent-backend/internal/shared/storage/db"
	localstore "consent-backend/internal/shared/storage/object/local"
)

// App holds the wired application dependencies.
type App struct {
	DB       *sql.DB
	Store    *localstore.Store
	LLM      llm.ReasoningProvider
	Patients patients.Repo
	Consents consents.Repo
	Sessions *sessions.Service
	Resolver *patients.Resolver
	Ingest   *ingest.Service
	Query    *query.Service
	Mode     extract.Mode
}

// Build wires repositories, services, and providers from configuration.
// A missing or unreachable database falls back to in-memory repositories
// outside production.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			if cfg.Env == "production" {
				return nil, err
			}
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(ctx, conn); err != nil {
				if cfg.Env == "production" {
					conn.Close()
					return nil, err
				}
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				conn.Close()
				conn = nil
			}
			sqlDB = conn
		}
	} else if cfg.Env == "production" {
		log.Printf("DATABASE_URL unset; refusing in-memory storage in production")
	}

	var patientRepo patients.Repo
	var consentRepo consents.Repo
	var sessionRepo sessions.Repo
	if sqlDB != nil {
		patientRepo = &patients.PGRepo{DB: sqlDB}
		consentRepo = &consents.PGRepo{DB: sqlDB}
		sessionRepo = &sessions.PGRepo{DB: sqlDB}
	} else {
		patientRepo = patients.NewMemoryRepo()
		consentRepo = consents.NewMemoryRepo()
		sessionRepo = sessions.NewMemoryRepo()
	}

	var provider llm.ReasoningProvider
	client, err := ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel)
	if err != nil {
		log.Printf("reasoning provider unavailable, degrading: %v", err)
		provider = llm.Placeholder{}
	} else {
		provider = client
	}

	engine := ocr.NewEngine(cfg.OCRLanguage)
	extractor := &extract.Extractor{
		Layout:     pdftext.Provider{},
		Rasterizer: engine,
		OCR:        engine,
	}
	mode, err := extract.ParseMode(cfg.OCREngine)
	if err != nil {
		log.Printf("invalid OCR_ENGINE, using auto: %v", err)
		mode = extract.ModeAuto
	}

	resolver := &patients.Resolver{Repo: patientRepo}
	analyzer := &analysis.Analyzer{LLM: provider}

	return &App{
		DB:       sqlDB,
		Store:    localstore.New(cfg.UploadDir),
		LLM:      provider,
		Patients: patientRepo,
		Consents: consentRepo,
		Sessions: &sessions.Service{Repo: sessionRepo, Expiry: cfg.SessionExpiry},
		Resolver: resolver,
		Ingest: &ingest.Service{
			Extractor:     extractor,
			Analyzer:      analyzer,
			Resolver:      resolver,
			Consents:      consentRepo,
			Mode:          mode,
			MinTextLength: cfg.MinTextLength,
		},
		Query: &query.Service{LLM: provider},
		Mode:  mode,
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

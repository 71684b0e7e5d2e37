package main

import (
	"context"
	"log"

	"consent-backend/internal/bootstrap"
	"consent-backend/internal/ingest"
	"consent-backend/internal/query"
	"consent-backend/internal/sessions"
	"consent-backend/internal/shared/config"
	"consent-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	r := server.NewRouter(server.RouterDeps{
		Cfg:      cfg,
		Sessions: sessions.NewHandler(app.Sessions, app.Patients, app.Resolver),
		Query:    query.NewHandler(app.Query, app.Patients, app.Consents),
		Ingest:   ingest.NewHandler(app.Ingest, app.Store),
		Auth:     app.Sessions,
		LLM:      app.LLM,
	})

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

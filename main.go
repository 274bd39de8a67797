package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"sheetlens/adapters/excel"
	"sheetlens/adapters/insight"
	"sheetlens/adapters/memory"
	"sheetlens/adapters/postgres"
	"sheetlens/app"
	"sheetlens/internal/config"
	"sheetlens/internal/logx"
	"sheetlens/ports"
	"sheetlens/ui"
)

func main() {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logx.NewDefaultLogger()

	store, err := buildStore(cfg, logger)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	var remote ports.InsightGenerator
	if cfg.Insight.APIKey != "" {
		client, err := insight.NewOpenAIClient(cfg.Insight)
		if err != nil {
			log.Fatalf("insight client: %v", err)
		}
		remote = client
	} else {
		logger.Info("no OPENAI_API_KEY set, insights use the local fallback only")
	}

	analysisSvc := app.NewAnalysisService(logger)
	insightSvc := app.NewInsightService(remote, insight.NewHeuristicGenerator(), cfg.Insight.Timeout, logger)
	reader := excel.NewReader(logger)

	httpApp := ui.NewApp(ui.Config{
		Port:           cfg.Server.Port,
		MaxUploadBytes: cfg.Data.MaxUploadBytes,
	}, analysisSvc, insightSvc, store, reader, logger)

	if err := httpApp.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildStore picks the postgres store when DATABASE_URL is set, otherwise
// the in-memory store.
func buildStore(cfg *config.Config, logger *logx.Logger) (ports.DashboardStore, error) {
	if cfg.Database.URL == "" {
		logger.Info("no DATABASE_URL set, dashboards are stored in memory")
		return memory.NewDashboardStore(), nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		return nil, err
	}
	return postgres.NewDashboardStore(db), nil
}

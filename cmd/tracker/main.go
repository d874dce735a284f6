// Package main is the entry point for the study progress tracker. It wires
// the configured snapshot store to the query layer and prints the derived
// progress report; all logic lives in the domain and application packages.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/studyhub/study-progress-hub/config"
	"github.com/studyhub/study-progress-hub/internal/application/query"
	"github.com/studyhub/study-progress-hub/internal/domain/program"
	"github.com/studyhub/study-progress-hub/internal/domain/shared"
	"github.com/studyhub/study-progress-hub/internal/infrastructure/persistence/file"
	"github.com/studyhub/study-progress-hub/internal/infrastructure/persistence/postgres"
	"github.com/studyhub/study-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/studyhub/study-progress-hub/internal/sampledata"
	"github.com/studyhub/study-progress-hub/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := logger.ParseLevel(cfg.App.LogLevel)
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	log := logger.New(os.Stderr, level).With(logger.F("app", cfg.App.Name))

	ctx := context.Background()

	repo, cleanup, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// First run against the file store: seed the demo program.
	if store, ok := repo.(*file.Store); ok && !store.Exists() {
		demo, err := sampledata.BuildProgram()
		if err != nil {
			return err
		}
		if err := store.Save(ctx, demo); err != nil {
			return err
		}
		log.Info(ctx, "seeded demo snapshot", logger.F("path", store.Path()))
	}

	programName := cfg.App.ProgramName
	if programName == "" {
		programName = sampledata.ProgramName
	}
	var termEnds map[int]time.Time
	if programName == sampledata.ProgramName {
		termEnds = sampledata.TermEnds()
	}

	var cache query.ReportCache
	if cfg.Redis.Enabled {
		reportCache, err := redis.NewReportCache(ctx, redis.Config{URL: cfg.Redis.URL, TTL: cfg.Redis.TTL}, log)
		if err != nil {
			return err
		}
		defer reportCache.Close()
		cache = reportCache
	}

	var pace program.PacePolicy
	if !cfg.Alerts.PaceAlerts {
		pace = silentPace{}
	}

	handler := query.NewProgressReportHandler(repo, cache, pace, log)
	report, err := handler.Handle(ctx, query.ProgressReportQuery{
		ProgramName: programName,
		Now:         time.Now(),
		TermEnds:    termEnds,
	})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// openRepository picks the snapshot store per configuration.
func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (program.Repository, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		conn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		log.Info(ctx, "using postgres snapshot store")
		return postgres.NewProgramRepository(conn), conn.Close, nil
	default:
		store, err := file.NewStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "using file snapshot store", logger.F("path", store.Path()))
		return store, func() {}, nil
	}
}

// silentPace disables the pace-behind-goal heuristic.
type silentPace struct{}

func (silentPace) ExpectedCredits(shared.Credits, int, shared.TermNumber) float64 {
	return 0
}

func printReport(r *query.ProgressReport) {
	fmt.Printf("%s\n", r.ProgramName)
	fmt.Printf("  credits: %.1f earned / %.1f attempted / %.1f goal (%.1f%%)\n",
		r.CreditsEarned, r.CreditsAttempted, r.CreditGoal, r.ProgressRatio*100)
	if r.GPA != nil {
		fmt.Printf("  GPA: %.2f\n", *r.GPA)
	} else {
		fmt.Printf("  GPA: n/a\n")
	}
	for _, s := range r.Semesters {
		line := fmt.Sprintf("  semester %d [%s]: %.1f credits", s.Term, s.Status, s.CreditsEarned)
		if s.GPA != nil {
			line += fmt.Sprintf(", GPA %.2f", *s.GPA)
		}
		fmt.Println(line)
	}
	if len(r.CurrentModules) > 0 {
		fmt.Println("  currently taking:")
		for _, m := range r.CurrentModules {
			fmt.Printf("    - %s\n", m.Title)
		}
	}
	for _, a := range r.Alerts {
		fmt.Printf("  [%s] %s: %s\n", a.Severity, a.Kind, a.Message)
	}
}

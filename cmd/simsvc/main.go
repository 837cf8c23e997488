package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"matchsim/internal/config"
	"matchsim/internal/match"
	"matchsim/internal/storage/sqlite"
)

// envConfig covers settings that belong to the deployment rather than to
// any one match: where to archive results and how chatty the logs are.
type envConfig struct {
	DBPath   string `env:"SIMSVC_DB"`
	LogLevel string `env:"SIMSVC_LOG_LEVEL" envDefault:"info"`
	Workers  int    `env:"SIMSVC_WORKERS" envDefault:"8"`
}

func main() {
	var planPath, out string
	var seed int64
	var n int
	var maxWall time.Duration
	var maxMinutes, maxEvents int
	var saveLog bool
	flag.StringVar(&planPath, "plan", "assets/match.yaml", "match plan file")
	flag.StringVar(&out, "out", "out.json", "output file (single) or summary file (batch)")
	flag.Int64Var(&seed, "seed", 0, "seed override (0 keeps the plan's seed)")
	flag.IntVar(&n, "n", 1, "number of simulations")
	flag.DurationVar(&maxWall, "max-wall", 0, "wall clock budget override")
	flag.IntVar(&maxMinutes, "max-minutes", 0, "match minute budget override")
	flag.IntVar(&maxEvents, "max-events", 0, "event count budget override")
	flag.BoolVar(&saveLog, "log", true, "keep full event log when n==1")
	flag.Parse()

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(ec.LogLevel)

	plan, err := config.LoadPlan(planPath)
	if err != nil {
		logger.Error("load plan", "path", planPath, "err", err)
		os.Exit(1)
	}
	if seed != 0 {
		plan.Seed = seed
	}

	budget := match.DefaultBudget()
	if maxWall > 0 {
		budget.MaxWallClock = maxWall
	}
	if maxMinutes > 0 {
		budget.MaxMinutes = maxMinutes
	}
	if maxEvents > 0 {
		budget.MaxEvents = maxEvents
	}

	var store *sqlite.Store
	if ec.DBPath != "" {
		store, err = sqlite.Open(ec.DBPath)
		if err != nil {
			logger.Error("open archive", "path", ec.DBPath, "err", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if n <= 1 {
		runSingle(plan, budget, logger, store, out, saveLog)
		return
	}
	runBatch(plan, budget, logger, store, out, n, ec.Workers)
}

func runSingle(plan *config.MatchPlan, budget match.SimBudget, logger *slog.Logger, store *sqlite.Store, out string, saveLog bool) {
	res, err := match.Simulate(plan, budget, match.WithLogger(logger))
	if err != nil {
		logger.Error("simulate", "err", err)
		os.Exit(1)
	}
	if !saveLog {
		res.Events = nil
	}
	archive(logger, store, plan.Seed, res)

	if err := os.WriteFile(out, match.MarshalPretty(res), 0644); err != nil {
		logger.Error("write result", "path", out, "err", err)
		os.Exit(1)
	}
	status := "FT"
	if res.Partial {
		status = "partial: " + res.Reason
	}
	fmt.Printf("%s %d-%d %s (%s, %d min) -> %s\n",
		res.Home, res.Score[0], res.Score[1], res.Away, status, res.MinutesSimulated, out)
}

func runBatch(plan *config.MatchPlan, budget match.SimBudget, logger *slog.Logger, store *sqlite.Store, out string, n, workers int) {
	baseSeed := plan.Seed

	type stat struct {
		HomeWins  int
		Draws     int
		AwayWins  int
		Partial   int
		SumHome   int
		SumAway   int
		SumXGHome float64
		SumXGAway float64
	}
	var st stat
	var mu sync.Mutex
	if workers <= 0 {
		workers = 1
	}

	wg := sync.WaitGroup{}
	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				run := *plan
				run.Seed = baseSeed + int64(i)
				res, err := match.Simulate(&run, budget)
				if err != nil {
					logger.Error("simulate", "run", i, "err", err)
					continue
				}
				res.Events = nil
				archive(logger, store, run.Seed, res)

				mu.Lock()
				switch {
				case res.Score[0] > res.Score[1]:
					st.HomeWins++
				case res.Score[0] < res.Score[1]:
					st.AwayWins++
				default:
					st.Draws++
				}
				if res.Partial {
					st.Partial++
				}
				st.SumHome += res.Score[0]
				st.SumAway += res.Score[1]
				st.SumXGHome += res.Stats.XG[0]
				st.SumXGAway += res.Stats.XG[1]
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	fn := float64(n)
	summary := map[string]any{
		"runs":          n,
		"home":          plan.Home.Name,
		"away":          plan.Away.Name,
		"home_win_rate": float64(st.HomeWins) / fn,
		"draw_rate":     float64(st.Draws) / fn,
		"away_win_rate": float64(st.AwayWins) / fn,
		"partial_runs":  st.Partial,
		"avg_goals": map[string]float64{
			"home": float64(st.SumHome) / fn,
			"away": float64(st.SumAway) / fn,
		},
		"avg_xg": map[string]float64{
			"home": st.SumXGHome / fn,
			"away": st.SumXGAway / fn,
		},
	}
	if err := os.WriteFile(out, match.MarshalPretty(summary), 0644); err != nil {
		logger.Error("write summary", "path", out, "err", err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done -> %s\n", n, filepath.Base(out))
}

func archive(logger *slog.Logger, store *sqlite.Store, seed int64, res *match.Result) {
	if store == nil {
		return
	}
	id, err := store.SaveResult(context.Background(), seed, *res)
	if err != nil {
		logger.Error("archive result", "err", err)
		return
	}
	logger.Debug("result archived", "id", id, "seed", seed)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

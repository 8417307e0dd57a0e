package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/candidate-match/internal/server"
	"github.com/jonathan/candidate-match/internal/server/middleware"
	"github.com/jonathan/candidate-match/internal/server/ratelimit"
	"github.com/jonathan/candidate-match/internal/stats"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that scores quiz answers and serves aggregate match statistics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Flags().Changed("port") {
		appCfg.Server.Port = servePort
	}

	disclosureAt, _, err := appCfg.Stats.DisclosureTime()
	if err != nil {
		return err
	}

	var tokens middleware.TokenValidator
	if appCfg.Auth.JWTSecret != "" {
		jwtCfg, err := appCfg.Auth.JWT()
		if err != nil {
			return fmt.Errorf("invalid auth config: %w", err)
		}
		tokens = server.NewJWTService(jwtCfg).AsTokenValidator()
	} else {
		appLog.Info("no JWT secret configured, disclosed stats open only after the disclosure time")
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore(s)

	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("store is not reachable: %w", err)
	}

	router := stats.NewRouter(appCfg.Stats.Shards)
	recorder := stats.NewRecorder(s, router, stats.RecorderConfig{
		Workers:      appCfg.Stats.RecorderWorkers,
		QueueSize:    appCfg.Stats.RecorderQueue,
		WriteTimeout: appCfg.Stats.WriteTimeout,
	}, appLog.Named("recorder"))
	// Runs before closeStore so queued increments reach the store.
	defer recorder.Close()

	cache := stats.NewCache(s, router, appCfg.Stats.CacheTTL,
		stats.WithFetchTimeout(appCfg.Stats.FetchTimeout),
		stats.WithLogger(appLog.Named("stats")))

	limiter := ratelimit.NewLimiter(ratelimit.LoadConfig())
	defer limiter.Stop()

	srv := server.New(server.Config{
		Port:            appCfg.Server.Port,
		MaxAnswers:      appCfg.Server.MaxAnswers,
		TopK:            appCfg.Server.TopK,
		EmbeddingDim:    appCfg.Matching.EmbeddingDim,
		ReadTimeout:     appCfg.Server.ReadTimeout,
		WriteTimeout:    appCfg.Server.WriteTimeout,
		ShutdownTimeout: appCfg.Server.ShutdownTimeout,
		DisclosureAt:    disclosureAt,
	}, server.Deps{
		Catalog:  s,
		Stats:    cache,
		Recorder: recorder,
		Tokens:   tokens,
		Limiter:  limiter,
		Logger:   appLog.Named("server"),
	})

	appLog.Info("starting server",
		zap.Int("port", appCfg.Server.Port),
		zap.Int("shards", router.Shards()),
		zap.Bool("postgres", appCfg.Database.IsPostgres()))

	return srv.Start(ctx)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"roastcard/app/config"
	"roastcard/app/usecase"
	"roastcard/internal/domain/entity"
	"roastcard/internal/domain/repository"
	"roastcard/internal/infrastructure/llm"
	"roastcard/internal/infrastructure/logger"
	"roastcard/internal/infrastructure/logo"
	"roastcard/internal/infrastructure/metrics"
	"roastcard/internal/infrastructure/renderer"
	"roastcard/internal/infrastructure/store/filesystem"
	mongorepo "roastcard/internal/infrastructure/store/mongodb"
	"roastcard/internal/infrastructure/transport"
)

func main() {
	company := flag.String("company", "", "generate one card for this company and exit")
	role := flag.String("role", entity.DefaultRole, "role to roast (with -company)")
	outDir := flag.String("out", "", "output directory for -company (default OUTPUT_DIR)")
	roastOnly := flag.Bool("roast-only", false, "print the roast without rendering a card")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	// load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// logger
	logger := logger.New(logger.FromEnv(cfg.Log.Level, cfg.Log.Format))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM client
	gemini, err := llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}

	logos := logo.NewLogoDevClient(logo.Config{
		BaseURL:          cfg.Logo.BaseURL,
		Token:            cfg.Logo.Token,
		Size:             cfg.Logo.Size,
		Format:           cfg.Logo.Format,
		Theme:            cfg.Logo.Theme,
		PlaceholderBytes: cfg.Logo.PlaceholderBytes,
		Timeout:          cfg.Logo.Timeout,
	}, logger)

	rasterizer := renderer.NewChromeRasterizer(renderer.ChromeConfig{
		ExecPath:    cfg.Render.ChromePath,
		NoSandbox:   cfg.Render.NoSandbox,
		IdleTimeout: cfg.Render.IdleTimeout,
	}, logger)
	cardRenderer := renderer.NewCardRenderer(cfg.Render.TemplatePath, cfg.Render.MascotPath, rasterizer, logger)

	// Usage ledger (optional)
	var usage repository.UsageRepository
	var mongoClient *mongo.Client
	if cfg.Mongo.URI != "" {
		mongoClient, err = mongorepo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
		if err != nil {
			logger.Warn("usage ledger disabled", "err", err)
		} else {
			logger.Info("connected to mongo", "database", cfg.Mongo.Database)
			usage = mongorepo.NewMongoUsageRepo(mongoClient.Database(cfg.Mongo.Database))
		}
	}

	// Usecases / services
	roastSvc := usecase.NewRoastService(gemini, entity.GeminiProPricing, logger)
	cardSvc := usecase.NewCardService(logos, roastSvc, cardRenderer, usage, logger)

	if *company != "" {
		dir := *outDir
		if dir == "" {
			dir = cfg.Output.Dir
		}
		err := runOnce(ctx, cardSvc, *company, *role, dir, *roastOnly)
		disconnect(logger, mongoClient)
		if err != nil {
			logger.Error("generation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	// Transport (HTTP handlers)
	handler := transport.NewCardHandler(cardSvc, cfg.Server.RequestTimeout, logger)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "Authorization"}),
		handlers.ExposedHeaders([]string{"Content-Disposition", "X-Roast-Cost"}),
	)(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Server.MetricsAddr != "" {
		go func() {
			logger.Info("starting metrics server", "addr", cfg.Server.MetricsAddr)
			if err := metrics.StartMetricsServer(cfg.Server.MetricsAddr); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
	}

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "addr", addr, "model", gemini.ModelName())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	disconnect(logger, mongoClient)
	logger.Info("service stopped")
}

// runOnce is the command-line mode: one card written to dir.
func runOnce(ctx context.Context, cards *usecase.CardService, company, role, dir string, roastOnly bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if roastOnly {
		roast, err := cards.GenerateRoast(ctx, company, role)
		if err != nil {
			return err
		}
		fmt.Println(roast.Text)
		return nil
	}

	files, err := filesystem.NewCardRepository(dir)
	if err != nil {
		return err
	}

	card, err := cards.GenerateCard(ctx, company, role, func(ev entity.ProgressEvent) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", ev.Stage, ev.Message)
	})
	if err != nil {
		return err
	}

	path, err := files.SaveCard(ctx, card)
	if err != nil {
		return err
	}

	fmt.Printf("Saved: %s\n", path)
	fmt.Printf("Roast: %s\n", card.Roast.Text)
	fmt.Printf("Tokens: %d in / %d out, cost $%.4f\n", card.Roast.InputTokens, card.Roast.OutputTokens, card.Roast.Cost)
	return nil
}

func disconnect(logger *slog.Logger, client *mongo.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("disconnecting mongo")
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect error", "err", err)
	}
}

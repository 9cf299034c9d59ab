package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"embedq/internal/blob"
	"embedq/internal/config"
	"embedq/internal/db"
	"embedq/internal/dispatch"
	"embedq/internal/embed"
	httpx "embedq/internal/http"
	"embedq/internal/jobs"
)

func main() {
	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	inputs, err := blob.NewStore(filepath.Join(cfg.StoragePath, "inputs"), ".bin")
	if err != nil {
		log.Fatal(err)
	}
	outputs, err := blob.NewStore(filepath.Join(cfg.StoragePath, "outputs"), ".blob")
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	backend := dispatch.Select(ctx, cfg.UseRedis, cfg.RedisURL)

	repo := &jobs.Repo{DB: gdb}

	// The local queue dies with the process, so refill it from persisted
	// state. Must finish before the listener starts taking submissions.
	if backend.Kind() == "local" {
		n, err := jobs.Recover(ctx, repo, backend)
		if err != nil {
			log.Fatal(err)
		}
		if n > 0 {
			log.Printf("recovered %d queued job(s)\n", n)
		}
	}

	provider := embed.NewProvider(func() (embed.Embedder, error) {
		return embed.NewHashEmbedder(cfg.ModelID), nil
	})

	worker := &jobs.Worker{
		Repo:     repo,
		Backend:  backend,
		Inputs:   inputs,
		Outputs:  outputs,
		Provider: provider,
	}
	go worker.Run(ctx)

	r := httpx.NewRouter(cfg, repo, inputs, outputs, backend)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mesh-retriever/internal/chunker"
	"mesh-retriever/internal/config"
	"mesh-retriever/internal/ingest"
	"mesh-retriever/internal/registry"
	"mesh-retriever/internal/resources"
	"mesh-retriever/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	dir := flag.String("dir", "", "Document directory (overrides config)")
	collection := flag.String("collection", "", "Target collection (overrides config)")
	reset := flag.Bool("reset", false, "Drop and recreate the collection before indexing (destructive)")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if *dir != "" {
		cfg.Ingest.Dir = *dir
	}
	if *collection != "" {
		cfg.Ingest.Collection = *collection
	}
	if cfg.Ingest.Dir == "" {
		log.Fatal("no document directory configured; pass --dir or set ingest.dir")
	}

	ctx := context.Background()
	embedder, store, err := resources.FromConfig(cfg, log).Acquire(ctx)
	if err != nil {
		log.Fatal("failed to initialize resources", zap.Error(err))
	}

	spec := vectorstore.CollectionSpec{
		Name:      cfg.Ingest.Collection,
		Dimension: embedder.Dimension(),
		Distance:  vectorstore.Distance(cfg.Ingest.Distance),
	}
	reg := registry.New(store, log)
	if *reset {
		err = reg.ResetAndCreate(ctx, spec)
	} else {
		err = reg.Ensure(ctx, spec)
	}
	if err != nil {
		log.Fatal("failed to prepare collection", zap.Error(err))
	}

	pipeline := ingest.New(chunker.NewFixedChunker(cfg.Ingest.ChunkChars), embedder, store, log)
	report, err := pipeline.Run(ctx, cfg.Ingest.Dir, cfg.Ingest.Extension, cfg.Ingest.Collection)
	if err != nil {
		log.Fatal("ingestion failed", zap.Error(err))
	}
	for _, f := range report.Failures {
		log.Warn("document skipped", zap.String("path", f.Path), zap.String("reason", f.Reason))
	}
	log.Info("transfer complete",
		zap.Int("documents", report.Documents),
		zap.Int("chunks", report.Chunks),
		zap.Int("failures", len(report.Failures)))
}

package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mesh-retriever/internal/api"
	"mesh-retriever/internal/config"
	"mesh-retriever/internal/resources"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	provider := resources.FromConfig(cfg, log)
	server := api.NewServer(provider,
		cfg.Search.DefaultCollections,
		time.Duration(cfg.Search.TimeoutSecs)*time.Second,
		log)

	log.Info("retriever service listening",
		zap.String("addr", cfg.Server.Addr),
		zap.Strings("default_collections", cfg.Search.DefaultCollections))
	if err := http.ListenAndServe(cfg.Server.Addr, server.Handler()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

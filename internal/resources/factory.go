package resources

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mesh-retriever/internal/config"
	"mesh-retriever/internal/embedding"
	"mesh-retriever/internal/embedding/ollama"
	"mesh-retriever/internal/embedding/openai"
	"mesh-retriever/internal/vectorstore"
	"mesh-retriever/internal/vectorstore/qdrant"
)

// FromConfig wires a Provider whose constructors build the configured
// embedder and Qdrant client. Nothing is dialed or loaded until the first
// Acquire.
func FromConfig(cfg *config.AppConfig, log *zap.Logger) *Provider {
	newEmbedder := func(context.Context) (embedding.Embedder, error) {
		switch cfg.Embedder.Type {
		case "ollama", "":
			oc := cfg.Embedder.Ollama
			if oc == nil {
				oc = &config.OllamaEmbedderConfig{}
			}
			return ollama.New(ollama.Config{
				Host:      oc.Host,
				Model:     oc.Model,
				Dimension: oc.Dimension,
				Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
			})
		case "openai":
			if cfg.Embedder.OpenAI == nil {
				return nil, fmt.Errorf("openai embedder config missing")
			}
			return openai.New(openai.Config{
				BaseURL:   cfg.Embedder.OpenAI.BaseURL,
				APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
				Model:     cfg.Embedder.OpenAI.Model,
				Dimension: cfg.Embedder.OpenAI.Dimension,
				Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
			})
		default:
			return nil, fmt.Errorf("unknown embedder type: %s", cfg.Embedder.Type)
		}
	}
	newStore := func(context.Context) (vectorstore.Store, error) {
		return qdrant.New(qdrant.Config{
			URL:     cfg.Qdrant.URL,
			APIKey:  cfg.Qdrant.APIKey,
			Timeout: time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	}
	return NewProvider(newEmbedder, newStore, log)
}

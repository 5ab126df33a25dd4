package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Client embeds text through a local Ollama server. It plays the role of the
// local sentence-transformer model: cheap, offline, fixed dimensionality.
type Client struct {
	api       *api.Client
	model     string
	dimension int
}

type Config struct {
	// Host is the Ollama base URL. Empty means the OLLAMA_HOST environment
	// default.
	Host      string
	Model     string
	Dimension int
	Timeout   time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "all-minilm"
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 384
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	host := cfg.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	// Built by hand rather than from the environment so the configured
	// timeout applies on every path.
	inner := api.NewClient(base, &http.Client{Timeout: cfg.Timeout})
	return &Client{api: inner, model: cfg.Model, dimension: cfg.Dimension}, nil
}

func (c *Client) Name() string { return "ollama/" + c.model }

func (c *Client) Dimension() int { return c.dimension }

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.api.Embed(ctx, &api.EmbedRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}
	for _, v := range resp.Embeddings {
		if len(v) != c.dimension {
			return nil, errors.New("embedding dimension does not match configured dimension")
		}
	}
	return resp.Embeddings, nil
}

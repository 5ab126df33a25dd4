package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant. Collections are addressed by
// name on every call; nothing about them is cached locally.
type Store struct {
	url    string
	apiKey string
	client *http.Client
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if cfg.URL == "" {
		cfg.URL = "http://localhost:6333"
	}
	return &Store{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Store) CreateCollection(ctx context.Context, spec vectorstore.CollectionSpec) error {
	if spec.Dimension <= 0 {
		return fmt.Errorf("invalid dimension %d for collection %s", spec.Dimension, spec.Name)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     spec.Dimension,
			"distance": string(spec.Distance),
		},
	}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, spec.Name), body, nil)
}

func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	err := s.do(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, name), nil, nil)
	if errors.Is(err, vectorstore.ErrCollectionNotFound) {
		return nil
	}
	return err
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, s.url+"/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Result.Collections))
	for _, c := range resp.Result.Collections {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *Store) DescribeCollection(ctx context.Context, name string) (vectorstore.CollectionSpec, error) {
	var resp struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size     int    `json:"size"`
						Distance string `json:"distance"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", s.url, name), nil, &resp); err != nil {
		return vectorstore.CollectionSpec{}, err
	}
	return vectorstore.CollectionSpec{
		Name:      name,
		Dimension: resp.Result.Config.Params.Vectors.Size,
		Distance:  vectorstore.Distance(resp.Result.Config.Params.Vectors.Distance),
	}, nil
}

func (s *Store) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	ps := make([]map[string]any, 0, len(points))
	for _, p := range points {
		ps = append(ps, map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		})
	}
	body := map[string]any{"points": ps}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, collection), body, nil)
}

func (s *Store) Query(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchHit, error) {
	if limit <= 0 {
		limit = 1
	}
	req := map[string]any{
		"query":        vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result struct {
			Points []struct {
				Score   float64        `json:"score"`
				Payload domain.Payload `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/query", s.url, collection)
	if err := s.do(ctx, http.MethodPost, url, req, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.SearchHit, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		source := p.Payload.Filename
		if source == "" {
			source = collection
		}
		hits = append(hits, domain.SearchHit{
			Source:  source,
			Content: p.Payload.Content,
			Score:   p.Score,
		})
	}
	return hits, nil
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return vectorstore.ErrCollectionNotFound
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

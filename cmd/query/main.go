package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mesh-retriever/internal/config"
	"mesh-retriever/internal/engine"
	"mesh-retriever/internal/resources"
	"mesh-retriever/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	limit := flag.Int("limit", 1, "Maximum number of merged results")
	collections := flag.String("collections", "", "Comma-separated target collections (default from config)")
	interactive := flag.Bool("i", false, "Interactive console instead of one-shot JSON output")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	targets := cfg.Search.DefaultCollections
	if *collections != "" {
		targets = strings.Split(*collections, ",")
	}

	// Logs go to stderr so one-shot JSON output stays clean on stdout.
	log := zap.NewNop()
	if *interactive {
		log, _ = zap.NewDevelopment()
	}

	embedder, store, err := resources.FromConfig(cfg, log).Acquire(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize resources: %v\n", err)
		os.Exit(1)
	}
	eng := engine.New(embedder, store, time.Duration(cfg.Search.TimeoutSecs)*time.Second, log)

	if *interactive {
		m := tui.New(eng, targets, *limit)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: query [flags] \"query text\"")
		os.Exit(1)
	}
	hits, err := eng.Search(context.Background(), strings.Join(flag.Args(), " "), targets, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.Marshal(hits)
	fmt.Println(string(out))
}

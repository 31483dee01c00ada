package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"ragchat/internal/chunker"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/embedding"
	"ragchat/internal/generation"
	"ragchat/internal/service"
	"ragchat/internal/tui"
	"ragchat/internal/vectorstore/sqlite"
)

const usage = `Usage: ragchat [--config=config.yaml] <command>

Commands:
  build                      ingest raw documents into the collection
  query [--k N] <question>   answer a question from the collection
  chat                       interactive chat over the collection
`

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx := context.Background()

	// The generation credential is required up front, not discovered on
	// the first query.
	key, err := cfg.APIKey()
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		log.Error("failed to create generative AI client", "err", err)
		os.Exit(1)
	}
	defer client.Close()

	// Assemble components via interfaces
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "gemini", "":
		emb, err = embedding.NewGemini(client, cfg.Embedder.Model)
		if err != nil {
			log.Error("failed to create embedder", "err", err)
			os.Exit(1)
		}
	case "local":
		emb = embedding.NewLocal(cfg.Embedder.Dimension)
	default:
		log.Error("unknown embedder type", "type", cfg.Embedder.Type)
		os.Exit(1)
	}

	store, err := sqlite.Open(cfg.Paths.StorePath, emb.Dimension(), emb.Model())
	if err != nil {
		log.Error("failed to open vector store", "path", cfg.Paths.StorePath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	gen := generation.NewGemini(client, cfg.Generator.Model,
		time.Duration(cfg.Generator.TimeoutSecs)*time.Second)
	svc := service.New(chunker.NewSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap()),
		emb, store, gen, log)

	switch args[0] {
	case "build":
		runBuild(ctx, svc, cfg, log)
	case "query":
		runQuery(ctx, svc, cfg, args[1:], log)
	case "chat":
		runChat(ctx, svc, cfg, log)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runBuild(ctx context.Context, svc *service.Service, cfg *config.AppConfig, log *slog.Logger) {
	if err := os.MkdirAll(cfg.Paths.RawDir, 0o755); err != nil {
		log.Error("failed to create raw directory", "err", err)
		os.Exit(1)
	}
	report, err := svc.Build(ctx, cfg.Paths.RawDir)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			fmt.Printf("No valid documents found in %s; nothing ingested.\n", cfg.Paths.RawDir)
			return
		}
		log.Error("build failed", "err", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d file(s): %d chunk(s), %d inserted, %d already present.\n",
		report.FilesLoaded, report.Chunks, report.Inserted, report.Duplicates)
	for _, sk := range report.Skipped {
		fmt.Printf("  skipped %s: %s\n", sk.Path, sk.Reason)
	}
}

func runQuery(ctx context.Context, svc *service.Service, cfg *config.AppConfig, args []string, log *slog.Logger) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	k := fs.Int("k", cfg.Retrieval.TopK, "Number of top chunks to retrieve")
	_ = fs.Parse(args)
	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		fmt.Println("Usage: ragchat query [--k N] <question>")
		os.Exit(1)
	}
	answer, _, err := svc.Answer(ctx, question, *k)
	if err != nil {
		log.Error("query failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("\n========================================")
	fmt.Println(answer)
}

func runChat(ctx context.Context, svc *service.Service, cfg *config.AppConfig, log *slog.Logger) {
	if err := os.MkdirAll(cfg.Paths.RawDir, 0o755); err != nil {
		log.Error("failed to create raw directory", "err", err)
		os.Exit(1)
	}
	// Index whatever is already in the raw directory; an empty directory
	// is fine, the user can drop files in and :build from the chat.
	if _, err := svc.Build(ctx, cfg.Paths.RawDir); err != nil && !errors.Is(err, domain.ErrEmptyInput) {
		log.Error("initial build failed", "err", err)
		os.Exit(1)
	}
	m := tui.New(svc, cfg.Paths.RawDir, cfg.Retrieval.TopK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Error("chat UI failed", "err", err)
		os.Exit(1)
	}
}

// Command execution for CLI commands.
//
// Information Hiding:
// - Session assembly from flags and environment
// - REPL command dispatch
// - Output formatting

package cli

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/assistant"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/capability"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/config"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/embedding"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/llm"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/model"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/orchestration"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/retrieval"
	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider     string
	Model        string
	SessionID    string
	DBPath       string
	TopK         int
	ChunkSize    int
	ChunkOverlap int
	Verbose      bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		DBPath: defaultDBPath,
	}
}

// defaultDBPath is the database path used when none is configured.
const defaultDBPath = ".agentic/agentic.db"

// Ask answers a single question and exits. An optional image path attaches
// the image to the request for vision-capable providers.
func Ask(ctx context.Context, question, imagePath string, opts Options) error {
	var sink orchestration.ProgressSink
	if opts.Verbose {
		sink = consoleSink{}
	}

	session, cleanup, err := buildSession(ctx, opts, sink)
	if err != nil {
		return err
	}
	defer cleanup()

	var image *llm.ImageData
	if imagePath != "" {
		image, err = loadImage(imagePath)
		if err != nil {
			return err
		}
	}

	result, err := session.Respond(ctx, question, image)
	if err != nil {
		return err
	}

	if opts.Verbose {
		printStepResults(result.Results)
	}

	final := result.Final()
	if final.Failed {
		fmt.Fprintf(os.Stderr, "%s\n", final.Text)
		return fmt.Errorf("request failed after %d steps", result.Plan.Len())
	}

	fmt.Printf("%s\n", final.Text)
	if names := formatSources(final.Sources); names != "" {
		fmt.Printf("\nSources: %s\n", names)
	}
	if opts.Verbose {
		printTokenStats(result.Stats, result.ElapsedMs)
	}
	return nil
}

// Chat starts an interactive session. Plain input becomes a request; lines
// starting with '/' manage documents and history.
func Chat(ctx context.Context, opts Options) error {
	session, cleanup, err := buildSession(ctx, opts, consoleSink{})
	if err != nil {
		return err
	}
	defer cleanup()

	if turns := len(session.History()); opts.SessionID != "" && turns > 0 {
		fmt.Printf("Resuming session '%s' (%d turns)\n\n", opts.SessionID, turns)
	}

	fmt.Printf("Chat session %s. Type 'exit' to quit, '/help' for commands.\n\n", session.ID())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if strings.HasPrefix(input, "/") {
			runSlashCommand(ctx, session, input)
			continue
		}

		result, err := session.Respond(ctx, input, nil)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			continue
		}

		final := result.Final()
		fmt.Printf("\n%s\n", final.Text)
		if names := formatSources(final.Sources); names != "" {
			fmt.Printf("Sources: %s\n", names)
		}
		fmt.Println()

		if opts.Verbose {
			printTokenStats(result.Stats, result.ElapsedMs)
		}
	}

	return scanner.Err()
}

// ListCapabilities prints the capabilities the planner can dispatch to.
func ListCapabilities() error {
	// Listing reads handler metadata only, so collaborators stay nil and no
	// API key is needed.
	registry, err := capability.DefaultRegistry(nil, nil, nil, capability.Config{})
	if err != nil {
		return err
	}

	fmt.Println("Available capabilities:")
	fmt.Println()
	for _, meta := range registry.List() {
		fmt.Printf("  %s\n", meta.Name)
		fmt.Printf("    %s\n", meta.Description)
		fmt.Println()
	}
	return nil
}

// ListSessions prints the session ids stored in the database, most recently
// updated first.
func ListSessions(ctx context.Context, dbPath string) error {
	store, err := storage.OpenSqlite(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No saved sessions")
		return nil
	}

	for _, id := range sessions {
		fmt.Println(id)
	}
	return nil
}

// runSlashCommand handles a REPL management command. Errors are printed, not
// returned, so a bad command never ends the chat loop.
func runSlashCommand(ctx context.Context, session *assistant.Session, input string) {
	command, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/upload":
		if arg == "" {
			fmt.Println("usage: /upload <path>")
			return
		}
		content, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		sourceID := filepath.Base(arg)
		stats, err := session.UploadDocument(ctx, sourceID, string(content))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Ingested %s (%d chunks indexed)\n", sourceID, stats.Stored)
		if stats.Dropped > 0 {
			fmt.Printf("Warning: %d chunks could not be embedded\n", stats.Dropped)
		}
	case "/remove":
		if arg == "" {
			fmt.Println("usage: /remove <document>")
			return
		}
		removed, err := session.RemoveDocument(ctx, arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		fmt.Printf("Removed %s\n", removed)
	case "/docs":
		docs := session.Documents()
		if len(docs) == 0 {
			fmt.Println("No documents uploaded")
			return
		}
		for i, name := range docs {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
		fmt.Printf("(%d chunks indexed)\n", session.IndexedChunks())
	case "/history":
		turns := session.History()
		if len(turns) == 0 {
			fmt.Println("No conversation yet")
			return
		}
		for _, turn := range turns {
			if turn.Role == model.RoleAssistant && turn.Capability != "" {
				fmt.Printf("%s (%s): %s\n", turn.Role, turn.Capability, turn.Text)
				continue
			}
			fmt.Printf("%s: %s\n", turn.Role, turn.Text)
		}
	case "/help":
		printChatHelp()
	default:
		fmt.Printf("Unknown command %s. Type /help for commands.\n", command)
	}
}

func printChatHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /upload <path>      ingest a plain-text file for retrieval")
	fmt.Println("  /remove <document>  remove a document (unique prefix is enough)")
	fmt.Println("  /docs               list uploaded documents")
	fmt.Println("  /history            show the conversation so far")
	fmt.Println("  /help               show this help")
	fmt.Println("  exit                quit the chat")
}

// buildSession assembles a session from flags and environment. The returned
// cleanup closes the backing database and must be called even when the
// session is discarded.
func buildSession(ctx context.Context, opts Options, sink orchestration.ProgressSink) (*assistant.Session, func(), error) {
	if opts.Provider == "" {
		return nil, nil, fmt.Errorf("--provider is required for this command")
	}

	settings, err := config.New(opts.Provider)
	if err != nil {
		return nil, nil, err
	}

	// Flags override environment-derived retrieval settings.
	if opts.TopK > 0 {
		settings.Retrieval.TopK = opts.TopK
	}
	if opts.ChunkSize > 0 {
		settings.Retrieval.ChunkSize = opts.ChunkSize
	}
	if opts.ChunkOverlap > 0 {
		settings.Retrieval.ChunkOverlap = opts.ChunkOverlap
	}

	provider, err := createProvider(settings, opts.Model)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := createEmbedder(settings)
	if err != nil {
		return nil, nil, err
	}

	chunker, err := retrieval.NewChunker(settings.Retrieval.ChunkSize, settings.Retrieval.ChunkOverlap)
	if err != nil {
		return nil, nil, err
	}

	builder := assistant.NewBuilder(llm.NewClient(provider), embedder).
		Chunker(chunker).
		TopK(settings.Retrieval.TopK).
		Verbose(opts.Verbose)

	if sink != nil {
		builder = builder.Progress(sink)
	}

	cleanup := func() {}
	if opts.SessionID != "" {
		dbPath := opts.DBPath
		if dbPath == "" {
			dbPath = defaultDBPath
		}
		store, err := storage.OpenSqlite(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		cleanup = func() { store.Close() }
		builder = builder.SessionID(opts.SessionID).Persistence(store)
	}

	session, err := builder.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if opts.SessionID != "" {
		if err := session.Restore(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to restore session: %w", err)
		}
	}

	return session, cleanup, nil
}

func createProvider(settings config.Settings, modelOverride string) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	apiKey, err := config.APIKeyFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	selected := settings.LLM.Model
	if modelOverride != "" {
		selected = modelOverride
	}

	return providerType.
		Model(selected).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
}

func createEmbedder(settings config.Settings) (embedding.Embedder, error) {
	apiKey, err := config.EmbeddingAPIKey(settings.Embedding.Provider)
	if err != nil {
		return nil, err
	}

	// The dimensionality of an overridden model is unknown here; zero
	// disables the embedder's length check.
	switch settings.Embedding.Provider {
	case "gemini":
		embedder := embedding.NewGeminiEmbedder(apiKey)
		if settings.Embedding.Model != "" {
			embedder = embedder.WithModel(settings.Embedding.Model, 0)
		}
		return embedder, nil
	default:
		embedder, err := embedding.NewOpenAIEmbedder(apiKey)
		if err != nil {
			return nil, err
		}
		if settings.Embedding.Model != "" {
			embedder = embedder.WithModel(settings.Embedding.Model, 0)
		}
		return embedder, nil
	}
}

// loadImage reads an image file into the form providers expect.
func loadImage(path string) (*llm.ImageData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("unsupported image type for %s", path)
	}

	return &llm.ImageData{
		MimeType:   mimeType,
		Base64Data: base64.StdEncoding.EncodeToString(content),
	}, nil
}

// consoleSink prints plan progress to stdout as steps run.
type consoleSink struct{}

func (consoleSink) StepStarted(e orchestration.ProgressEvent) {
	fmt.Printf("[%d/%d] %s: %s\n", e.Current, e.Total, e.Agent, truncateString(e.Task, maxTaskPreviewLen))
}

func (consoleSink) StepCompleted(e orchestration.ProgressEvent, result model.StepResult) {
	if result.Failed {
		fmt.Printf("[%d/%d] %s failed: %s\n", e.Current, e.Total, e.Agent, truncateString(result.Text, maxTaskPreviewLen))
	}
}

var _ orchestration.ProgressSink = consoleSink{}

const (
	maxTaskPreviewLen = 80
	maxStepPreviewLen = 200
)

func printStepResults(results []model.StepResult) {
	fmt.Println("--- Steps ---")
	for i, result := range results {
		status := ""
		if result.Failed {
			status = " (failed)"
		}
		fmt.Printf("[%d] %s%s\n", i+1, result.Agent, status)
		fmt.Printf("    %s\n", truncateString(result.Text, maxStepPreviewLen))
		if names := formatSources(result.Sources); names != "" {
			fmt.Printf("    Sources: %s\n", names)
		}
		fmt.Println()
	}
	fmt.Println("-------------")
	fmt.Println()
}

// formatSources joins the distinct source ids behind a step result,
// preserving first-seen order.
func formatSources(sources []model.Source) string {
	var names []string
	seen := make(map[string]bool)
	for _, src := range sources {
		if seen[src.SourceID] {
			continue
		}
		seen[src.SourceID] = true
		names = append(names, src.SourceID)
	}
	return strings.Join(names, ", ")
}

// truncateString truncates a string to maxLen runes, preserving UTF-8 boundaries.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// printTokenStats prints token usage statistics.
func printTokenStats(stats orchestration.TokenStats, elapsedMs uint64) {
	fmt.Printf("\nToken Usage:\n")
	fmt.Printf("  LLM calls: %d\n", stats.LLMCalls)
	fmt.Printf("  Prompt tokens: %d\n", stats.PromptTokens)
	fmt.Printf("  Completion tokens: %d\n", stats.CompletionTokens)
	fmt.Printf("  Total tokens: %d\n", stats.TotalTokens)
	fmt.Printf("  Elapsed: %dms\n", elapsedMs)
}

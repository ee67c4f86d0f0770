// Package main provides the agentic CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ArihantKhaitan/Enterprise-Agentic-Platform/cli"
)

var (
	// Global flags
	provider string
	model    string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "agentic",
		Short: "Plan-driven assistant with document retrieval",
		Long: `An assistant that decomposes each request into a plan of capability steps
(knowledge lookup, web search, code generation, summarization, image analysis)
and executes them in order, threading step outputs forward.

Uploaded plain-text documents are chunked, embedded and ranked by cosine
similarity, so knowledge steps can answer from your own material.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model override for the selected provider")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(capabilitiesCmd())
	rootCmd.AddCommand(sessionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// addSessionFlags registers the flags shared by chat and ask.
func addSessionFlags(cmd *cobra.Command, opts *cli.Options) {
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "Session ID for conversation persistence")
	cmd.Flags().StringVar(&opts.DBPath, "db", ".agentic/agentic.db", "Database path for storage")
	cmd.Flags().IntVar(&opts.TopK, "k", 0, "Chunks retrieved per knowledge step (0 uses TOP_K or the default)")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", 0, "Characters per document chunk (0 uses CHUNK_SIZE or the default)")
	cmd.Flags().IntVar(&opts.ChunkOverlap, "chunk-overlap", 0, "Overlapping characters between chunks (0 uses CHUNK_OVERLAP or the default)")
}

func chatCmd() *cobra.Command {
	var opts cli.Options

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive assistant session",
		Long: `Start an interactive session. Plain input is planned and executed;
slash commands manage session state:

  /upload <path>      ingest a plain-text file for retrieval
  /remove <document>  remove a document (unique prefix is enough)
  /docs               list uploaded documents
  /history            show the conversation so far

With --session, turns and documents persist across restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = provider
			opts.Model = model
			opts.Verbose = verbose
			return cli.Chat(context.Background(), opts)
		},
	}

	addSessionFlags(cmd, &opts)

	return cmd
}

func askCmd() *cobra.Command {
	var opts cli.Options
	var imagePath string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Long: `Answer a single question and exit. The question is decomposed into a
plan of capability steps and the final step's output is printed.

With --session, the question joins an existing conversation and its
documents. With --image, the image is attached for vision-capable
providers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Provider = provider
			opts.Model = model
			opts.Verbose = verbose
			return cli.Ask(context.Background(), args[0], imagePath, opts)
		},
	}

	addSessionFlags(cmd, &opts)
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to an image to attach to the question")

	return cmd
}

func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List the capabilities plans can dispatch to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListCapabilities()
		},
	}
}

func sessionsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List saved sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListSessions(context.Background(), dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", ".agentic/agentic.db", "Database path for storage")

	return cmd
}

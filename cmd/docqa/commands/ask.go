// ABOUTME: CLI command to answer questions from indexed documents
// ABOUTME: Supports one-shot and interactive modes plus note saving
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/notes"
	"github.com/joho/godotenv"
)

var (
	askTopK     int
	askMode     string
	askSaveNote bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about indexed documents",
		Long: `Answer a question using the most relevant indexed chunks as
context. Without a question argument, an interactive prompt loop
starts; type 'quit' to exit.

Mode 'notes' produces structured markdown notes instead of a direct
answer, and --save-note writes the result into the notes directory.

Examples:
  docqa ask "what are the deployment steps?"
  docqa ask --mode notes --save-note "summarize the architecture"
  docqa ask`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Number of context chunks to retrieve (default from config)")
	cmd.Flags().StringVar(&askMode, "mode", "qa", "Answer mode: qa or notes")
	cmd.Flags().BoolVar(&askSaveNote, "save-note", false, "Save the answer as a markdown note")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	mode := llm.AnswerMode(askMode)
	if mode != llm.ModeQA && mode != llm.ModeNotes {
		return fmt.Errorf("invalid mode %q: must be qa or notes", askMode)
	}

	topK := askTopK
	if topK == 0 {
		topK = cfg.TopK
	}
	if err := validatePositiveInt(topK, "top-k"); err != nil {
		return err
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	session, err := openSession(cfg, client)
	if err != nil {
		return err
	}
	if session.Store().Len() == 0 {
		return fmt.Errorf("index is empty: run 'docqa index' first")
	}

	if len(args) == 1 {
		return answerOne(cmd, cfg, session, client, args[0], mode, topK)
	}

	// Interactive loop
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Ask questions about your documents. Type 'quit' to exit.")
	}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}
		if err := answerOne(cmd, cfg, session, client, question, mode, topK); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

func answerOne(cmd *cobra.Command, cfg *config.Config, session *core.Session, client *llm.Client, question string, mode llm.AnswerMode, topK int) error {
	results, err := session.Search(cmd.Context(), question, topK)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no relevant content found")
	}

	if verbose {
		for _, r := range results {
			fmt.Fprintf(os.Stderr, "context: %s#%d (distance %.4f)\n",
				r.Meta.SourceID, r.Meta.SequenceIndex, r.Distance)
		}
	}

	answer, err := client.Answer(cmd.Context(), joinContext(results), question, mode)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)

	if askSaveNote {
		manager, err := notes.NewManager(cfg.NotesDir)
		if err != nil {
			return err
		}
		path, err := manager.Save(answer, question)
		if err != nil {
			return fmt.Errorf("saving note: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Note saved: %s\n", path)
		}
	}
	return nil
}

// joinContext assembles retrieved chunks into one context block
func joinContext(results []models.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n\n")
}

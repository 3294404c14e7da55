// ABOUTME: CLI command to browse web pages and ask about them
// ABOUTME: Page content temporarily replaces the index and is restored afterwards
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/web"
	"github.com/joho/godotenv"
)

// NewBrowseCmd creates the browse command
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <url> [question]",
		Short: "Fetch a web page and optionally ask about it",
		Long: `Fetch a web page, extract its readable text, and either print a
summary of the page or answer a question about it.

Answering uses the page content only: the persistent document index
is swapped out for the duration of the question and restored
afterwards, so browsing never pollutes your indexed documents.

Examples:
  docqa browse https://example.com/article
  docqa browse https://example.com/article "what is the main argument?"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runBrowse,
	}

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	browser := web.NewBrowser(cfg.FetchTimeout, cfg.UserAgent)

	page, err := browser.Browse(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("browsing: %w", err)
	}

	if len(args) == 1 {
		// No question: print the page summary
		fmt.Fprintf(cmd.OutOrStdout(), "Title: %s\n", page.Title)
		if page.Description != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", page.Description)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", truncate(page.Text, 2000))
		return nil
	}

	question := args[1]

	client, err := newLLMClient(cfg)
	if err != nil {
		return err
	}

	session, err := openSession(cfg, client)
	if err != nil {
		return err
	}

	var answer string
	err = session.WithOverride(cmd.Context(), page.URL, page.Text, func() error {
		results, err := session.Search(cmd.Context(), question, cfg.TopK)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return fmt.Errorf("no readable content on the page")
		}
		answer, err = client.Answer(cmd.Context(), joinContext(results), question, llm.ModeQA)
		return err
	})
	if err != nil {
		return fmt.Errorf("answering from page: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

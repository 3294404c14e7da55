// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Defines the docqa command tree and output format handling
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Document Q&A with semantic search",
		Long: `
██████╗  ██████╗  ██████╗ ██████╗  █████╗
██╔══██╗██╔═══██╗██╔════╝██╔═══██╗██╔══██╗
██║  ██║██║   ██║██║     ██║   ██║███████║
██║  ██║██║   ██║██║     ██║▄▄ ██║██╔══██║
██████╔╝╚██████╔╝╚██████╗╚██████╔╝██║  ██║
╚═════╝  ╚═════╝  ╚═════╝ ╚══▀▀═╝ ╚═╝  ╚═╝

Document Q&A indexes your documents into a local vector index and
answers questions about them using semantic retrieval. Browse web
pages and ask about them without touching your document index, and
save answers as markdown notes.`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Subcommands
	cmd.AddCommand(NewIndexCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewBrowseCmd())
	cmd.AddCommand(NewNotesCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

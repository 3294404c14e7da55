// ABOUTME: CLI commands to list and show saved markdown notes
// ABOUTME: Notes are plain files in the configured notes directory
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/notes"
)

// NewNotesCmd creates the notes command with its subcommands
func NewNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage saved notes",
		Long: `List and read markdown notes saved from answers.

Examples:
  docqa notes list
  docqa notes show my_note.md`,
	}

	cmd.AddCommand(newNotesListCmd())
	cmd.AddCommand(newNotesShowCmd())

	return cmd
}

func newNotesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved notes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			manager, err := notes.NewManager(cfg.NotesDir)
			if err != nil {
				return err
			}

			paths, err := manager.List()
			if err != nil {
				return err
			}

			if len(paths) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No notes saved yet")
				}
				return nil
			}

			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Base(p))
			}
			return nil
		},
	}
}

func newNotesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note>",
		Short: "Print a saved note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			manager, err := notes.NewManager(cfg.NotesDir)
			if err != nil {
				return err
			}

			// Bare filenames resolve inside the notes directory
			path := args[0]
			if filepath.Base(path) == path {
				path = filepath.Join(manager.Dir(), path)
			}

			content, err := manager.Read(path)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

// ABOUTME: Tests for notes command structure
// ABOUTME: Verifies subcommand registration and args validation

package commands

import (
	"strings"
	"testing"
)

func TestNewNotesCmd(t *testing.T) {
	cmd := NewNotesCmd()

	if cmd.Use != "notes" {
		t.Errorf("Use = %q, want %q", cmd.Use, "notes")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
}

func TestNotesCmd_Subcommands(t *testing.T) {
	cmd := NewNotesCmd()

	expected := []string{"list", "show"}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Use == name || strings.HasPrefix(sub.Use, name+" ") {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %q not found", name)
			}
		})
	}
}

func TestNotesShowCmd_ArgsValidation(t *testing.T) {
	cmd := NewNotesCmd()

	for _, sub := range cmd.Commands() {
		if strings.HasPrefix(sub.Use, "show") {
			if err := sub.Args(sub, []string{}); err == nil {
				t.Error("show should reject zero arguments")
			}
			if err := sub.Args(sub, []string{"note.md"}); err != nil {
				t.Errorf("show should accept one argument: %v", err)
			}
			return
		}
	}
	t.Fatal("show subcommand not found")
}

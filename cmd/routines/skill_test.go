// ABOUTME: Tests for the embedded Claude Code skill.
// ABOUTME: Validates frontmatter and that every MCP tool is documented.

package main

import (
	"strings"
	"testing"
)

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill/SKILL.md: %v", err)
	}

	contentStr := string(content)
	if !strings.HasPrefix(contentStr, "---") {
		t.Error("Expected SKILL.md to start with YAML frontmatter (---)")
	}
	for _, marker := range []string{"name: routines", "description:", "## When to use routines"} {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestSkillDocumentsEveryTool(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	tools := []string{
		"list_exercises",
		"get_draft",
		"update_draft",
		"add_exercise",
		"remove_exercise",
		"clear_draft",
		"submit_routine",
		"explore_routines",
		"start_workout",
		"finish_workout",
		"active_workout",
		"stats",
	}
	for _, tool := range tools {
		if !strings.Contains(string(content), "mcp__routines__"+tool) {
			t.Errorf("Expected embedded SKILL.md to reference %q", "mcp__routines__"+tool)
		}
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("Expected --yes flag to be defined")
	}
	if flag.Shorthand != "y" {
		t.Errorf("Expected shorthand 'y', got %q", flag.Shorthand)
	}
	if flag.DefValue != "false" {
		t.Errorf("Expected default value 'false', got %q", flag.DefValue)
	}
}

package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArtifactStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, nil)

	raw := map[string]any{
		"message": "The answer.",
		"source":  "manual",
	}

	path, err := store.Save(context.Background(), raw, "How do I reset?", "widget", "2.1")
	if err != nil {
		t.Fatalf("Failed to save artifact: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("Failed to parse artifact: %v", err)
	}

	if artifact.Question != "How do I reset?" {
		t.Errorf("Expected question preserved, got '%s'", artifact.Question)
	}
	if artifact.Product != "widget" {
		t.Errorf("Expected product 'widget', got '%s'", artifact.Product)
	}
	if artifact.Version != "2.1" {
		t.Errorf("Expected version '2.1', got '%s'", artifact.Version)
	}
	if artifact.ResponseMessage != "The answer." {
		t.Errorf("Expected response_message, got '%s'", artifact.ResponseMessage)
	}
	if artifact.ResponseRaw["source"] != "manual" {
		t.Errorf("Expected full raw response, got %v", artifact.ResponseRaw)
	}
	if len(artifact.Timestamp) != len("2006-01-02 15:04:05") {
		t.Errorf("Expected human-readable timestamp, got '%s'", artifact.Timestamp)
	}

	// Indented output
	if !strings.Contains(string(data), "\n  \"question\"") {
		t.Error("Expected 2-space indented JSON")
	}
}

func TestArtifactStoreSaveFilename(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, nil)

	question := "How do I reset? It keeps blinking red..."
	path, err := store.Save(context.Background(), map[string]any{"message": "m"}, question, "p", "v")
	if err != nil {
		t.Fatalf("Failed to save artifact: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "How_do_I_reset__It_keeps_blink") {
		t.Errorf("Expected sanitized 30-rune prefix, got '%s'", name)
	}
	if !strings.HasSuffix(name, ".json") {
		t.Errorf("Expected .json suffix, got '%s'", name)
	}
	// prefix + _ + 20060102_150405 + .json
	rest := strings.TrimPrefix(name, "How_do_I_reset__It_keeps_blink")
	if len(rest) != len("_20060102_150405.json") {
		t.Errorf("Expected timestamped remainder, got '%s'", rest)
	}
}

func TestArtifactStoreSaveMissingMessage(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, nil)

	path, err := store.Save(context.Background(), map[string]any{"status": "done"}, "q", "p", "v")
	if err != nil {
		t.Fatalf("Failed to save artifact: %v", err)
	}

	data, _ := os.ReadFile(path)
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("Failed to parse artifact: %v", err)
	}

	if artifact.ResponseMessage != "" {
		t.Errorf("Expected empty response_message when absent, got '%s'", artifact.ResponseMessage)
	}
}

func TestArtifactStoreSaveShortQuestion(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, nil)

	path, err := store.Save(context.Background(), map[string]any{"message": "m"}, "Why?", "p", "v")
	if err != nil {
		t.Fatalf("Failed to save artifact: %v", err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "Why__") {
		t.Errorf("Expected 'Why__' prefix for short question, got '%s'", name)
	}
}

func TestArtifactStoreSaveCollisionOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir, nil)

	// Same question twice within the same second lands on the same path
	path1, err := store.Save(context.Background(), map[string]any{"message": "first"}, "same question", "p", "v")
	if err != nil {
		t.Fatalf("Failed to save first artifact: %v", err)
	}
	path2, err := store.Save(context.Background(), map[string]any{"message": "second"}, "same question", "p", "v")
	if err != nil {
		t.Fatalf("Failed to save second artifact: %v", err)
	}

	if path1 != path2 {
		// Crossed a second boundary; both artifacts exist
		t.Skipf("Saves straddled a second boundary: %s vs %s", path1, path2)
	}

	data, _ := os.ReadFile(path2)
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("Failed to parse artifact: %v", err)
	}
	if artifact.ResponseMessage != "second" {
		t.Errorf("Expected later save to win, got '%s'", artifact.ResponseMessage)
	}
}

func TestArtifactStoreSaveBadDir(t *testing.T) {
	store := NewArtifactStore(filepath.Join(t.TempDir(), "does-not-exist"), nil)

	_, err := store.Save(context.Background(), map[string]any{"message": "m"}, "q", "p", "v")
	if err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestSanitizeQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected string
	}{
		{"alphanumeric kept", "Reset123", "Reset123"},
		{"punctuation replaced", "What is it?", "What_is_it_"},
		{"spaces replaced", "a b c", "a_b_c"},
		{"truncated to 30 runes", strings.Repeat("a", 40), strings.Repeat("a", 30)},
		{"unicode letters kept", "wie längt das?", "wie_längt_das_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeQuestion(tt.question)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/Dr-Rakesh/Answer-automation/pkg/logger"
	"github.com/Dr-Rakesh/Answer-automation/pkg/metrics"
)

// Artifact is the JSON document persisted for every successful QA response
type Artifact struct {
	Question        string         `json:"question"`
	Product         string         `json:"product"`
	Version         string         `json:"version"`
	Timestamp       string         `json:"timestamp"`
	ResponseRaw     map[string]any `json:"response_raw"`
	ResponseMessage string         `json:"response_message"`
}

// ArtifactStore writes one timestamped JSON file per QA response
type ArtifactStore struct {
	dir     string
	archive *ArchiveService // optional mirror, nil when disabled
}

func NewArtifactStore(dir string, archive *ArchiveService) *ArtifactStore {
	return &ArtifactStore{dir: dir, archive: archive}
}

// Save writes the raw QA response as an indented JSON artifact and
// returns the file path. Artifacts are write-once; nothing updates them.
func (s *ArtifactStore) Save(ctx context.Context, raw map[string]any, question, product, version string) (string, error) {
	now := time.Now()
	message, _ := raw["message"].(string)

	artifact := Artifact{
		Question:        question,
		Product:         product,
		Version:         version,
		Timestamp:       now.Format("2006-01-02 15:04:05"),
		ResponseRaw:     raw,
		ResponseMessage: message,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact: %w", err)
	}

	// TODO: identical sanitized prefixes in the same second overwrite each
	// other; add a disambiguating suffix if that shows up in practice
	name := fmt.Sprintf("%s_%s.json", sanitizeQuestion(question), now.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	metrics.ArtifactsWritten.Inc()

	if s.archive != nil {
		if err := s.archive.Put(ctx, name, data); err != nil {
			logger.Warn(ctx, "artifact archive upload failed", "object", name, "error", err)
		}
	}

	return path, nil
}

// sanitizeQuestion keeps letters and digits from the first 30 runes and
// replaces every other rune with an underscore.
func sanitizeQuestion(q string) string {
	var b strings.Builder
	count := 0
	for _, r := range q {
		if count >= 30 {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		count++
	}
	return b.String()
}

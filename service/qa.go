package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/config"
	"github.com/Dr-Rakesh/Answer-automation/pkg/metrics"
)

// QAService calls the remote question-answering API
type QAService struct {
	config     *config.QAConfig
	httpClient *http.Client
}

// QARequest represents the payload sent for each spreadsheet row
type QARequest struct {
	Question string `json:"question"`
	Product  string `json:"product"`
	Version  string `json:"version"`
}

// QAAnswer holds the parsed response for one question
type QAAnswer struct {
	Message string
	Raw     map[string]any
}

// StatusError reports a non-200 reply from the QA API
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("QA API returned status %d", e.StatusCode)
}

func NewQAService(cfg *config.QAConfig) *QAService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &QAService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Ask sends one question to the QA API. The question goes out verbatim,
// untrimmed; callers decide which cells are worth asking about. Exactly
// one attempt per call, no retries.
func (s *QAService) Ask(ctx context.Context, question, product, version string) (*QAAnswer, error) {
	reqBody := QARequest{
		Question: question,
		Product:  product,
		Version:  version,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	if s.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIToken)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	metrics.QARequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	// Absent or non-string message becomes an empty answer
	message, _ := raw["message"].(string)

	return &QAAnswer{Message: message, Raw: raw}, nil
}

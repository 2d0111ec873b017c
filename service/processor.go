package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dr-Rakesh/Answer-automation/model"
	"github.com/Dr-Rakesh/Answer-automation/pkg/logger"
	"github.com/Dr-Rakesh/Answer-automation/pkg/metrics"
)

const (
	colQuestion      = "Question"
	colExtractedText = "Extracted Text"
	colExtractedURL  = "Extracted URL"

	noURLFound       = "No URL found"
	errTextAPIStatus = "Error: Failed to get response from API"
	errTextRequest   = "Error: API request failed"
)

// evaluationColumns are appended to every processed sheet ahead of the
// derived columns; reviewers fill them in after the run.
var evaluationColumns = []string{
	"Relevance",
	"Accuracy",
	"Clarity",
	"Tone and Politeness",
	"Completeness",
	"Engagement",
	"User Satisfaction",
	"Bias and Ethical",
	"Cross-Session Continuity",
	"Information Provenance",
}

var (
	// ErrUnsupportedFormat rejects uploads that are not .xlsx or .csv
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingQuestionColumn rejects sheets without a Question column
	ErrMissingQuestionColumn = errors.New("missing Question column")
)

// Result describes a finished batch
type Result struct {
	BatchID       string
	OutputPath    string
	OutputName    string
	RowsTotal     int
	RowsProcessed int
	RowsFailed    int
}

// RowResult carries the derived cell values for one evaluated row
type RowResult struct {
	Text   string
	URL    string
	Failed bool
}

// Processor runs uploaded spreadsheets through the QA API row by row
type Processor struct {
	qa        *QAService
	artifacts *ArtifactStore
	store     *BatchStore
	outputDir string
}

func NewProcessor(qa *QAService, artifacts *ArtifactStore, store *BatchStore, outputDir string) *Processor {
	return &Processor{
		qa:        qa,
		artifacts: artifacts,
		store:     store,
		outputDir: outputDir,
	}
}

// ProcessUpload runs one uploaded spreadsheet through the QA API and
// returns the processed output file. Rows are handled strictly in order,
// one at a time; a batch of N rows may take up to N request timeouts.
func (p *Processor) ProcessUpload(ctx context.Context, data []byte, filename, product, version string) (*Result, error) {
	batch := &model.Batch{
		ID:        uuid.New().String(),
		Filename:  filename,
		Product:   product,
		Version:   version,
		Status:    model.StatusProcessing,
		CreatedAt: time.Now(),
	}
	p.store.Save(batch)

	// A dropped client must not cancel in-flight rows; the per-row
	// request timeout is the only bound on a running batch.
	ctx = context.WithoutCancel(ctx)
	ctx = context.WithValue(ctx, logger.BatchIDKey, batch.ID)
	ctx = context.WithValue(ctx, logger.FilenameKey, filename)

	start := time.Now()
	result, err := p.process(ctx, data, filename, product, version)
	metrics.UploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error(ctx, "batch failed", "error", err)
		p.store.UpdateStatus(batch.ID, model.StatusFailed, err.Error())
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	p.store.UpdateResult(batch.ID, result.OutputPath, result.RowsTotal, result.RowsProcessed, result.RowsFailed)
	metrics.UploadsTotal.WithLabelValues("completed").Inc()
	result.BatchID = batch.ID
	return result, nil
}

func (p *Processor) process(ctx context.Context, data []byte, filename, product, version string) (*Result, error) {
	// Keep a working copy of the upload before any validation
	base := filepath.Base(filename)
	workingPath := filepath.Join(p.outputDir, base)
	if err := os.WriteFile(workingPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	logger.Info(ctx, "upload saved", "path", workingPath, "size", len(data))

	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".xlsx" && ext != ".csv" {
		return nil, ErrUnsupportedFormat
	}

	table, err := LoadTable(data, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	questionCol := table.ColumnIndex(colQuestion)
	if questionCol < 0 {
		return nil, ErrMissingQuestionColumn
	}

	for _, name := range evaluationColumns {
		table.EnsureColumn(name)
	}
	textCol := table.EnsureColumn(colExtractedText)
	urlCol := table.EnsureColumn(colExtractedURL)

	result := &Result{RowsTotal: len(table.Rows)}
	for i := range table.Rows {
		question := table.Get(i, questionCol)
		row, err := p.processRow(ctx, question, product, version)
		if err != nil {
			return nil, err
		}
		if row == nil {
			// Blank question, leave the derived cells alone
			metrics.RowsProcessed.WithLabelValues("skipped").Inc()
			continue
		}
		table.Set(i, textCol, row.Text)
		table.Set(i, urlCol, row.URL)
		result.RowsProcessed++
		if row.Failed {
			result.RowsFailed++
		}
	}

	outputName := fmt.Sprintf("processed_%s%s", time.Now().Format("20060102_150405"), ext)
	outputPath := filepath.Join(p.outputDir, outputName)
	if err := table.Save(outputPath); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info(ctx, "batch completed",
		"rows_total", result.RowsTotal,
		"rows_processed", result.RowsProcessed,
		"rows_failed", result.RowsFailed,
		"output", outputPath,
	)

	result.OutputPath = outputPath
	result.OutputName = outputName
	return result, nil
}

// processRow asks the QA API about one row's question. A blank question
// returns a nil result without a remote call. Remote failures fill the
// sentinel cell pair and never fail the batch; artifact write errors do.
func (p *Processor) processRow(ctx context.Context, question, product, version string) (*RowResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil
	}

	answer, err := p.qa.Ask(ctx, question, product, version)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logger.Warn(ctx, "QA API returned error status",
				"status", statusErr.StatusCode,
				"question", question,
			)
			metrics.RowsProcessed.WithLabelValues("api_error").Inc()
			return &RowResult{Text: errTextAPIStatus, URL: noURLFound, Failed: true}, nil
		}

		logger.Warn(ctx, "QA API request failed", "error", err, "question", question)
		metrics.RowsProcessed.WithLabelValues("request_failed").Inc()
		return &RowResult{Text: errTextRequest, URL: noURLFound, Failed: true}, nil
	}

	if _, err := p.artifacts.Save(ctx, answer.Raw, question, product, version); err != nil {
		return nil, fmt.Errorf("failed to persist response artifact: %w", err)
	}

	urls := ExtractURLs(answer.Message)
	urlCell := noURLFound
	if len(urls) > 0 {
		urlCell = strings.Join(urls, "\n")
	}

	metrics.RowsProcessed.WithLabelValues("answered").Inc()
	return &RowResult{Text: answer.Message, URL: urlCell}, nil
}

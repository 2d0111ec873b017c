package model

import (
	"time"
)

// Batch represents one uploaded spreadsheet run through the QA API
type Batch struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	Product       string    `json:"product"`
	Version       string    `json:"version"`
	Status        string    `json:"status"` // pending, processing, completed, failed
	RowsTotal     int       `json:"rows_total"`
	RowsProcessed int       `json:"rows_processed"`
	RowsFailed    int       `json:"rows_failed"`
	OutputFile    string    `json:"output_file,omitempty"`
	ErrorMsg      string    `json:"error_msg,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BatchStatus constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

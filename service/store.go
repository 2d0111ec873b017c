package service

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/config"
	"github.com/Dr-Rakesh/Answer-automation/model"
)

// BatchStore is an in-memory registry of upload batches
// In production, this should be replaced with a database
type BatchStore struct {
	batches    map[string]*model.Batch
	mu         sync.RWMutex
	maxBatches int // Maximum batches to keep, 0 = unlimited
}

var (
	globalStore *BatchStore
	storeOnce   sync.Once
)

// InitBatchStore initializes the global batch store with configuration
func InitBatchStore(cfg *config.StoreConfig) {
	storeOnce.Do(func() {
		maxBatches := cfg.MaxBatches
		if maxBatches < 0 {
			maxBatches = 0
		}
		globalStore = &BatchStore{
			batches:    make(map[string]*model.Batch),
			maxBatches: maxBatches,
		}
		slog.Info("batch store initialized", "max_batches", maxBatches)
	})
}

// GetBatchStore returns the global batch store
func GetBatchStore() *BatchStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = &BatchStore{
			batches:    make(map[string]*model.Batch),
			maxBatches: 100, // Default: keep 100 batches
		}
	}
	return globalStore
}

func (s *BatchStore) Save(batch *model.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch.UpdatedAt = time.Now()
	s.batches[batch.ID] = batch

	// Cleanup if exceeds max
	s.cleanupIfNeeded()
}

func (s *BatchStore) Get(id string) *model.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batches[id]
}

// List returns all batches, newest first
func (s *BatchStore) List() []*model.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Batch, 0, len(s.batches))
	for _, b := range s.batches {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *BatchStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, id)
}

func (s *BatchStore) UpdateStatus(id, status string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.batches[id]; ok {
		b.Status = status
		b.ErrorMsg = errMsg
		b.UpdatedAt = time.Now()
	}
}

// UpdateResult records the row counters and output file of a finished batch
func (s *BatchStore) UpdateResult(id, outputFile string, rowsTotal, rowsProcessed, rowsFailed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.batches[id]; ok {
		b.OutputFile = outputFile
		b.RowsTotal = rowsTotal
		b.RowsProcessed = rowsProcessed
		b.RowsFailed = rowsFailed
		b.Status = model.StatusCompleted
		b.UpdatedAt = time.Now()
	}
}

// cleanupIfNeeded removes oldest batches if store exceeds maxBatches
// Must be called with lock held
func (s *BatchStore) cleanupIfNeeded() {
	if s.maxBatches <= 0 {
		return // Unlimited
	}

	if len(s.batches) <= s.maxBatches {
		return
	}

	// Sort batches by creation time
	batches := make([]*model.Batch, 0, len(s.batches))
	for _, b := range s.batches {
		batches = append(batches, b)
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})

	// Remove oldest batches
	removeCount := len(batches) - s.maxBatches
	for i := 0; i < removeCount; i++ {
		slog.Info("auto-cleaning old batch",
			"batch_id", batches[i].ID,
			"created_at", batches[i].CreatedAt,
		)
		delete(s.batches, batches[i].ID)
	}
}

// Count returns the number of batches in the store
func (s *BatchStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}

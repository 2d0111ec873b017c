package handler

import (
	"net/http"

	"github.com/Dr-Rakesh/Answer-automation/service"
	"github.com/gin-gonic/gin"
)

type BatchHandler struct {
	store *service.BatchStore
}

func NewBatchHandler() *BatchHandler {
	return &BatchHandler{store: service.GetBatchStore()}
}

// List returns recent batches, newest first
func (h *BatchHandler) List(c *gin.Context) {
	batches := h.store.List()

	result := make([]gin.H, len(batches))
	for i, batch := range batches {
		result[i] = gin.H{
			"id":             batch.ID,
			"filename":       batch.Filename,
			"product":        batch.Product,
			"version":        batch.Version,
			"status":         batch.Status,
			"rows_total":     batch.RowsTotal,
			"rows_processed": batch.RowsProcessed,
			"rows_failed":    batch.RowsFailed,
			"created_at":     batch.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"updated_at":     batch.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, gin.H{"batches": result})
}

// Get returns a single batch record
func (h *BatchHandler) Get(c *gin.Context) {
	batch := h.store.Get(c.Param("id"))
	if batch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}

	c.JSON(http.StatusOK, batch)
}

// Delete removes a batch record
func (h *BatchHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if h.store.Get(id) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Batch not found"})
		return
	}
	h.store.Delete(id)

	c.JSON(http.StatusOK, gin.H{"message": "Batch deleted"})
}

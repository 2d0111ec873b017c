package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Dr-Rakesh/Answer-automation/service"
	"github.com/gin-gonic/gin"
)

type ProcessHandler struct {
	processor *service.Processor
}

func NewProcessHandler(processor *service.Processor) *ProcessHandler {
	return &ProcessHandler{processor: processor}
}

// Upload accepts a question spreadsheet, runs the batch to completion
// and returns the annotated spreadsheet as a download.
func (h *ProcessHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	product := strings.TrimSpace(c.PostForm("product"))
	version := strings.TrimSpace(c.PostForm("version"))
	if product == "" || version == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product and version are required"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	result, err := h.processor.ProcessUpload(c.Request.Context(), data, header.Filename, product, version)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file format. Upload Excel or CSV files."})
		case errors.Is(err, service.ErrMissingQuestionColumn):
			c.JSON(http.StatusBadRequest, gin.H{"error": "The uploaded file must contain a 'Question' column."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Header("X-Batch-ID", result.BatchID)
	c.FileAttachment(result.OutputPath, result.OutputName)
}

package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/pkg/logger"
	"github.com/gin-gonic/gin"
)

type FrontendHandler struct {
	staticDir string
}

func NewFrontendHandler(staticDir string) *FrontendHandler {
	return &FrontendHandler{staticDir: staticDir}
}

// Index serves the upload page. The page is read per request so edits
// to the static files show up without a restart.
func (h *FrontendHandler) Index(c *gin.Context) {
	page, err := os.ReadFile(filepath.Join(h.staticDir, "index.html"))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to read frontend page", "error", err, "static_dir", h.staticDir)
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
			[]byte("<h1>Error: Frontend files not found</h1>"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Health reports liveness
func (h *FrontendHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

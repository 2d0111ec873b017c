package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/model"
	"github.com/Dr-Rakesh/Answer-automation/service"
	"github.com/gin-gonic/gin"
)

func TestBatchHandlerList(t *testing.T) {
	store := service.GetBatchStore()

	store.Save(&model.Batch{
		ID:        "list-1",
		Filename:  "a.csv",
		Product:   "widget",
		Version:   "1.0",
		Status:    model.StatusCompleted,
		CreatedAt: time.Now(),
	})
	store.Save(&model.Batch{
		ID:        "list-2",
		Filename:  "b.xlsx",
		Product:   "widget",
		Version:   "2.0",
		Status:    model.StatusProcessing,
		CreatedAt: time.Now(),
	})
	defer store.Delete("list-1")
	defer store.Delete("list-2")

	handler := &BatchHandler{store: store}

	router := gin.New()
	router.GET("/api/batches", handler.List)

	req := httptest.NewRequest("GET", "/api/batches", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string][]map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	found := map[string]bool{}
	for _, b := range response["batches"] {
		if id, ok := b["id"].(string); ok {
			found[id] = true
		}
	}
	if !found["list-1"] || !found["list-2"] {
		t.Errorf("Expected both saved batches in list, got %v", response["batches"])
	}
}

func TestBatchHandlerGet(t *testing.T) {
	store := service.GetBatchStore()

	store.Save(&model.Batch{
		ID:        "get-test",
		Filename:  "q.csv",
		Status:    model.StatusCompleted,
		CreatedAt: time.Now(),
	})
	defer store.Delete("get-test")

	handler := &BatchHandler{store: store}

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{
			name:           "valid get",
			id:             "get-test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-existent",
			id:             "non-existent",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/batches/:id", handler.Get)

			req := httptest.NewRequest("GET", "/api/batches/"+tt.id, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestBatchHandlerDelete(t *testing.T) {
	store := service.GetBatchStore()

	store.Save(&model.Batch{
		ID:        "delete-test",
		Filename:  "q.csv",
		CreatedAt: time.Now(),
	})

	handler := &BatchHandler{store: store}

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{
			name:           "valid delete",
			id:             "delete-test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "already deleted",
			id:             "delete-test",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.DELETE("/api/batches/:id", handler.Delete)

			req := httptest.NewRequest("DELETE", "/api/batches/"+tt.id, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestNewBatchHandler(t *testing.T) {
	handler := NewBatchHandler()
	if handler == nil {
		t.Fatal("Expected non-nil handler")
	}
	if handler.store == nil {
		t.Error("Expected store to be initialized")
	}
}

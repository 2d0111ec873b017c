package service

import (
	"context"
	"testing"

	"github.com/Dr-Rakesh/Answer-automation/config"
)

func TestNewArchiveService(t *testing.T) {
	cfg := &config.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "artifacts",
		UseSSL:    false,
	}

	svc, err := NewArchiveService(cfg)
	// The client is created lazily; the connection is tested on first operation
	if err != nil {
		t.Fatalf("Unexpected error creating archive service: %v", err)
	}
	if svc == nil {
		t.Fatal("Expected non-nil service")
	}
	if svc.bucket != "artifacts" {
		t.Errorf("Expected bucket 'artifacts', got '%s'", svc.bucket)
	}
}

func TestNewArchiveServiceInvalidEndpoint(t *testing.T) {
	cfg := &config.ArchiveConfig{
		Endpoint:  "not a valid endpoint",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "artifacts",
	}

	if _, err := NewArchiveService(cfg); err == nil {
		t.Error("Expected error for malformed endpoint")
	}
}

func TestArchiveServiceEnsureBucket(t *testing.T) {
	// Note: This requires an actual MinIO connection or proper mocking
	t.Skip("Archive operations require a live S3-compatible endpoint")
}

func TestArchiveServicePut(t *testing.T) {
	// Note: This requires an actual MinIO connection or proper mocking
	t.Skip("Archive operations require a live S3-compatible endpoint")
}

func TestArchiveServicePutCancelledContext(t *testing.T) {
	cfg := &config.ArchiveConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "artifacts",
	}

	svc, err := NewArchiveService(cfg)
	if err != nil {
		t.Skip("Could not create archive service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.Put(ctx, "test.json", []byte("{}")); err == nil {
		t.Log("Put with cancelled context - error handling depends on client implementation")
	}
}

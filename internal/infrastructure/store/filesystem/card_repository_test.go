package filesystem

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"roastcard/internal/domain/entity"
)

func TestNewCardRepositoryCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cards", "out")

	if _, err := NewCardRepository(dir); err != nil {
		t.Fatalf("NewCardRepository: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}

func TestNewCardRepositoryRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCardRepository(path); err == nil {
		t.Fatal("expected error for a non-directory path")
	}
}

func TestSaveCard(t *testing.T) {
	repo, err := NewCardRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	card := &entity.CardArtifact{
		RequestID:   "req-1",
		Image:       []byte("\x89PNG\r\n"),
		ContentType: "image/png",
		Filename:    entity.CardFilename("Tech Mahindra", "Engineers"),
		Category:    "service",
		Roast:       entity.RoastResult{Text: "a roast", Cost: 0.015},
	}

	path, err := repo.SaveCard(context.Background(), card)
	if err != nil {
		t.Fatalf("SaveCard: %v", err)
	}
	if filepath.Base(path) != "tal-tech-mahindra-engineers.png" {
		t.Errorf("path = %q", path)
	}

	img, err := os.ReadFile(path)
	if err != nil || string(img) != "\x89PNG\r\n" {
		t.Fatalf("image not written: %v %q", err, img)
	}

	raw, err := os.ReadFile(path + ".json")
	if err != nil {
		t.Fatalf("metadata not written: %v", err)
	}
	var meta struct {
		RequestID string              `json:"request_id"`
		Card      entity.CardArtifact `json:"card"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.RequestID != "req-1" || meta.Card.Roast.Text != "a roast" || meta.Card.Category != "service" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if len(meta.Card.Image) != 0 {
		t.Errorf("image bytes must not be embedded in metadata")
	}
}

func TestSaveCardWithoutFilename(t *testing.T) {
	repo, err := NewCardRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.SaveCard(context.Background(), &entity.CardArtifact{}); err == nil {
		t.Fatal("expected error")
	}
}

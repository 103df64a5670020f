package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"

	"gopkg.in/yaml.v3"
)

func newExport(t *testing.T) (*ExportService, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = dir

	quiz := NewQuizService(scienceSource(), nil)
	return NewExportService(quiz, NewStorageService(cfg, nil), nil), dir
}

func TestExportJSON(t *testing.T) {
	s, dir := newExport(t)

	res, err := s.Export(context.Background(), "science", util.ExportFormatJSON)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(res.Key, "exports/science-") || !strings.HasSuffix(res.Key, ".json") {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if res.Questions != 3 {
		t.Fatalf("want 3 questions, got %d", res.Questions)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var snap model.CategorySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Category.Slug != "science" || snap.Source != "fake" || len(snap.Questions) != 3 {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
}

func TestExportYAMLRoundTrip(t *testing.T) {
	s, dir := newExport(t)

	res, err := s.Export(context.Background(), "science", util.ExportFormatYAML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "slug: science") {
		t.Fatalf("yaml missing slug:\n%s", data)
	}

	var snap model.CategorySnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Questions[2].Answers[2].Text != "Helium" || !snap.Questions[2].Answers[2].Correct {
		t.Fatalf("answers lost in yaml: %#v", snap.Questions[2].Answers)
	}
	if snap.Questions[0].ID != "10" {
		t.Fatalf("want id 10, got %q", snap.Questions[0].ID)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	s, _ := newExport(t)
	if _, err := s.Export(context.Background(), "science", "xml"); err == nil {
		t.Fatalf("xml export accepted")
	}
}

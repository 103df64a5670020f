package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type ExportResult struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Questions int    `json:"questions"`
}

// ExportService writes a snapshot of one category and its questions to
// object storage.
type ExportService struct {
	Quiz    *QuizService
	Storage *StorageService
	log     *zap.Logger
}

func NewExportService(quiz *QuizService, storage *StorageService, log *zap.Logger) *ExportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportService{Quiz: quiz, Storage: storage, log: log}
}

func (s *ExportService) Export(ctx context.Context, slug, format string) (*ExportResult, error) {
	if format == "" {
		format = util.ExportFormatJSON
	}

	page, err := s.Quiz.GetCategoryPage(ctx, slug)
	if err != nil {
		return nil, err
	}

	snapshot := model.CategorySnapshot{
		ExportedAt: time.Now().UTC(),
		Source:     s.Quiz.Source.Name(),
		Category:   page.Category,
		Questions:  page.Questions,
	}

	data, contentType, err := EncodeSnapshot(snapshot, format)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s-%s.%s", slug, uuid.NewString(), format)
	url, err := s.Storage.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("store export %s: %w", key, err)
	}

	s.log.Info("category exported",
		zap.String("slug", slug),
		zap.String("key", key),
		zap.Int("questions", len(page.Questions)),
	)
	return &ExportResult{Key: key, URL: url, Format: format, Questions: len(page.Questions)}, nil
}

// EncodeSnapshot renders a snapshot as json or yaml.
func EncodeSnapshot(snapshot model.CategorySnapshot, format string) ([]byte, string, error) {
	switch format {
	case util.ExportFormatJSON:
		data, err := json.MarshalIndent(snapshot, "", "  ")
		return data, "application/json", err
	case util.ExportFormatYAML:
		data, err := yaml.Marshal(snapshot)
		return data, "application/yaml", err
	}
	return nil, "", &ValidationError{Messages: []string{fmt.Sprintf("unsupported export format %q", format)}}
}

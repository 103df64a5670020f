package datasource

import (
	"context"
	"fmt"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"
)

// CMSClient is the part of datocms.Client the CMS adapter needs.
type CMSClient interface {
	FetchAllCategories(ctx context.Context) []model.Category
	FetchCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
	FetchQuestionsByCategorySlug(ctx context.Context, slug string) ([]model.Question, error)
	FetchAllQuestions(ctx context.Context) []model.Question
}

// CMSSource serves quiz data edited in DatoCMS. Content is managed in the
// CMS itself, so every mutation fails with util.ErrReadOnlySource.
type CMSSource struct {
	Client CMSClient
}

func NewCMSSource(client CMSClient) *CMSSource {
	return &CMSSource{Client: client}
}

func (s *CMSSource) Name() string { return "cms" }

func (s *CMSSource) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Client.FetchAllCategories(ctx), nil
}

func (s *CMSSource) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	return s.Client.FetchCategoryBySlug(ctx, slug)
}

func (s *CMSSource) ListQuestions(ctx context.Context, categorySlug string) ([]model.Question, error) {
	return s.Client.FetchQuestionsByCategorySlug(ctx, categorySlug)
}

// GetQuestion scans all questions; the CMS has no single-question query in
// the schema this service targets.
func (s *CMSSource) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	for _, q := range s.Client.FetchAllQuestions(ctx) {
		if q.ID == id {
			return q, nil
		}
	}
	return model.Question{}, fmt.Errorf("question %s: %w", id, util.ErrNotFound)
}

func (s *CMSSource) CreateCategory(context.Context, model.CategoryInput) (model.Category, error) {
	return model.Category{}, util.ErrReadOnlySource
}

func (s *CMSSource) UpdateCategory(context.Context, string, model.CategoryInput) (model.Category, error) {
	return model.Category{}, util.ErrReadOnlySource
}

func (s *CMSSource) DeleteCategory(context.Context, string) error {
	return util.ErrReadOnlySource
}

func (s *CMSSource) CreateQuestion(context.Context, model.QuestionInput) (model.Question, error) {
	return model.Question{}, util.ErrReadOnlySource
}

func (s *CMSSource) UpdateQuestion(context.Context, model.ID, model.QuestionInput) (model.Question, error) {
	return model.Question{}, util.ErrReadOnlySource
}

func (s *CMSSource) DeleteQuestion(context.Context, model.ID) error {
	return util.ErrReadOnlySource
}

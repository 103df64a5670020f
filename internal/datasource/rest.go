package datasource

import (
	"context"

	"quiz_portal_backend/internal/model"
)

// RESTClient is the part of quizapi.Client the REST adapter needs.
type RESTClient interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, slug string) (model.Category, error)
	CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error)
	UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error)
	DeleteCategory(ctx context.Context, slug string) error
	ListQuestionsByCategory(ctx context.Context, slug string) ([]model.Question, error)
	GetQuestion(ctx context.Context, id model.ID) (model.Question, error)
	CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error)
	UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error)
	DeleteQuestion(ctx context.Context, id model.ID) error
}

type RESTSource struct {
	Client RESTClient
}

func NewRESTSource(client RESTClient) *RESTSource {
	return &RESTSource{Client: client}
}

func (s *RESTSource) Name() string { return "rest" }

func (s *RESTSource) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Client.ListCategories(ctx)
}

func (s *RESTSource) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	return s.Client.GetCategory(ctx, slug)
}

func (s *RESTSource) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	return s.Client.CreateCategory(ctx, in)
}

func (s *RESTSource) UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error) {
	return s.Client.UpdateCategory(ctx, slug, in)
}

func (s *RESTSource) DeleteCategory(ctx context.Context, slug string) error {
	return s.Client.DeleteCategory(ctx, slug)
}

func (s *RESTSource) ListQuestions(ctx context.Context, categorySlug string) ([]model.Question, error) {
	return s.Client.ListQuestionsByCategory(ctx, categorySlug)
}

func (s *RESTSource) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	return s.Client.GetQuestion(ctx, id)
}

func (s *RESTSource) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	return s.Client.CreateQuestion(ctx, in)
}

func (s *RESTSource) UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error) {
	return s.Client.UpdateQuestion(ctx, id, in)
}

func (s *RESTSource) DeleteQuestion(ctx context.Context, id model.ID) error {
	return s.Client.DeleteQuestion(ctx, id)
}

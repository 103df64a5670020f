// Package datasource puts the REST backend, the CMS and the embedded store
// behind one QuizDataSource so the rest of the service does not care where
// quiz data lives.
package datasource

import (
	"context"
	"fmt"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/model"
)

type QuizDataSource interface {
	Name() string

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, slug string) (model.Category, error)
	CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error)
	UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error)
	DeleteCategory(ctx context.Context, slug string) error

	ListQuestions(ctx context.Context, categorySlug string) ([]model.Question, error)
	GetQuestion(ctx context.Context, id model.ID) (model.Question, error)
	CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error)
	UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error)
	DeleteQuestion(ctx context.Context, id model.ID) error
}

// Backends holds whatever clients were built at startup; New picks one.
type Backends struct {
	REST  RESTClient
	CMS   CMSClient
	Store *StoreSource
}

// New returns the adapter named by cfg.DataSource.Type.
func New(cfg *config.Config, b Backends) (QuizDataSource, error) {
	switch cfg.DataSource.Type {
	case config.DataSourceREST, "":
		if b.REST == nil {
			return nil, fmt.Errorf("datasource %q: rest client not configured", cfg.DataSource.Type)
		}
		return NewRESTSource(b.REST), nil
	case config.DataSourceCMS:
		if b.CMS == nil {
			return nil, fmt.Errorf("datasource %q: cms client not configured", cfg.DataSource.Type)
		}
		return NewCMSSource(b.CMS), nil
	case config.DataSourceStore:
		if b.Store == nil {
			return nil, fmt.Errorf("datasource %q: store not configured", cfg.DataSource.Type)
		}
		return b.Store, nil
	}
	return nil, fmt.Errorf("unknown datasource type %q", cfg.DataSource.Type)
}

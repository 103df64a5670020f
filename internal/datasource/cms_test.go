package datasource

import (
	"context"
	"errors"
	"testing"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"
)

type fakeCMS struct {
	questions []model.Question
}

func (f fakeCMS) FetchAllCategories(context.Context) []model.Category {
	return []model.Category{{ID: "c1", Title: "Vísindi", Slug: "visindi"}}
}

func (f fakeCMS) FetchCategoryBySlug(_ context.Context, slug string) (model.Category, error) {
	if slug != "visindi" {
		return model.Category{}, util.ErrNotFound
	}
	return model.Category{ID: "c1", Title: "Vísindi", Slug: "visindi"}, nil
}

func (f fakeCMS) FetchQuestionsByCategorySlug(ctx context.Context, slug string) ([]model.Question, error) {
	if _, err := f.FetchCategoryBySlug(ctx, slug); err != nil {
		return nil, err
	}
	return f.questions, nil
}

func (f fakeCMS) FetchAllQuestions(context.Context) []model.Question {
	return f.questions
}

func TestCMSSourceIsReadOnly(t *testing.T) {
	s := NewCMSSource(fakeCMS{})
	ctx := context.Background()

	if _, err := s.CreateCategory(ctx, model.CategoryInput{Title: "x"}); !errors.Is(err, util.ErrReadOnlySource) {
		t.Fatalf("create category: want ErrReadOnlySource, got %v", err)
	}
	if err := s.DeleteQuestion(ctx, "1"); !errors.Is(err, util.ErrReadOnlySource) {
		t.Fatalf("delete question: want ErrReadOnlySource, got %v", err)
	}
}

func TestCMSSourceGetQuestionScans(t *testing.T) {
	s := NewCMSSource(fakeCMS{questions: []model.Question{
		{ID: "q1", Text: "Hvað er H2O?"},
		{ID: "q2", Text: "Hvað er NaCl?"},
	}})
	ctx := context.Background()

	q, err := s.GetQuestion(ctx, "q2")
	if err != nil || q.Text != "Hvað er NaCl?" {
		t.Fatalf("unexpected %#v %v", q, err)
	}
	if _, err := s.GetQuestion(ctx, "q3"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestNewSelectsAdapter(t *testing.T) {
	cfg := &config.Config{}
	cfg.DataSource.Type = config.DataSourceCMS

	src, err := New(cfg, Backends{CMS: fakeCMS{}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if src.Name() != "cms" {
		t.Fatalf("want cms source, got %q", src.Name())
	}

	cfg.DataSource.Type = config.DataSourceStore
	if _, err := New(cfg, Backends{CMS: fakeCMS{}}); err == nil {
		t.Fatalf("store without database should fail")
	}

	cfg.DataSource.Type = "graphql"
	if _, err := New(cfg, Backends{}); err == nil {
		t.Fatalf("unknown type should fail")
	}
}

package datasource

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"quiz_portal_backend/internal/model"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

var errCacheDown = errors.New("cache down")

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, false, errCacheDown
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errCacheDown
	}
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	return nil
}

// countingSource embeds the interface so only the methods under test need
// implementations.
type countingSource struct {
	QuizDataSource
	calls map[string]int
}

func newCountingSource() *countingSource {
	return &countingSource{calls: map[string]int{}}
}

func (s *countingSource) Name() string { return "fake" }

func (s *countingSource) ListCategories(context.Context) ([]model.Category, error) {
	s.calls["ListCategories"]++
	return []model.Category{{ID: "1", Title: "Planets", Slug: "planets"}}, nil
}

func (s *countingSource) ListQuestions(_ context.Context, slug string) ([]model.Question, error) {
	s.calls["ListQuestions:"+slug]++
	return []model.Question{{ID: "9", Text: "Largest planet?", CategoryID: "1", Answers: []model.Answer{}}}, nil
}

func (s *countingSource) CreateCategory(_ context.Context, in model.CategoryInput) (model.Category, error) {
	return model.Category{ID: "2", Title: in.Title, Slug: "moons"}, nil
}

func (s *countingSource) DeleteQuestion(context.Context, model.ID) error {
	return nil
}

func (s *countingSource) GetQuestion(_ context.Context, id model.ID) (model.Question, error) {
	s.calls["GetQuestion:"+id.String()]++
	return model.Question{ID: id, Text: "Largest planet?", CategoryID: "1"}, nil
}

func (s *countingSource) DeleteCategory(context.Context, string) error {
	return nil
}

func TestCachedSourceReadThrough(t *testing.T) {
	src := newCountingSource()
	cache := newMemCache()
	c := Cached(src, cache, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cats, err := c.ListCategories(ctx)
		if err != nil || len(cats) != 1 || cats[0].Slug != "planets" {
			t.Fatalf("unexpected result %#v %v", cats, err)
		}
	}
	if src.calls["ListCategories"] != 1 {
		t.Fatalf("want 1 source call, got %d", src.calls["ListCategories"])
	}

	if _, err := c.CreateCategory(ctx, model.CategoryInput{Title: "Moons"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.ListCategories(ctx)
	if src.calls["ListCategories"] != 2 {
		t.Fatalf("create should invalidate the list, calls=%d", src.calls["ListCategories"])
	}
}

func TestCachedSourceQuestionInvalidation(t *testing.T) {
	src := newCountingSource()
	c := Cached(src, newMemCache(), time.Minute, nil)
	ctx := context.Background()

	c.ListQuestions(ctx, "planets")
	c.ListQuestions(ctx, "moons")
	c.ListQuestions(ctx, "planets")
	if src.calls["ListQuestions:planets"] != 1 {
		t.Fatalf("want cached question list, calls=%d", src.calls["ListQuestions:planets"])
	}

	if err := c.DeleteQuestion(ctx, "9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c.ListQuestions(ctx, "planets")
	c.ListQuestions(ctx, "moons")
	if src.calls["ListQuestions:planets"] != 2 || src.calls["ListQuestions:moons"] != 2 {
		t.Fatalf("question mutation should drop every list, calls=%v", src.calls)
	}

	c.GetQuestion(ctx, "9")
	c.GetQuestion(ctx, "9")
	if src.calls["GetQuestion:9"] != 1 {
		t.Fatalf("want cached question, calls=%d", src.calls["GetQuestion:9"])
	}

	// 删除分类会连带删除其题目
	if err := c.DeleteCategory(ctx, "planets"); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	c.GetQuestion(ctx, "9")
	c.ListQuestions(ctx, "planets")
	if src.calls["GetQuestion:9"] != 2 || src.calls["ListQuestions:planets"] != 3 {
		t.Fatalf("category delete should drop its questions, calls=%v", src.calls)
	}
}

func TestCachedSourceSurvivesCacheFailure(t *testing.T) {
	src := newCountingSource()
	cache := newMemCache()
	cache.fail = true
	c := Cached(src, cache, time.Minute, nil)

	cats, err := c.ListCategories(context.Background())
	if err != nil || len(cats) != 1 {
		t.Fatalf("cache failure must not fail the read: %#v %v", cats, err)
	}
}

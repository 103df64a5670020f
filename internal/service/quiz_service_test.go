package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"quiz_portal_backend/internal/datasource"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"
)

// fakeSource embeds the interface; calling a method it does not override
// panics, which flags an unexpected datasource call.
type fakeSource struct {
	datasource.QuizDataSource
	category  model.Category
	questions []model.Question
	listErr   error
	mutations atomic.Int32
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) GetCategory(_ context.Context, slug string) (model.Category, error) {
	if slug != f.category.Slug {
		return model.Category{}, util.ErrNotFound
	}
	return f.category, nil
}

func (f *fakeSource) ListQuestions(context.Context, string) ([]model.Question, error) {
	return f.questions, f.listErr
}

func (f *fakeSource) GetQuestion(_ context.Context, id model.ID) (model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return model.Question{}, util.ErrNotFound
}

func (f *fakeSource) CreateQuestion(_ context.Context, in model.QuestionInput) (model.Question, error) {
	f.mutations.Add(1)
	return model.Question{ID: "100", Text: in.Text, CategoryID: in.CategoryID}, nil
}

func (f *fakeSource) CreateCategory(_ context.Context, in model.CategoryInput) (model.Category, error) {
	f.mutations.Add(1)
	return model.Category{ID: "5", Title: in.Title, Slug: util.Slugify(in.Title)}, nil
}

func scienceSource() *fakeSource {
	return &fakeSource{
		category: model.Category{ID: "1", Title: "Science", Slug: "science"},
		questions: []model.Question{
			{ID: "10", Text: "What is H2O?", CategoryID: "1", Answers: []model.Answer{
				{ID: "100", Text: "Water", Correct: true},
				{ID: "101", Text: "Salt"},
			}},
			{ID: "11", Text: "Unfinished question", CategoryID: "1", Answers: []model.Answer{}},
			{ID: "12", Text: "Pick the gases", CategoryID: "1", Answers: []model.Answer{
				{ID: "120", Text: "Oxygen", Correct: true},
				{ID: "121", Text: "Iron"},
				{ID: "122", Text: "Helium", Correct: true},
			}},
		},
	}
}

func TestListPlayableQuestionsSkipsEmptyAnswers(t *testing.T) {
	s := NewQuizService(scienceSource(), nil)

	qs, err := s.ListPlayableQuestions(context.Background(), "science")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(qs) != 2 || qs[0].ID != "10" || qs[1].ID != "12" {
		t.Fatalf("want questions 10 and 12, got %#v", qs)
	}
}

func TestGetCategoryPage(t *testing.T) {
	s := NewQuizService(scienceSource(), nil)

	page, err := s.GetCategoryPage(context.Background(), "science")
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.Category.Title != "Science" || len(page.Questions) != 3 {
		t.Fatalf("unexpected page %#v", page)
	}

	if _, err := s.GetCategoryPage(context.Background(), "history"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	src := scienceSource()
	src.listErr = errors.New("backend asleep")
	if _, err := NewQuizService(src, nil).GetCategoryPage(context.Background(), "science"); err == nil {
		t.Fatalf("both fetches must succeed")
	}
}

func TestCheckAnswer(t *testing.T) {
	s := NewQuizService(scienceSource(), nil)
	ctx := context.Background()

	res, err := s.CheckAnswer(ctx, "12", "121")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Correct {
		t.Fatalf("iron is not a gas")
	}
	if len(res.CorrectAnswerIDs) != 2 || res.CorrectAnswerIDs[0] != "120" || res.CorrectAnswerIDs[1] != "122" {
		t.Fatalf("unexpected correct ids %v", res.CorrectAnswerIDs)
	}

	res, _ = s.CheckAnswer(ctx, "10", "100")
	if !res.Correct {
		t.Fatalf("water should be correct")
	}

	if _, err := s.CheckAnswer(ctx, "10", "999"); !errors.Is(err, util.ErrAnswerNotFound) {
		t.Fatalf("want ErrAnswerNotFound, got %v", err)
	}
	if _, err := s.CheckAnswer(ctx, "99", "1"); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestQuestionValidation(t *testing.T) {
	valid := model.QuestionInput{
		Text:       "What is H2O?",
		CategoryID: "1",
		Answers:    []model.AnswerInput{{Text: "Water", Correct: true}, {Text: "Salt"}},
	}

	cases := []struct {
		name string
		edit func(in *model.QuestionInput)
		want string
	}{
		{"empty text", func(in *model.QuestionInput) { in.Text = "   " }, msgQuestionText},
		{"blank answer", func(in *model.QuestionInput) { in.Answers[1].Text = "" }, msgAnswerText},
		{"one answer", func(in *model.QuestionInput) { in.Answers = in.Answers[:1] }, msgTooFewAnswers},
		{"no correct answer", func(in *model.QuestionInput) { in.Answers[0].Correct = false }, msgNoCorrectAnswer},
		{"no category", func(in *model.QuestionInput) { in.CategoryID = "" }, msgNoCategory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := scienceSource()
			s := NewQuizService(src, nil)

			in := valid
			in.Answers = append([]model.AnswerInput(nil), valid.Answers...)
			tc.edit(&in)

			_, err := s.CreateQuestion(context.Background(), in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if verr.Error() != tc.want {
				t.Fatalf("want=%q got=%q", tc.want, verr.Error())
			}
			if verr.HTTPStatusCode() != 400 {
				t.Fatalf("want 400, got %d", verr.HTTPStatusCode())
			}
			if src.mutations.Load() != 0 {
				t.Fatalf("invalid input reached the datasource")
			}
		})
	}

	src := scienceSource()
	q, err := NewQuizService(src, nil).CreateQuestion(context.Background(), valid)
	if err != nil || q.ID != "100" {
		t.Fatalf("valid question rejected: %v", err)
	}
}

func TestCategoryValidation(t *testing.T) {
	src := scienceSource()
	s := NewQuizService(src, nil)

	if _, err := s.CreateCategory(context.Background(), model.CategoryInput{Title: "  "}); err == nil || err.Error() != msgCategoryTitle {
		t.Fatalf("want %q, got %v", msgCategoryTitle, err)
	}

	cat, err := s.CreateCategory(context.Background(), model.CategoryInput{Title: "  Planets "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if cat.Title != "Planets" || cat.Slug != "planets" {
		t.Fatalf("title should be trimmed, got %#v", cat)
	}
}

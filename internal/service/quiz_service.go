package service

import (
	"context"
	"fmt"
	"strings"

	"quiz_portal_backend/internal/datasource"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type QuizService struct {
	Source   datasource.QuizDataSource
	validate *validator.Validate
	log      *zap.Logger
}

func NewQuizService(source datasource.QuizDataSource, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		Source:   source,
		validate: newValidator(),
		log:      log,
	}
}

func (s *QuizService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Source.ListCategories(ctx)
}

func (s *QuizService) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	return s.Source.GetCategory(ctx, slug)
}

// GetCategoryPage 并发获取分类和题目，两者都成功才返回
func (s *QuizService) GetCategoryPage(ctx context.Context, slug string) (*model.CategoryPage, error) {
	var (
		category  model.Category
		questions []model.Question
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		category, err = s.Source.GetCategory(gctx, slug)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = s.Source.ListQuestions(gctx, slug)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if questions == nil {
		questions = []model.Question{}
	}
	return &model.CategoryPage{Category: category, Questions: questions}, nil
}

func (s *QuizService) ListQuestions(ctx context.Context, slug string) ([]model.Question, error) {
	return s.Source.ListQuestions(ctx, slug)
}

// ListPlayableQuestions drops questions that have no answers to pick from.
func (s *QuizService) ListPlayableQuestions(ctx context.Context, slug string) ([]model.Question, error) {
	questions, err := s.Source.ListQuestions(ctx, slug)
	if err != nil {
		return nil, err
	}
	playable := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.HasAnswers() {
			playable = append(playable, q)
		}
	}
	if skipped := len(questions) - len(playable); skipped > 0 {
		s.log.Debug("skipped questions without answers", zap.String("category", slug), zap.Int("skipped", skipped))
	}
	return playable, nil
}

func (s *QuizService) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	return s.Source.GetQuestion(ctx, id)
}

// CheckAnswer 判断所选答案是否正确，并返回全部正确答案
func (s *QuizService) CheckAnswer(ctx context.Context, questionID, answerID model.ID) (*model.AnswerResult, error) {
	q, err := s.Source.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	for _, a := range q.Answers {
		if a.ID == answerID {
			return &model.AnswerResult{
				QuestionID:       q.ID,
				AnswerID:         a.ID,
				Correct:          a.Correct,
				CorrectAnswerIDs: q.CorrectAnswerIDs(),
			}, nil
		}
	}
	return nil, fmt.Errorf("answer %s of question %s: %w", answerID, questionID, util.ErrAnswerNotFound)
}

func (s *QuizService) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.ValidateCategory(in); err != nil {
		return model.Category{}, err
	}
	return s.Source.CreateCategory(ctx, in)
}

func (s *QuizService) UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.ValidateCategory(in); err != nil {
		return model.Category{}, err
	}
	return s.Source.UpdateCategory(ctx, slug, in)
}

func (s *QuizService) DeleteCategory(ctx context.Context, slug string) error {
	return s.Source.DeleteCategory(ctx, slug)
}

func (s *QuizService) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	in = trimQuestion(in)
	if err := s.ValidateQuestion(in); err != nil {
		return model.Question{}, err
	}
	return s.Source.CreateQuestion(ctx, in)
}

func (s *QuizService) UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error) {
	in = trimQuestion(in)
	if err := s.ValidateQuestion(in); err != nil {
		return model.Question{}, err
	}
	return s.Source.UpdateQuestion(ctx, id, in)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, id model.ID) error {
	return s.Source.DeleteQuestion(ctx, id)
}

func (s *QuizService) ValidateCategory(in model.CategoryInput) error {
	if err := s.validate.Struct(in); err != nil {
		return toValidationError(err)
	}
	return nil
}

func (s *QuizService) ValidateQuestion(in model.QuestionInput) error {
	if err := s.validate.Struct(in); err != nil {
		return toValidationError(err)
	}
	return nil
}

func trimQuestion(in model.QuestionInput) model.QuestionInput {
	in.Text = strings.TrimSpace(in.Text)
	answers := make([]model.AnswerInput, len(in.Answers))
	for i, a := range in.Answers {
		a.Text = strings.TrimSpace(a.Text)
		answers[i] = a
	}
	in.Answers = answers
	return in
}

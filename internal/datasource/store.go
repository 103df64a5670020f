package datasource

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/repository"
	"quiz_portal_backend/internal/util"

	"gorm.io/gorm"
)

// StoreSource keeps quiz data in the service's own database.
type StoreSource struct {
	Categories *repository.CategoryRepository
	Questions  *repository.QuestionRepository
}

func NewStoreSource(db *gorm.DB) *StoreSource {
	return &StoreSource{
		Categories: repository.NewCategoryRepository(db),
		Questions:  repository.NewQuestionRepository(db),
	}
}

func (s *StoreSource) Name() string { return "store" }

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, util.ErrNotFound)
	}
	return err
}

func (s *StoreSource) ListCategories(ctx context.Context) ([]model.Category, error) {
	records, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToCategory())
	}
	return out, nil
}

func (s *StoreSource) GetCategory(ctx context.Context, slug string) (model.Category, error) {
	record, err := s.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return model.Category{}, notFound(err, "category "+slug)
	}
	return record.ToCategory(), nil
}

func (s *StoreSource) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return model.Category{}, err
	}
	record := &model.CategoryRecord{Title: in.Title, Slug: slug}
	if err := s.Categories.Create(ctx, record); err != nil {
		return model.Category{}, err
	}
	return record.ToCategory(), nil
}

// UpdateCategory renames a category. The slug stays the same so existing
// links keep working.
func (s *StoreSource) UpdateCategory(ctx context.Context, slug string, in model.CategoryInput) (model.Category, error) {
	record, err := s.Categories.FindBySlug(ctx, slug)
	if err != nil {
		return model.Category{}, notFound(err, "category "+slug)
	}
	record.Title = in.Title
	if err := s.Categories.Update(ctx, record); err != nil {
		return model.Category{}, err
	}
	return record.ToCategory(), nil
}

func (s *StoreSource) DeleteCategory(ctx context.Context, slug string) error {
	_, err := s.Categories.DeleteBySlug(ctx, slug)
	return notFound(err, "category "+slug)
}

func (s *StoreSource) ListQuestions(ctx context.Context, categorySlug string) ([]model.Question, error) {
	category, err := s.Categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, notFound(err, "category "+categorySlug)
	}
	records, err := s.Questions.ListByCategoryID(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Question, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToQuestion())
	}
	return out, nil
}

func (s *StoreSource) GetQuestion(ctx context.Context, id model.ID) (model.Question, error) {
	qid, err := storeID(id)
	if err != nil {
		return model.Question{}, fmt.Errorf("question %s: %w", id, util.ErrNotFound)
	}
	record, err := s.Questions.FindByID(ctx, qid)
	if err != nil {
		return model.Question{}, notFound(err, "question "+id.String())
	}
	return record.ToQuestion(), nil
}

func (s *StoreSource) CreateQuestion(ctx context.Context, in model.QuestionInput) (model.Question, error) {
	categoryID, err := s.categoryID(ctx, in.CategoryID)
	if err != nil {
		return model.Question{}, err
	}
	record := &model.QuestionRecord{
		CategoryID: categoryID,
		Text:       in.Text,
		Answers:    answerRecords(in.Answers),
	}
	if err := s.Questions.Create(ctx, record); err != nil {
		return model.Question{}, err
	}
	return s.reload(ctx, record.ID)
}

func (s *StoreSource) UpdateQuestion(ctx context.Context, id model.ID, in model.QuestionInput) (model.Question, error) {
	qid, err := storeID(id)
	if err != nil {
		return model.Question{}, fmt.Errorf("question %s: %w", id, util.ErrNotFound)
	}
	if _, err := s.Questions.FindByID(ctx, qid); err != nil {
		return model.Question{}, notFound(err, "question "+id.String())
	}
	categoryID, err := s.categoryID(ctx, in.CategoryID)
	if err != nil {
		return model.Question{}, err
	}

	record := &model.QuestionRecord{
		CategoryID: categoryID,
		Text:       in.Text,
		Answers:    answerRecords(in.Answers),
	}
	record.ID = qid
	if err := s.Questions.Replace(ctx, record); err != nil {
		return model.Question{}, err
	}
	return s.reload(ctx, qid)
}

func (s *StoreSource) DeleteQuestion(ctx context.Context, id model.ID) error {
	qid, err := storeID(id)
	if err != nil {
		return fmt.Errorf("question %s: %w", id, util.ErrNotFound)
	}
	deleted, err := s.Questions.Delete(ctx, qid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("question %s: %w", id, util.ErrNotFound)
	}
	return nil
}

func (s *StoreSource) reload(ctx context.Context, id uint) (model.Question, error) {
	record, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		return model.Question{}, err
	}
	return record.ToQuestion(), nil
}

// categoryID accepts either the numeric id or the slug of a category.
func (s *StoreSource) categoryID(ctx context.Context, ref model.ID) (uint, error) {
	var (
		record *model.CategoryRecord
		err    error
	)
	if id, convErr := storeID(ref); convErr == nil {
		record, err = s.Categories.FindByID(ctx, id)
	}
	// 纯数字的 slug（如 "2024"）也要能找到
	if record == nil {
		record, err = s.Categories.FindBySlug(ctx, ref.String())
	}
	if err != nil {
		return 0, notFound(err, "category "+ref.String())
	}
	return record.ID, nil
}

// uniqueSlug derives a slug from title and appends -2, -3, ... until it is
// free.
func (s *StoreSource) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "category"
	}
	slug := base
	for n := 2; ; n++ {
		exists, err := s.Categories.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}

func storeID(id model.ID) (uint, error) {
	n, err := strconv.ParseUint(id.String(), 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q: %w", id, util.ErrNotFound)
	}
	return uint(n), nil
}

func answerRecords(in []model.AnswerInput) []model.AnswerRecord {
	out := make([]model.AnswerRecord, 0, len(in))
	for i, a := range in {
		out = append(out, model.AnswerRecord{Text: a.Text, Correct: a.Correct, Position: i})
	}
	return out
}

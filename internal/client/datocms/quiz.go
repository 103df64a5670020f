package datocms

import (
	"context"
	"fmt"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/normalizer"
	"quiz_portal_backend/internal/util"

	"go.uber.org/zap"
)

const allCategoriesQuery = `
query AllCategories {
  allCategories {
    id
    title
    slug
    description
  }
}`

const categoryBySlugQuery = `
query CategoryBySlug($slug: String!) {
  category(filter: { slug: { eq: $slug } }) {
    id
    title
    slug
    description
  }
}`

const questionsByCategoryQuery = `
query QuestionsByCategory($categoryId: ItemId) {
  allQuestions(filter: { category: { eq: $categoryId } }) {
    id
    text
    category {
      id
      title
      slug
    }
    answers {
      id
      text
      iscorrect
    }
  }
}`

const allQuestionsQuery = `
query AllQuestions {
  allQuestions {
    id
    text
    category {
      id
      title
      slug
    }
    answers {
      id
      text
      iscorrect
    }
  }
}`

func (c *Client) FetchAllCategories(ctx context.Context) []model.Category {
	var data struct {
		AllCategories []map[string]any `json:"allCategories"`
	}
	if err := c.Request(ctx, Params{Query: allCategoriesQuery}, &data); err != nil {
		return []model.Category{}
	}
	out := make([]model.Category, 0, len(data.AllCategories))
	for _, raw := range data.AllCategories {
		out = append(out, normalizer.Category(raw))
	}
	return out
}

// FetchCategoryBySlug returns util.ErrNotFound when no category has slug.
// Request errors are returned as-is.
func (c *Client) FetchCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	var data struct {
		Category map[string]any `json:"category"`
	}
	err := c.Request(ctx, Params{
		Query:     categoryBySlugQuery,
		Variables: map[string]any{"slug": slug},
	}, &data)
	if err != nil {
		return model.Category{}, fmt.Errorf("fetch category %q: %w", slug, err)
	}
	if data.Category == nil {
		c.log.Info("cms category not found", zap.String("slug", slug))
		return model.Category{}, fmt.Errorf("category %q: %w", slug, util.ErrNotFound)
	}
	return normalizer.Category(data.Category), nil
}

// FetchQuestionsByCategorySlug resolves the category first; only that lookup
// can fail. When the filtered query comes back empty every question is
// fetched and filtered by category id instead.
func (c *Client) FetchQuestionsByCategorySlug(ctx context.Context, slug string) ([]model.Question, error) {
	category, err := c.FetchCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	questions := c.FetchQuestionsByCategoryID(ctx, category.ID.String())
	if len(questions) > 0 {
		return attachCategory(questions, category), nil
	}

	c.log.Debug("no questions by filter, filtering all questions", zap.String("category_id", category.ID.String()))
	filtered := make([]model.Question, 0)
	for _, q := range c.FetchAllQuestions(ctx) {
		if q.CategoryID == category.ID {
			filtered = append(filtered, q)
		}
	}
	c.log.Debug("questions found by manual filtering", zap.Int("count", len(filtered)))
	return attachCategory(filtered, category), nil
}

func (c *Client) FetchQuestionsByCategoryID(ctx context.Context, categoryID string) []model.Question {
	return c.fetchQuestions(ctx, Params{
		Query:     questionsByCategoryQuery,
		Variables: map[string]any{"categoryId": categoryID},
	})
}

func (c *Client) FetchAllQuestions(ctx context.Context) []model.Question {
	return c.fetchQuestions(ctx, Params{Query: allQuestionsQuery})
}

func (c *Client) fetchQuestions(ctx context.Context, p Params) []model.Question {
	var data struct {
		AllQuestions []map[string]any `json:"allQuestions"`
	}
	if err := c.Request(ctx, p, &data); err != nil {
		return []model.Question{}
	}
	out := make([]model.Question, 0, len(data.AllQuestions))
	for _, raw := range data.AllQuestions {
		out = append(out, normalizer.Question(raw))
	}
	return out
}

func attachCategory(questions []model.Question, category model.Category) []model.Question {
	for i := range questions {
		if questions[i].CategoryID.IsZero() {
			questions[i].CategoryID = category.ID
		}
		if questions[i].Category == nil {
			c := category
			questions[i].Category = &c
		}
	}
	return questions
}

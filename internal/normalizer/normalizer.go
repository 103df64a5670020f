// Package normalizer maps the record shapes of the REST backend
// ({title, slug}, {question, answer, correct}) and the CMS ({text, iscorrect})
// onto the canonical model. Every function is total: absent fields become
// empty strings, false or empty lists.
package normalizer

import (
	"strings"

	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"
)

// Category normalizes a raw category record.
func Category(raw map[string]any) model.Category {
	id := model.ParseID(raw["id"])
	title := firstString(raw, "title", "name")
	slug := firstString(raw, "slug")

	if title == "" {
		title = slug
	}
	if slug == "" {
		slug = util.Slugify(title)
	}
	if slug == "" {
		slug = id.String()
	}
	if title == "" {
		title = slug
	}

	return model.Category{
		ID:          id,
		Title:       title,
		Slug:        slug,
		Description: firstString(raw, "description"),
	}
}

// Question normalizes a raw question record, including its answers and an
// embedded category when one is present.
func Question(raw map[string]any) model.Question {
	q := model.Question{
		ID:      model.ParseID(raw["id"]),
		Text:    firstString(raw, "text", "question"),
		Answers: Answers(raw["answers"]),
	}

	if cat, ok := raw["category"].(map[string]any); ok {
		c := Category(cat)
		q.Category = &c
		q.CategoryID = c.ID
	}
	if id := model.ParseID(firstValue(raw, "categoryId", "category_id")); !id.IsZero() {
		q.CategoryID = id
	}

	return q
}

// Answer normalizes a single answer; correct is always a real bool.
func Answer(raw map[string]any) model.Answer {
	return model.Answer{
		ID:      model.ParseID(raw["id"]),
		Text:    firstString(raw, "text", "answer"),
		Correct: util.ToBool(firstValue(raw, "correct", "iscorrect", "isCorrect")),
	}
}

// Answers normalizes a raw answers value; anything that is not a list yields
// an empty, non-nil slice.
func Answers(v any) []model.Answer {
	list, _ := v.([]any)
	answers := make([]model.Answer, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			answers = append(answers, Answer(m))
		}
	}
	return answers
}

// UnwrapList accepts either a bare array or a {"data": [...]} envelope.
func UnwrapList(body any) []any {
	switch t := body.(type) {
	case []any:
		return t
	case map[string]any:
		if data, ok := t["data"].([]any); ok {
			return data
		}
	}
	return []any{}
}

// UnwrapObject returns the record inside a {"data": {...}} envelope, or the
// body itself when it is already an object.
func UnwrapObject(body any) map[string]any {
	m, ok := body.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	if data, ok := m["data"].(map[string]any); ok {
		return data
	}
	return m
}

func Categories(body any) []model.Category {
	list := UnwrapList(body)
	out := make([]model.Category, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Category(m))
		}
	}
	return out
}

func Questions(body any) []model.Question {
	list := UnwrapList(body)
	out := make([]model.Question, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Question(m))
		}
	}
	return out
}

func firstValue(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

package model

import "time"

// Category 题目分类（规范化后的形态）
type Category struct {
	ID          ID     `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// CategoryInput is what callers send to create or rename a category.
type CategoryInput struct {
	Title string `json:"title" validate:"notblank,max=255"`
}

// CategoryPage bundles a category with its questions.
type CategoryPage struct {
	Category  Category   `json:"category"`
	Questions []Question `json:"questions"`
}

// CategorySnapshot is the export file format; the seed script reads it back.
type CategorySnapshot struct {
	ExportedAt time.Time  `json:"exportedAt" yaml:"exportedAt"`
	Source     string     `json:"source" yaml:"source"`
	Category   Category   `json:"category" yaml:"category"`
	Questions  []Question `json:"questions" yaml:"questions"`
}

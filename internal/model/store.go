package model

// CategoryRecord is the embedded store row for a category.
type CategoryRecord struct {
	BaseModel
	Title       string           `gorm:"size:255;not null" json:"title"`
	Slug        string           `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	Questions   []QuestionRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (CategoryRecord) TableName() string {
	return "categories"
}

type QuestionRecord struct {
	BaseModel
	CategoryID uint           `gorm:"not null;index" json:"categoryId"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	Category   CategoryRecord `gorm:"foreignKey:CategoryID" json:"-"`
	Answers    []AnswerRecord `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers"`
}

func (QuestionRecord) TableName() string {
	return "questions"
}

type AnswerRecord struct {
	BaseModel
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	Correct    bool   `gorm:"default:false" json:"correct"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (AnswerRecord) TableName() string {
	return "answers"
}

func (r CategoryRecord) ToCategory() Category {
	return Category{
		ID:          r.Key(),
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
	}
}

func (r QuestionRecord) ToQuestion() Question {
	answers := make([]Answer, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, Answer{ID: a.Key(), Text: a.Text, Correct: a.Correct})
	}
	q := Question{
		ID:         r.Key(),
		Text:       r.Text,
		CategoryID: UintID(r.CategoryID),
		Answers:    answers,
	}
	if r.Category.ID != 0 {
		c := r.Category.ToCategory()
		q.Category = &c
	}
	return q
}

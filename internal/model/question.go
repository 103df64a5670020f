package model

// Answer 答案选项
type Answer struct {
	ID      ID     `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question 题目，答案顺序即展示顺序
type Question struct {
	ID         ID        `json:"id" yaml:"id"`
	Text       string    `json:"text" yaml:"text"`
	CategoryID ID        `json:"categoryId" yaml:"categoryId"`
	Category   *Category `json:"category,omitempty" yaml:"-"`
	Answers    []Answer  `json:"answers" yaml:"answers"`
}

// HasAnswers reports whether the question can be played.
func (q Question) HasAnswers() bool {
	return len(q.Answers) > 0
}

// CorrectAnswerIDs lists the ids of every answer flagged correct.
func (q Question) CorrectAnswerIDs() []ID {
	ids := make([]ID, 0, 1)
	for _, a := range q.Answers {
		if a.Correct {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

type AnswerInput struct {
	ID      ID     `json:"id,omitempty"`
	Text    string `json:"text" validate:"notblank"`
	Correct bool   `json:"correct"`
}

// QuestionInput is the form model for creating or editing a question.
type QuestionInput struct {
	Text       string        `json:"text" validate:"notblank"`
	CategoryID ID            `json:"categoryId" validate:"notblank"`
	Answers    []AnswerInput `json:"answers" validate:"min=2,dive"`
}

// AnswerResult is the feedback for one submitted answer.
type AnswerResult struct {
	QuestionID       ID   `json:"questionId"`
	AnswerID         ID   `json:"answerId"`
	Correct          bool `json:"correct"`
	CorrectAnswerIDs []ID `json:"correctAnswerIds"`
}

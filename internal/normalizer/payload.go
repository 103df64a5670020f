package normalizer

import "quiz_portal_backend/internal/model"

// RESTCategoryPayload is the body the REST backend expects for category writes.
type RESTCategoryPayload struct {
	Title string `json:"title"`
}

type RESTAnswerPayload struct {
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// RESTQuestionPayload renames the form fields (text) to the backend's
// (question / answer).
type RESTQuestionPayload struct {
	Question   string              `json:"question"`
	CategoryID model.ID            `json:"categoryId"`
	Answers    []RESTAnswerPayload `json:"answers"`
}

func ToRESTCategory(in model.CategoryInput) RESTCategoryPayload {
	return RESTCategoryPayload{Title: in.Title}
}

func ToRESTQuestion(in model.QuestionInput) RESTQuestionPayload {
	answers := make([]RESTAnswerPayload, 0, len(in.Answers))
	for _, a := range in.Answers {
		answers = append(answers, RESTAnswerPayload{Answer: a.Text, Correct: a.Correct})
	}
	return RESTQuestionPayload{
		Question:   in.Text,
		CategoryID: in.CategoryID,
		Answers:    answers,
	}
}

// ToInput turns a canonical question back into its form model.
func ToInput(q model.Question) model.QuestionInput {
	answers := make([]model.AnswerInput, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, model.AnswerInput{ID: a.ID, Text: a.Text, Correct: a.Correct})
	}
	return model.QuestionInput{Text: q.Text, CategoryID: q.CategoryID, Answers: answers}
}

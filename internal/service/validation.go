package service

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"quiz_portal_backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// ValidationError is returned before any request reaches the datasource.
// Messages are ordered the way the admin form reports them.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return e.Messages[0]
}

func (e *ValidationError) HTTPStatusCode() int { return http.StatusBadRequest }

const (
	msgCategoryTitle   = "Category title cannot be empty"
	msgCategoryTooLong = "Category title must be at most 255 characters"
	msgQuestionText    = "Question cannot be empty"
	msgAnswerText      = "Answers cannot be empty"
	msgTooFewAnswers   = "A question needs at least two answers"
	msgNoCorrectAnswer = "There must be at least one correct answer"
	msgNoCategory      = "Please select a category for the question"
)

var messagePriority = map[string]int{
	msgCategoryTitle:   0,
	msgCategoryTooLong: 1,
	msgQuestionText:    2,
	msgAnswerText:      3,
	msgTooFewAnswers:   4,
	msgNoCorrectAnswer: 5,
	msgNoCategory:      6,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(model.QuestionInput)
		for _, a := range in.Answers {
			if a.Correct {
				return
			}
		}
		sl.ReportError(in.Answers, "Answers", "Answers", "onecorrect", "")
	}, model.QuestionInput{})
	return v
}

// toValidationError turns validator output into form messages.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	seen := map[string]bool{}
	var msgs []string
	for _, fe := range verrs {
		msg := messageFor(fe)
		if !seen[msg] {
			seen[msg] = true
			msgs = append(msgs, msg)
		}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return messagePriority[msgs[i]] < messagePriority[msgs[j]]
	})
	return &ValidationError{Messages: msgs}
}

func messageFor(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	switch {
	case strings.HasPrefix(ns, "CategoryInput.Title"):
		if fe.Tag() == "max" {
			return msgCategoryTooLong
		}
		return msgCategoryTitle
	case ns == "QuestionInput.Text":
		return msgQuestionText
	case ns == "QuestionInput.CategoryID":
		return msgNoCategory
	case fe.Tag() == "onecorrect":
		return msgNoCorrectAnswer
	case ns == "QuestionInput.Answers" && fe.Tag() == "min":
		return msgTooFewAnswers
	case strings.HasPrefix(ns, "QuestionInput.Answers["):
		return msgAnswerText
	}
	return fe.Error()
}

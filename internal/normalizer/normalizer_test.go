package normalizer

import (
	"encoding/json"
	"strings"
	"testing"

	"quiz_portal_backend/internal/model"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestCategoriesTitleAndSlugNeverEmpty(t *testing.T) {
	body := decode(t, `{"data":[
		{"id":1,"title":"HTML","slug":"html"},
		{"id":2,"name":"Saga Íslands"},
		{"id":"abc","slug":"css"},
		{"id":7}
	]}`)

	cats := Categories(body)
	if len(cats) != 4 {
		t.Fatalf("want 4 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if c.Title == "" || c.Slug == "" {
			t.Fatalf("empty title or slug after normalization: %+v", c)
		}
	}
	if cats[0].ID != "1" || cats[0].Title != "HTML" || cats[0].Slug != "html" {
		t.Fatalf("unexpected first category: %+v", cats[0])
	}
	if cats[1].Title != "Saga Íslands" || cats[1].Slug != "saga-islands" {
		t.Fatalf("name fallback: %+v", cats[1])
	}
	if cats[2].Title != "css" {
		t.Fatalf("slug used as title: %+v", cats[2])
	}
	if cats[3].Slug != "7" || cats[3].Title != "7" {
		t.Fatalf("id fallback: %+v", cats[3])
	}
}

func TestUnwrapListBareArrayAndGarbage(t *testing.T) {
	if got := UnwrapList(decode(t, `[{"id":1}]`)); len(got) != 1 {
		t.Fatalf("bare array: got %d items", len(got))
	}
	if got := UnwrapList(decode(t, `{"message":"nope"}`)); got == nil || len(got) != 0 {
		t.Fatalf("object without data should give empty list, got %v", got)
	}
	if got := UnwrapList(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil should give empty list, got %v", got)
	}
}

func TestQuestionRESTShape(t *testing.T) {
	raw := decode(t, `{"id":5,"question":"2+2?","categoryId":3,
		"category":{"id":3,"title":"Math","slug":"math"},
		"answers":[{"id":1,"answer":"4","correct":true},{"id":2,"answer":"5"}]}`)

	q := Question(raw.(map[string]any))
	if q.ID != "5" || q.Text != "2+2?" || q.CategoryID != "3" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Category == nil || q.Category.Slug != "math" {
		t.Fatalf("category not normalized: %+v", q.Category)
	}
	if len(q.Answers) != 2 || q.Answers[0].Text != "4" || !q.Answers[0].Correct || q.Answers[1].Correct {
		t.Fatalf("unexpected answers: %+v", q.Answers)
	}
}

func TestQuestionCMSShape(t *testing.T) {
	raw := decode(t, `{"id":"q1","text":"Capital of Iceland?",
		"category":{"id":"c9"},
		"answers":[{"id":"a1","text":"Reykjavík","iscorrect":true},{"id":"a2","text":"Oslo","iscorrect":"false"}]}`)

	q := Question(raw.(map[string]any))
	if q.Text != "Capital of Iceland?" || q.CategoryID != "c9" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if !q.Answers[0].Correct || q.Answers[1].Correct {
		t.Fatalf("iscorrect not coerced: %+v", q.Answers)
	}
}

func TestQuestionMissingAnswers(t *testing.T) {
	q := Question(map[string]any{"id": "x", "text": "broken"})
	if q.Answers == nil || len(q.Answers) != 0 {
		t.Fatalf("missing answers should be empty non-nil, got %#v", q.Answers)
	}
	q = Question(map[string]any{"id": "y", "answers": "not-a-list"})
	if len(q.Answers) != 0 || q.Text != "" {
		t.Fatalf("bad answers value: %+v", q)
	}
}

func TestAnswerCorrectCoercion(t *testing.T) {
	cases := []struct {
		raw  map[string]any
		want bool
	}{
		{map[string]any{"correct": true}, true},
		{map[string]any{"correct": nil}, false},
		{map[string]any{}, false},
		{map[string]any{"isCorrect": "true"}, true},
		{map[string]any{"iscorrect": json.Number("1")}, true},
		{map[string]any{"correct": json.Number("0")}, false},
	}
	for i, tc := range cases {
		if got := Answer(tc.raw).Correct; got != tc.want {
			t.Fatalf("case %d: want=%v got=%v", i, tc.want, got)
		}
	}
}

func TestToRESTQuestionRenamesFields(t *testing.T) {
	in := model.QuestionInput{
		Text:       "Largest planet?",
		CategoryID: "4",
		Answers: []model.AnswerInput{
			{Text: "Jupiter", Correct: true},
			{Text: "Mars"},
		},
	}
	b, err := json.Marshal(ToRESTQuestion(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"question":"Largest planet?","categoryId":4,"answers":[{"answer":"Jupiter","correct":true},{"answer":"Mars","correct":false}]}`
	if string(b) != want {
		t.Fatalf("payload:\nwant=%s\ngot =%s", want, b)
	}
}

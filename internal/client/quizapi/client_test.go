package quizapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/internal/util"
)

func newDirect(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL, Mode: config.UpstreamModeDirect})
}

func TestListCategoriesUnwrapsDataEnvelope(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/categories" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"id":1,"title":"HTML","slug":"html"},{"id":2,"name":"CSS"}]}`)
	})

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("want 2 categories, got %d", len(cats))
	}
	if cats[1].Title != "CSS" || cats[1].Slug != "css" {
		t.Fatalf("unexpected normalization: %+v", cats[1])
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message":"Category not found"}`)
	})

	_, err := c.GetCategory(context.Background(), "nope")
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected APIError 404, got %#v", err)
	}
	if apiErr.Message != "Category not found" {
		t.Fatalf("message: want=%q got=%q", "Category not found", apiErr.Message)
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, `{"message":"title is required"}`, "title is required"},
		{http.StatusConflict, `{"error":"slug taken"}`, "slug taken"},
		{http.StatusBadGateway, `upstream exploded`, "upstream exploded"},
		{http.StatusInternalServerError, ``, "API error: 500"},
	}
	for _, tc := range cases {
		c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			io.WriteString(w, tc.body)
		})
		_, err := c.CreateCategory(context.Background(), model.CategoryInput{Title: "X"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected APIError, got %v", tc.status, err)
		}
		if apiErr.Status != tc.status || apiErr.Message != tc.want {
			t.Fatalf("status %d: want=%q got=%q (%d)", tc.status, tc.want, apiErr.Message, apiErr.Status)
		}
		if errors.Is(err, util.ErrNotFound) {
			t.Fatalf("status %d must not match ErrNotFound", tc.status)
		}
	}
}

func TestCreateCategorySendsTitle(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/category" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "Planets" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":9,"title":"Planets","slug":"planets"}`)
	})

	cat, err := c.CreateCategory(context.Background(), model.CategoryInput{Title: "Planets"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if cat.ID != "9" || cat.Slug != "planets" {
		t.Fatalf("unexpected category %+v", cat)
	}
}

func TestDeleteCategoryNoContent(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/category/planets" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Pragma") != "no-cache" {
			t.Errorf("delete should send Pragma: no-cache")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteCategory(context.Background(), "planets"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
}

func TestCreateQuestionRemapsFields(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/question" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Question   string `json:"question"`
			CategoryID int    `json:"categoryId"`
			Answers    []struct {
				Answer  string `json:"answer"`
				Correct bool   `json:"correct"`
			} `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Question != "Largest planet?" || body.CategoryID != 3 || len(body.Answers) != 2 || body.Answers[0].Answer != "Jupiter" {
			t.Errorf("unexpected payload %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":11,"question":"Largest planet?","categoryId":3,"answers":[{"id":1,"answer":"Jupiter","correct":true},{"id":2,"answer":"Mars","correct":false}]}`)
	})

	q, err := c.CreateQuestion(context.Background(), model.QuestionInput{
		Text:       "Largest planet?",
		CategoryID: "3",
		Answers:    []model.AnswerInput{{Text: "Jupiter", Correct: true}, {Text: "Mars"}},
	})
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if q.ID != "11" || q.Text != "Largest planet?" || len(q.Answers) != 2 || !q.Answers[0].Correct {
		t.Fatalf("unexpected question %+v", q)
	}
}

func TestProxyModeRoutesThroughPathParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/proxy" {
			t.Errorf("expected proxy route, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("path"); got != "/questions/category/html" {
			t.Errorf("path param: got %q", got)
		}
		io.WriteString(w, `[{"id":1,"question":"<p>?","answers":[{"id":1,"answer":"tag","correct":true}]}]`)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: "http://backend.invalid", ProxyURL: srv.URL + "/api/proxy", Mode: config.UpstreamModeProxy})
	qs, err := c.ListQuestionsByCategory(context.Background(), "html")
	if err != nil {
		t.Fatalf("ListQuestionsByCategory: %v", err)
	}
	if len(qs) != 1 || qs[0].Text != "<p>?" {
		t.Fatalf("unexpected questions %+v", qs)
	}
}

func TestURLFor(t *testing.T) {
	direct := New(Options{BaseURL: "https://api.example.com/", Mode: config.UpstreamModeDirect})
	if got := direct.URLFor("categories"); got != "https://api.example.com/categories" {
		t.Fatalf("direct: got %q", got)
	}
	proxy := New(Options{ProxyURL: "/api/proxy", Mode: config.UpstreamModeProxy})
	if got := proxy.URLFor("/categories?limit=5"); got != "/api/proxy?path=%2Fcategories%3Flimit%3D5" {
		t.Fatalf("proxy: got %q", got)
	}
}

func TestNonJSONSuccessIsNotFatal(t *testing.T) {
	c := newDirect(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>waking up</html>")
	})

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("non-JSON 200 should not fail: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("want empty list, got %+v", cats)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Options{BaseURL: url, Mode: config.UpstreamModeDirect})
	_, err := c.ListCategories(context.Background())
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure should not be an APIError: %v", err)
	}
}

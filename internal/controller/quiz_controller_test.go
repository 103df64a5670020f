package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/datasource"
	"quiz_portal_backend/internal/middleware"
	"quiz_portal_backend/internal/service"
	"quiz_portal_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type quizRouter struct {
	engine *gin.Engine
	token  string
}

func newQuizRouter(t *testing.T, authEnabled bool) *quizRouter {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	auth := service.NewAuthService(&config.AuthConfig{
		Enabled:           authEnabled,
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		JWTSecret:         "a-test-secret-that-is-long-enough",
		ExpireTime:        time.Hour,
	})

	quiz := service.NewQuizService(datasource.NewStoreSource(db), nil)
	categories := NewCategoryController(quiz)
	questions := NewQuestionController(quiz)
	admin := NewAdminController(auth, quiz, nil, nil)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/api/categories", categories.List)
	r.GET("/api/categories/:slug", categories.Get)
	r.GET("/api/categories/:slug/questions", categories.Questions)
	r.GET("/api/questions/:id", questions.Get)
	r.POST("/api/questions/:id/check", questions.Check)
	r.POST("/api/admin/login", admin.Login)
	protected := r.Group("/api/admin", middleware.AdminAuth(auth, nil))
	protected.POST("/categories", admin.CreateCategory)
	protected.DELETE("/categories/:slug", admin.DeleteCategory)
	protected.POST("/questions", admin.CreateQuestion)

	qr := &quizRouter{engine: r}
	if authEnabled {
		rr := serve(r, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"hunter2"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("login: %d %s", rr.Code, rr.Body.String())
		}
		data := decodeMap(t, rr.Body.Bytes())["data"].(map[string]any)
		qr.token = data["token"].(string)
	}
	return qr
}

func (q *quizRouter) admin(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if q.token != "" {
		req.Header.Set("Authorization", "Bearer "+q.token)
	}
	rr := httptest.NewRecorder()
	q.engine.ServeHTTP(rr, req)
	return rr
}

func envelopeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := decodeMap(t, rr.Body.Bytes())["data"].(map[string]any)
	if !ok {
		t.Fatalf("no object data in %s", rr.Body.String())
	}
	return data
}

func TestAdminRoutesRequireToken(t *testing.T) {
	q := newQuizRouter(t, true)

	rr := serve(q.engine, http.MethodPost, "/api/admin/categories", `{"title":"Saga"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("want=401 got=%d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{"title":"Saga"}`))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr = httptest.NewRecorder()
	q.engine.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rr.Code)
	}

	rr = serve(q.engine, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: want=401 got=%d", rr.Code)
	}
}

func TestLoginWhenAuthDisabled(t *testing.T) {
	q := newQuizRouter(t, false)

	rr := serve(q.engine, http.MethodPost, "/api/admin/login", `{"username":"admin","password":"hunter2"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("want=400 got=%d body=%s", rr.Code, rr.Body.String())
	}

	// 关闭鉴权时管理接口直接放行
	rr = q.admin(http.MethodPost, "/api/admin/categories", `{"title":"Saga"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("want=201 got=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestQuizFlow(t *testing.T) {
	q := newQuizRouter(t, true)

	rr := q.admin(http.MethodPost, "/api/admin/categories", `{"title":"Landafræði"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", rr.Code, rr.Body.String())
	}
	cat := envelopeData(t, rr)
	if cat["slug"] != "landafraedi" {
		t.Fatalf("want slug landafraedi got %v", cat["slug"])
	}

	body := fmt.Sprintf(`{"text":"Höfuðborg Íslands?","categoryId":"%v","answers":[{"text":"Akureyri"},{"text":"Reykjavík","correct":true}]}`, cat["id"])
	rr = q.admin(http.MethodPost, "/api/admin/questions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create question: %d %s", rr.Code, rr.Body.String())
	}
	question := envelopeData(t, rr)
	answers := question["answers"].([]any)
	wrong := answers[0].(map[string]any)["id"]
	right := answers[1].(map[string]any)["id"]

	rr = serve(q.engine, http.MethodGet, "/api/categories/landafraedi", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("category page: %d %s", rr.Code, rr.Body.String())
	}
	page := envelopeData(t, rr)
	if got := len(page["questions"].([]any)); got != 1 {
		t.Fatalf("want 1 question got %d", got)
	}

	target := fmt.Sprintf("/api/questions/%v/check", question["id"])
	rr = serve(q.engine, http.MethodPost, target, fmt.Sprintf(`{"answerId":%v}`, right))
	if rr.Code != http.StatusOK {
		t.Fatalf("check: %d %s", rr.Code, rr.Body.String())
	}
	if res := envelopeData(t, rr); res["correct"] != true {
		t.Fatalf("want correct got %v", res)
	}

	rr = serve(q.engine, http.MethodPost, target, fmt.Sprintf(`{"answerId":"%v"}`, wrong))
	res := envelopeData(t, rr)
	if res["correct"] != false || len(res["correctAnswerIds"].([]any)) != 1 {
		t.Fatalf("unexpected result %v", res)
	}

	rr = serve(q.engine, http.MethodPost, target, `{"answerId":999}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown answer: want=404 got=%d", rr.Code)
	}

	rr = serve(q.engine, http.MethodPost, target, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing answerId: want=400 got=%d", rr.Code)
	}

	rr = q.admin(http.MethodDelete, "/api/admin/categories/landafraedi", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rr.Code, rr.Body.String())
	}
	rr = serve(q.engine, http.MethodGet, "/api/categories/landafraedi", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("after delete: want=404 got=%d", rr.Code)
	}
}

func TestValidationErrorsAreBadRequests(t *testing.T) {
	q := newQuizRouter(t, true)

	cases := []struct {
		name, target, body, want string
	}{
		{"blank title", "/api/admin/categories", `{"title":"  "}`, "Category title cannot be empty"},
		{"no correct answer", "/api/admin/questions", `{"text":"Q","categoryId":"1","answers":[{"text":"a"},{"text":"b"}]}`, "There must be at least one correct answer"},
		{"malformed json", "/api/admin/questions", `{"text":`, "Invalid JSON in request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := q.admin(http.MethodPost, tc.target, tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("want=400 got=%d", rr.Code)
			}
			if msg := decodeMap(t, rr.Body.Bytes())["message"]; msg != tc.want {
				t.Fatalf("want=%q got=%q", tc.want, msg)
			}
		})
	}
}

func TestUnknownQuestionIsNotFound(t *testing.T) {
	q := newQuizRouter(t, true)

	rr := serve(q.engine, http.MethodGet, "/api/questions/42", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want=404 got=%d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}
}

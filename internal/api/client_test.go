package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// recorder captures notifications for assertions.
type recorder struct {
	mu       sync.Mutex
	messages []string
	errors   []string
}

func (r *recorder) Success(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
}

func (r *recorder) Error(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, text)
}

func (r *recorder) lastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.errors) == 0 {
		return ""
	}
	return r.errors[len(r.errors)-1]
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ============================================================
// Request shaping
// ============================================================

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		respond(w, 200, map[string]any{"content": map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	c.SetTokenSource(func() string { return "tok-123" })

	c.ListTodos(context.Background(), ListQuery{})
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestNoAuthHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		respond(w, 200, map[string]any{"content": map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	c.ListTodos(context.Background(), ListQuery{})
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestListTodosQueryParams(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{}
		for k := range q {
			gotQuery[k] = q.Get(k)
		}
		respond(w, 200, map[string]any{"content": map[string]any{"entries": []any{}}})
	}))
	defer srv.Close()

	done := true
	c := NewClient(srv.URL, &recorder{})
	_, err := c.ListTodos(context.Background(), ListQuery{
		Page:      2,
		Rows:      10,
		OrderKey:  "createdAt",
		OrderRule: "desc",
		IsDone:    &done,
		Search:    "milk",
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotQuery["page"] != "2" || gotQuery["rows"] != "10" {
		t.Fatalf("pagination params wrong: %v", gotQuery)
	}
	if gotQuery["orderKey"] != "createdAt" || gotQuery["orderRule"] != "desc" {
		t.Fatalf("order params wrong: %v", gotQuery)
	}
	if gotQuery["filters"] != `{"isDone":true}` {
		t.Fatalf("filters = %q, want JSON isDone", gotQuery["filters"])
	}
	if gotQuery["searchFilters"] != `{"item":"milk"}` {
		t.Fatalf("searchFilters = %q, want JSON item", gotQuery["searchFilters"])
	}
}

func TestListTodosOmitsEmptyFilters(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		respond(w, 200, map[string]any{"content": map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	c.ListTodos(context.Background(), ListQuery{Page: 1, Rows: 10})

	if _, ok := query["filters"]; ok {
		t.Fatal("filters should be omitted when IsDone is nil")
	}
	if _, ok := query["searchFilters"]; ok {
		t.Fatal("searchFilters should be omitted when search is empty")
	}
}

func TestMarkTodoActionBody(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		respond(w, 200, map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	if err := c.MarkTodo(context.Background(), "abc", true); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPut || gotPath != "/todos/abc/mark" {
		t.Fatalf("got %s %s", gotMethod, gotPath)
	}
	if gotBody["action"] != "DONE" {
		t.Fatalf("action = %q, want DONE", gotBody["action"])
	}

	c.MarkTodo(context.Background(), "abc", false)
	if gotBody["action"] != "UNDONE" {
		t.Fatalf("action = %q, want UNDONE", gotBody["action"])
	}
}

// ============================================================
// Envelope decoding
// ============================================================

func TestEnvelopeContentDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 200, map[string]any{
			"content": map[string]any{
				"entries":   []map[string]any{{"id": "1", "item": "buy milk", "isDone": false}},
				"totalData": 1,
				"totalPage": 1,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	page, err := c.ListTodos(context.Background(), ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Entries) != 1 || page.Entries[0].Item != "buy milk" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.TotalData != 1 || page.TotalPage != 1 {
		t.Fatalf("totals wrong: %+v", page)
	}
}

func TestLoginDecodesAuthResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@squareteam.com" || body["password"] != "secret1" {
			t.Errorf("unexpected body: %v", body)
		}
		respond(w, 200, map[string]any{
			"content": map[string]any{
				"token": "tok",
				"user":  map[string]any{"id": "u1", "fullName": "Ada L"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	res, err := c.Login(context.Background(), "a@squareteam.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Token != "tok" || res.User.FullName != "Ada L" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

// ============================================================
// Error handling
// ============================================================

func TestErrorFieldErrorsTakePrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 422, map[string]any{
			"message": "Validation failed",
			"errors":  []string{"Email is already taken", "Password too weak"},
		})
	}))
	defer srv.Close()

	rec := &recorder{}
	c := NewClient(srv.URL, rec)
	err := c.CreateTodo(context.Background(), "x")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "Email is already taken" {
		t.Fatalf("message = %q, want first field error", apiErr.Message)
	}
	if len(apiErr.FieldErrors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(apiErr.FieldErrors))
	}
	if rec.lastError() != "Email is already taken" {
		t.Fatalf("notified %q, want first field error", rec.lastError())
	}
}

func TestErrorFallsBackToMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 400, map[string]any{"message": "Bad request"})
	}))
	defer srv.Close()

	rec := &recorder{}
	c := NewClient(srv.URL, rec)
	err := c.CreateTodo(context.Background(), "x")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "Bad request" {
		t.Fatalf("message = %q", apiErr.Message)
	}
	if rec.lastError() != "Bad request" {
		t.Fatalf("notified %q", rec.lastError())
	}
}

func TestErrorGenericWhenBodyEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	rec := &recorder{}
	c := NewClient(srv.URL, rec)
	err := c.CreateTodo(context.Background(), "x")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "An error occurred" {
		t.Fatalf("message = %q, want generic", apiErr.Message)
	}
}

func TestErrorNonJSONBodyTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	err := c.CreateTodo(context.Background(), "x")

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != 502 {
		t.Fatalf("status = %d", apiErr.Status)
	}
}

func TestTransportErrorNotNotified(t *testing.T) {
	rec := &recorder{}
	c := NewClient("http://127.0.0.1:0", rec)
	err := c.CreateTodo(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatal("transport failure must not be *Error")
	}
	if rec.lastError() != "" {
		t.Fatalf("transport failure should not notify, got %q", rec.lastError())
	}
}

// ============================================================
// 401 handling
// ============================================================

func TestUnauthorizedHookFires(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 401, map[string]any{"message": "Token expired"})
	}))
	defer srv.Close()

	fired := 0
	c := NewClient(srv.URL, &recorder{})
	c.SetUnauthorizedHook(func() { fired++ })

	_, err := c.ListTodos(context.Background(), ListQuery{})
	if err == nil {
		t.Fatal("expected error")
	}
	if fired != 1 {
		t.Fatalf("hook fired %d times, want 1", fired)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("expected 401 *Error, got %v", err)
	}
}

func TestUnauthorizedWithoutHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, 401, map[string]any{})
	}))
	defer srv.Close()

	// No hook installed; the call must not panic.
	c := NewClient(srv.URL, &recorder{})
	_, err := c.ListTodos(context.Background(), ListQuery{})
	if err == nil {
		t.Fatal("expected error")
	}
}

// ============================================================
// Verify token
// ============================================================

func TestVerifyTokenPostsToken(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify-token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		respond(w, 200, map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, &recorder{})
	if err := c.VerifyToken(context.Background(), "tok-9"); err != nil {
		t.Fatal(err)
	}
	if gotBody["token"] != "tok-9" {
		t.Fatalf("body = %v", gotBody)
	}
}

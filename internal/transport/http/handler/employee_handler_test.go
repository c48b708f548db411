package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"employee-crud-starter/internal/domain"
	"employee-crud-starter/internal/repo"
	"employee-crud-starter/internal/service"
	"employee-crud-starter/pkg/reactive"
)

var errStorage = errors.New("storage down")

// brokenRepo 读列表失败，其余行为与内存仓库一致
type brokenRepo struct{ *repo.MemoryEmployeeRepo }

func (brokenRepo) FindAll(context.Context) ([]domain.Employee, error) { return nil, errStorage }

type mounter interface{ MountAPI(*gin.RouterGroup) }

func newEngine(m mounter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	m.MountAPI(r.Group("/api"))
	return r
}

func blocking(r domain.EmployeeRepository) *gin.Engine {
	return newEngine(NewEmployeeHandler(service.NewEmployeeService(r)))
}

func nonBlocking(r domain.EmployeeRepository) *gin.Engine {
	svc := service.NewReactiveEmployeeService(service.NewEmployeeService(r), reactive.NewScheduler(4))
	return newEngine(NewReactiveEmployeeHandler(svc))
}

func do(t *testing.T, h http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

const springBoot = `{"firstName":"Spring","lastName":"Boot","email":"spring@boot.io"}`

// 两种 engine 共用的行为
func TestEmployeeAPI_SharedBehaviour(t *testing.T) {
	flavors := map[string]func(domain.EmployeeRepository) *gin.Engine{
		"blocking": blocking,
		"reactive": nonBlocking,
	}
	for name, build := range flavors {
		t.Run(name, func(t *testing.T) {
			t.Run("CreateThenGet", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				w := do(t, h, http.MethodPost, "/api/employees", `{"id":"x","firstName":"Spring","lastName":"Boot","email":"spring@boot.io"}`)
				if w.Code != http.StatusCreated {
					t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
				}
				created := decode[domain.Employee](t, w)
				if created.ID == "" || created.ID == "x" || created.Email != "spring@boot.io" {
					t.Fatalf("unexpected created body: %+v", created)
				}

				w = do(t, h, http.MethodGet, "/api/employees/"+created.ID, "")
				if w.Code != http.StatusOK || decode[domain.Employee](t, w) != created {
					t.Fatalf("expected 200 with created record, got %d: %s", w.Code, w.Body)
				}
			})

			t.Run("DuplicateEmail", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				do(t, h, http.MethodPost, "/api/employees", springBoot)
				w := do(t, h, http.MethodPost, "/api/employees", springBoot)
				if w.Code != http.StatusConflict {
					t.Fatalf("expected 409, got %d: %s", w.Code, w.Body)
				}
				if !strings.Contains(w.Body.String(), "spring@boot.io") {
					t.Fatalf("expected conflicting email in body, got %s", w.Body)
				}
			})

			t.Run("AbsentIsEmpty404", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				for _, w := range []*httptest.ResponseRecorder{
					do(t, h, http.MethodGet, "/api/employees/missing", ""),
					do(t, h, http.MethodPut, "/api/employees/missing", springBoot),
					do(t, h, http.MethodGet, "/api/employees/search?firstName=No&lastName=Body", ""),
				} {
					if w.Code != http.StatusNotFound || w.Body.Len() != 0 {
						t.Fatalf("expected empty 404, got %d: %q", w.Code, w.Body)
					}
				}
			})

			t.Run("ListEmpty", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				w := do(t, h, http.MethodGet, "/api/employees", "")
				if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
					t.Fatalf("expected 200 [], got %d: %s", w.Code, w.Body)
				}
			})

			t.Run("ListTwo", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				do(t, h, http.MethodPost, "/api/employees", springBoot)
				do(t, h, http.MethodPost, "/api/employees", `{"firstName":"Go","lastName":"Gin","email":"go@gin.io"}`)
				w := do(t, h, http.MethodGet, "/api/employees", "")
				if list := decode[[]domain.Employee](t, w); len(list) != 2 {
					t.Fatalf("expected 2 employees, got %+v", list)
				}
			})

			t.Run("Update", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				created := decode[domain.Employee](t, do(t, h, http.MethodPost, "/api/employees", springBoot))
				w := do(t, h, http.MethodPut, "/api/employees/"+created.ID, `{"id":"other","firstName":"Spring","lastName":"Framework","email":"framework@spring.io"}`)
				if w.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
				}
				got := decode[domain.Employee](t, w)
				want := domain.Employee{ID: created.ID, FirstName: "Spring", LastName: "Framework", Email: "framework@spring.io"}
				if got != want {
					t.Fatalf("expected %+v, got %+v", want, got)
				}
			})

			t.Run("Search", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				created := decode[domain.Employee](t, do(t, h, http.MethodPost, "/api/employees", springBoot))
				w := do(t, h, http.MethodGet, "/api/employees/search?firstName=Spring&lastName=Boot", "")
				if w.Code != http.StatusOK || decode[domain.Employee](t, w).ID != created.ID {
					t.Fatalf("expected match, got %d: %s", w.Code, w.Body)
				}
				if w := do(t, h, http.MethodGet, "/api/employees/search?firstName=Spring", ""); w.Code != http.StatusBadRequest {
					t.Fatalf("expected 400 without lastName, got %d", w.Code)
				}
			})

			t.Run("BadJSON", func(t *testing.T) {
				h := build(repo.NewMemoryEmployeeRepo())
				if w := do(t, h, http.MethodPost, "/api/employees", `{"firstName":`); w.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", w.Code)
				}
			})

			t.Run("StorageFailure", func(t *testing.T) {
				h := build(brokenRepo{repo.NewMemoryEmployeeRepo()})
				w := do(t, h, http.MethodGet, "/api/employees", "")
				if w.Code != http.StatusInternalServerError {
					t.Fatalf("expected 500, got %d: %s", w.Code, w.Body)
				}
				if strings.Contains(w.Body.String(), errStorage.Error()) {
					t.Fatalf("storage error leaked to client: %s", w.Body)
				}
			})
		})
	}
}

func TestEmployeeHandler_DeleteReturnsEmpty200(t *testing.T) {
	h := blocking(repo.NewMemoryEmployeeRepo())
	created := decode[domain.Employee](t, do(t, h, http.MethodPost, "/api/employees", springBoot))

	for _, id := range []string{created.ID, created.ID, "missing"} {
		w := do(t, h, http.MethodDelete, "/api/employees/"+id, "")
		if w.Code != http.StatusOK || w.Body.Len() != 0 {
			t.Fatalf("expected empty 200, got %d: %q", w.Code, w.Body)
		}
	}
	if w := do(t, h, http.MethodGet, "/api/employees/"+created.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestReactiveEmployeeHandler_DeleteReturnsNoContent(t *testing.T) {
	h := nonBlocking(repo.NewMemoryEmployeeRepo())
	created := decode[domain.Employee](t, do(t, h, http.MethodPost, "/api/employees", springBoot))

	for _, id := range []string{created.ID, created.ID, "missing"} {
		w := do(t, h, http.MethodDelete, "/api/employees/"+id, "")
		if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
			t.Fatalf("expected empty 204, got %d: %q", w.Code, w.Body)
		}
	}
}

func TestReactiveEmployeeHandler_StreamsNDJSON(t *testing.T) {
	h := nonBlocking(repo.NewMemoryEmployeeRepo())
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, e := range emails {
		do(t, h, http.MethodPost, "/api/employees", `{"firstName":"A","lastName":"B","email":"`+e+`"}`)
	}

	w := do(t, h, http.MethodGet, "/api/employees", "", "Accept", ndjson)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != ndjson {
		t.Fatalf("expected %s, got %q", ndjson, ct)
	}
	var got []string
	sc := bufio.NewScanner(w.Body)
	for sc.Scan() {
		var e domain.Employee
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		got = append(got, e.Email)
	}
	if strings.Join(got, ",") != strings.Join(emails, ",") {
		t.Fatalf("expected %v, got %v", emails, got)
	}
}

func TestReactiveEmployeeHandler_NDJSONEmptyAndError(t *testing.T) {
	h := nonBlocking(repo.NewMemoryEmployeeRepo())
	w := do(t, h, http.MethodGet, "/api/employees", "", "Accept", ndjson)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("expected empty 200 stream, got %d: %q", w.Code, w.Body)
	}

	h = nonBlocking(brokenRepo{repo.NewMemoryEmployeeRepo()})
	w = do(t, h, http.MethodGet, "/api/employees", "", "Accept", ndjson)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 before first element, got %d", w.Code)
	}
}

package repo

import (
	"context"
	"sort"
	"testing"
	"time"

	"employee-crud-starter/internal/domain"
)

// runContract 对任意 EmployeeRepository 实现跑同一组行为用例
func runContract(t *testing.T, newRepo func(t *testing.T) domain.EmployeeRepository) {
	t.Helper()

	t.Run("InsertAssignsID", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		got, err := r.Insert(ctx, &domain.Employee{ID: "ignored", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if got.ID == "" || got.ID == "ignored" {
			t.Fatalf("expected storage-assigned id, got %q", got.ID)
		}
		back, err := r.FindByID(ctx, got.ID)
		if err != nil || back == nil {
			t.Fatalf("FindByID: %v, %v", back, err)
		}
		if *back != *got {
			t.Fatalf("expected %+v, got %+v", *got, *back)
		}
	})

	t.Run("FindAbsent", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		if e, err := r.FindByID(ctx, "missing"); err != nil || e != nil {
			t.Fatalf("FindByID: %v, %v", e, err)
		}
		if e, err := r.FindByEmail(ctx, "nobody@example.com"); err != nil || e != nil {
			t.Fatalf("FindByEmail: %v, %v", e, err)
		}
		if e, err := r.FindByName(ctx, "No", "Body"); err != nil || e != nil {
			t.Fatalf("FindByName: %v, %v", e, err)
		}
		all, err := r.FindAll(ctx)
		if err != nil || len(all) != 0 {
			t.Fatalf("FindAll: %v, %v", all, err)
		}
	})

	t.Run("FindByEmailAndName", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		a := mustInsert(t, r, "Ada", "Lovelace", "ada@example.com")
		mustInsert(t, r, "Alan", "Turing", "alan@example.com")

		e, err := r.FindByEmail(ctx, "ada@example.com")
		if err != nil || e == nil || e.ID != a.ID {
			t.Fatalf("FindByEmail: %v, %v", e, err)
		}
		e, err = r.FindByName(ctx, "Ada", "Lovelace")
		if err != nil || e == nil || e.ID != a.ID {
			t.Fatalf("FindByName: %v, %v", e, err)
		}
		if e, _ := r.FindByName(ctx, "Ada", "Turing"); e != nil {
			t.Fatalf("expected no match for mixed names, got %+v", e)
		}
	})

	t.Run("FindAll", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		a := mustInsert(t, r, "Ada", "Lovelace", "ada@example.com")
		b := mustInsert(t, r, "Alan", "Turing", "alan@example.com")

		all, err := r.FindAll(ctx)
		if err != nil {
			t.Fatalf("FindAll: %v", err)
		}
		if got, want := ids(all), sortedIDs(a.ID, b.ID); !equal(got, want) {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		a := mustInsert(t, r, "Ada", "Lovelace", "ada@example.com")

		a.FirstName, a.Email = "Augusta", "augusta@example.com"
		saved, err := r.Save(ctx, a)
		if err != nil || saved.ID != a.ID {
			t.Fatalf("Save: %v, %v", saved, err)
		}
		back, _ := r.FindByID(ctx, a.ID)
		if back == nil || back.FirstName != "Augusta" || back.Email != "augusta@example.com" {
			t.Fatalf("expected updated record, got %+v", back)
		}
		if e, _ := r.FindByEmail(ctx, "ada@example.com"); e != nil {
			t.Fatalf("expected old email to be released, got %+v", e)
		}
		if e, _ := r.FindByEmail(ctx, "augusta@example.com"); e == nil || e.ID != a.ID {
			t.Fatalf("expected new email to resolve, got %+v", e)
		}
		all, _ := r.FindAll(ctx)
		if len(all) != 1 {
			t.Fatalf("expected 1 record after overwrite, got %d", len(all))
		}
	})

	t.Run("SaveAllowsSharedEmail", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		mustInsert(t, r, "Ada", "Lovelace", "ada@example.com")
		b := mustInsert(t, r, "Alan", "Turing", "alan@example.com")

		b.Email = "ada@example.com"
		if _, err := r.Save(ctx, b); err != nil {
			t.Fatalf("Save with shared email: %v", err)
		}
		if e, err := r.FindByEmail(ctx, "ada@example.com"); err != nil || e == nil {
			t.Fatalf("FindByEmail: %v, %v", e, err)
		}
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		r := newRepo(t)
		ctx := testCtx(t)
		a := mustInsert(t, r, "Ada", "Lovelace", "ada@example.com")

		if err := r.DeleteByID(ctx, a.ID); err != nil {
			t.Fatalf("DeleteByID: %v", err)
		}
		if err := r.DeleteByID(ctx, a.ID); err != nil {
			t.Fatalf("second DeleteByID: %v", err)
		}
		if err := r.DeleteByID(ctx, "missing"); err != nil {
			t.Fatalf("DeleteByID missing: %v", err)
		}
		if e, _ := r.FindByID(ctx, a.ID); e != nil {
			t.Fatalf("expected deleted, got %+v", e)
		}
		if e, _ := r.FindByEmail(ctx, "ada@example.com"); e != nil {
			t.Fatalf("expected email index cleared, got %+v", e)
		}
	})
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func mustInsert(t *testing.T, r domain.EmployeeRepository, first, last, email string) *domain.Employee {
	t.Helper()
	e, err := r.Insert(testCtx(t), &domain.Employee{FirstName: first, LastName: last, Email: email})
	if err != nil {
		t.Fatalf("Insert %s: %v", email, err)
	}
	return e
}

func ids(es []domain.Employee) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	sort.Strings(out)
	return out
}

func sortedIDs(in ...string) []string {
	sort.Strings(in)
	return in
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

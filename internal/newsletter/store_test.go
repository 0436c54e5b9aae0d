package newsletter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/classkit/newsletter-studio/internal/section"
)

func fixedTime() time.Time {
	return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock: %v", err)
	}
	store := NewStore(db, testFactory())
	return store, mock, func() { db.Close() }
}

func newsletterColumns() []string {
	return []string{"id", "user_id", "title", "content", "settings", "status", "created_at", "updated_at"}
}

func templateColumns() []string {
	return []string{"id", "user_id", "name", "description", "content", "settings", "is_public", "is_global", "created_at", "updated_at"}
}

func TestStore_CreateNewsletter(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO newsletters").
		WillReturnResult(sqlmock.NewResult(1, 1))

	n := &Newsletter{
		UserID:  "user-1",
		Title:   "Week 12",
		Content: Content{Version: ContentVersion},
	}
	if err := store.CreateNewsletter(context.Background(), n); err != nil {
		t.Fatalf("CreateNewsletter() error = %v", err)
	}

	if n.ID == uuid.Nil {
		t.Error("CreateNewsletter() did not assign an id")
	}
	if n.Status != StatusDraft {
		t.Errorf("CreateNewsletter() status = %s, want %s", n.Status, StatusDraft)
	}
	if n.CreatedAt.IsZero() || n.UpdatedAt.IsZero() {
		t.Error("CreateNewsletter() did not set timestamps")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_GetNewsletter(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		// Stored content carries a field no current release writes; it
		// must survive the fetch untouched.
		content := []byte(`{
			"version": "1.0",
			"sections": [
				{"id": "sec-1", "type": "title", "order": 0, "data": {"text": "Hello", "futureField": "keep me"}}
			],
			"theme": {"primaryColor": "#336699"}
		}`)

		rows := sqlmock.NewRows(newsletterColumns()).AddRow(
			id, "user-1", "Week 12", content, []byte(`{}`), "draft",
			fixedTime(), fixedTime())
		mock.ExpectQuery("FROM newsletters WHERE id").
			WithArgs(id, "user-1").
			WillReturnRows(rows)

		n, err := store.GetNewsletter(context.Background(), "user-1", id)
		if err != nil {
			t.Fatalf("GetNewsletter() error = %v", err)
		}
		if n == nil {
			t.Fatal("GetNewsletter() returned nil for existing row")
		}

		if len(n.Content.Sections) != 1 {
			t.Fatalf("GetNewsletter() sections = %d, want 1", len(n.Content.Sections))
		}
		sec := n.Content.Sections[0]
		if sec.ID != "sec-1" || sec.Type != section.TypeTitle {
			t.Errorf("GetNewsletter() section = %s/%s, want sec-1/title", sec.ID, sec.Type)
		}
		if sec.Data["futureField"] != "keep me" {
			t.Error("GetNewsletter() dropped an unrecognized data field")
		}
		if n.Content.Theme.String("primaryColor", "") != "#336699" {
			t.Error("GetNewsletter() did not preserve stored theme")
		}
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM newsletters WHERE id").
			WithArgs(id, "user-2").
			WillReturnRows(sqlmock.NewRows(newsletterColumns()))

		n, err := store.GetNewsletter(context.Background(), "user-2", id)
		if err != nil {
			t.Fatalf("GetNewsletter() error = %v", err)
		}
		if n != nil {
			t.Error("GetNewsletter() should return nil for missing row")
		}
	})

	t.Run("empty content gets starter sections", func(t *testing.T) {
		rows := sqlmock.NewRows(newsletterColumns()).AddRow(
			id, "user-1", "Blank", []byte(`{}`), []byte(`{}`), "draft",
			fixedTime(), fixedTime())
		mock.ExpectQuery("FROM newsletters WHERE id").
			WithArgs(id, "user-1").
			WillReturnRows(rows)

		n, err := store.GetNewsletter(context.Background(), "user-1", id)
		if err != nil {
			t.Fatalf("GetNewsletter() error = %v", err)
		}
		if len(n.Content.Sections) != len(DefaultSectionTypes) {
			t.Errorf("GetNewsletter() sections = %d, want %d defaults",
				len(n.Content.Sections), len(DefaultSectionTypes))
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_ListNewsletters(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	rows := sqlmock.NewRows(newsletterColumns()).
		AddRow(uuid.New(), "user-1", "Week 12", []byte(`{"version":"1.0","sections":[{"id":"a","type":"title","order":0,"data":{}}]}`),
			[]byte(`{}`), "published", fixedTime(), fixedTime()).
		AddRow(uuid.New(), "user-1", "Week 11", []byte(`{"version":"1.0","sections":[{"id":"b","type":"title","order":0,"data":{}}]}`),
			[]byte(`{}`), "draft", fixedTime(), fixedTime())
	mock.ExpectQuery("FROM newsletters WHERE user_id").
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := store.ListNewsletters(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListNewsletters() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListNewsletters() = %d newsletters, want 2", len(list))
	}
	if list[0].Title != "Week 12" || list[1].Title != "Week 11" {
		t.Error("ListNewsletters() rows out of order")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_UpdateNewsletter(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	n := &Newsletter{
		ID:      uuid.New(),
		UserID:  "user-1",
		Title:   "Week 12",
		Content: Content{Version: ContentVersion},
		Status:  StatusDraft,
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE newsletters SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := store.UpdateNewsletter(context.Background(), n); err != nil {
			t.Errorf("UpdateNewsletter() error = %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE newsletters SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.UpdateNewsletter(context.Background(), n)
		if err == nil {
			t.Fatal("UpdateNewsletter() expected error for missing row")
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateNewsletter() error = %v, want ErrNotFound", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_DuplicateNewsletter(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	id := uuid.New()
	content := []byte(`{"version":"1.0","sections":[{"id":"sec-1","type":"title","order":0,"data":{"text":"Hello"}}]}`)
	rows := sqlmock.NewRows(newsletterColumns()).AddRow(
		id, "user-1", "Week 12", content, []byte(`{}`), "published",
		fixedTime(), fixedTime())
	mock.ExpectQuery("FROM newsletters WHERE id").
		WithArgs(id, "user-1").
		WillReturnRows(rows)
	mock.ExpectExec("INSERT INTO newsletters").
		WillReturnResult(sqlmock.NewResult(1, 1))

	dup, err := store.DuplicateNewsletter(context.Background(), "user-1", id)
	if err != nil {
		t.Fatalf("DuplicateNewsletter() error = %v", err)
	}

	if dup.Title != "Week 12 (Copy)" {
		t.Errorf("DuplicateNewsletter() title = %q, want %q", dup.Title, "Week 12 (Copy)")
	}
	if dup.Status != StatusDraft {
		t.Errorf("DuplicateNewsletter() status = %s, want draft copy", dup.Status)
	}
	if dup.ID == id {
		t.Error("DuplicateNewsletter() reused the source id")
	}
	if len(dup.Content.Sections) != 1 || dup.Content.Sections[0].Data["text"] != "Hello" {
		t.Error("DuplicateNewsletter() did not carry content over")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_Templates(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	t.Run("create", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO newsletter_templates").
			WillReturnResult(sqlmock.NewResult(1, 1))

		tpl := &Template{
			UserID:  "user-1",
			Name:    "Weekly Update",
			Content: Content{Version: ContentVersion},
		}
		if err := store.CreateTemplate(context.Background(), tpl); err != nil {
			t.Fatalf("CreateTemplate() error = %v", err)
		}
		if tpl.ID == uuid.Nil {
			t.Error("CreateTemplate() did not assign an id")
		}
	})

	t.Run("list global first", func(t *testing.T) {
		rows := sqlmock.NewRows(templateColumns()).
			AddRow(uuid.New(), "admin", "District Standard", "", []byte(`{}`), []byte(`{}`), false, true, fixedTime(), fixedTime()).
			AddRow(uuid.New(), "user-1", "Weekly Update", "", []byte(`{}`), []byte(`{}`), false, false, fixedTime(), fixedTime())
		mock.ExpectQuery("FROM newsletter_templates").
			WithArgs("user-1").
			WillReturnRows(rows)

		list, err := store.ListTemplates(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("ListTemplates() error = %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("ListTemplates() = %d templates, want 2", len(list))
		}
		if !list[0].IsGlobal {
			t.Error("ListTemplates() global template not first")
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectExec("DELETE FROM newsletter_templates").
			WithArgs(id, "user-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.DeleteTemplate(context.Background(), "user-1", id)
		if err == nil {
			t.Fatal("DeleteTemplate() expected error for missing row")
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteTemplate() error = %v, want ErrNotFound", err)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

func TestStore_InstantiateTemplate(t *testing.T) {
	store, mock, closeDB := newMockStore(t)
	defer closeDB()

	id := uuid.New()
	content := []byte(`{"version":"1.0","sections":[{"id":"sec-1","type":"header","order":0,"data":{"title":"Panther Press"}}]}`)
	rows := sqlmock.NewRows(templateColumns()).AddRow(
		id, "admin", "District Standard", "", content, []byte(`{}`), false, true,
		fixedTime(), fixedTime())
	mock.ExpectQuery("FROM newsletter_templates").
		WithArgs(id, "user-1").
		WillReturnRows(rows)
	mock.ExpectExec("INSERT INTO newsletters").
		WillReturnResult(sqlmock.NewResult(1, 1))

	n, err := store.InstantiateTemplate(context.Background(), "user-1", id, "")
	if err != nil {
		t.Fatalf("InstantiateTemplate() error = %v", err)
	}

	if n.Title != "District Standard" {
		t.Errorf("InstantiateTemplate() title = %q, want template name fallback", n.Title)
	}
	if n.UserID != "user-1" {
		t.Errorf("InstantiateTemplate() owner = %q, want user-1", n.UserID)
	}
	if n.Status != StatusDraft {
		t.Errorf("InstantiateTemplate() status = %s, want draft", n.Status)
	}
	if len(n.Content.Sections) != 1 || n.Content.Sections[0].Data["title"] != "Panther Press" {
		t.Error("InstantiateTemplate() did not carry template content over")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %s", err)
	}
}

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/database"
	"github.com/gdg-garage/event-signup-bot/internal/models"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	return db
}

func newEvent(title string, date time.Time, active bool) *models.Event {
	return &models.Event{
		Title:       title,
		Description: "About " + title,
		Date:        date,
		Time:        "18:00",
		Location:    "IT Park",
		Price:       15000,
		IsActive:    active,
	}
}

func TestEventStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	events := NewEventStore(setupDB(t))

	ev := newEvent("Go Meetup", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), true)
	if err := events.Create(ctx, ev); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if ev.ID == "" {
		t.Fatal("expected ID to be assigned on create")
	}

	got, err := events.Get(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Go Meetup" || !got.IsActive {
		t.Errorf("unexpected event: %+v", got)
	}

	if _, err := events.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventStore_CreateRejectsMissingFields(t *testing.T) {
	ctx := context.Background()
	events := NewEventStore(setupDB(t))

	cases := map[string]func(e *models.Event){
		"title":    func(e *models.Event) { e.Title = "" },
		"date":     func(e *models.Event) { e.Date = time.Time{} },
		"location": func(e *models.Event) { e.Location = "  " },
		"price":    func(e *models.Event) { e.Price = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			ev := newEvent("Broken", time.Now(), true)
			mutate(ev)
			if err := events.Create(ctx, ev); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}

	n, _ := events.Count(ctx)
	if n != 0 {
		t.Errorf("expected no events stored, got %d", n)
	}
}

func TestEventStore_ListOrdering(t *testing.T) {
	ctx := context.Background()
	events := NewEventStore(setupDB(t))

	late := newEvent("Late", time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), true)
	early := newEvent("Early", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), false)
	mid := newEvent("Mid", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), true)
	for _, ev := range []*models.Event{late, early, mid} {
		if err := events.Create(ctx, ev); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	all, err := events.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Early" || all[1].Title != "Mid" || all[2].Title != "Late" {
		t.Errorf("expected date ascending order, got %v", titles(all))
	}

	active, err := events.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive returned error: %v", err)
	}
	if len(active) != 2 || active[0].Title != "Late" || active[1].Title != "Mid" {
		t.Errorf("expected active events in creation order, got %v", titles(active))
	}

	total, _ := events.Count(ctx)
	activeCount, _ := events.CountActive(ctx)
	if total != 3 || activeCount != 2 {
		t.Errorf("expected counts 3/2, got %d/%d", total, activeCount)
	}
}

func TestEventStore_UpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	events := NewEventStore(setupDB(t))

	ev := newEvent("Go Meetup", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), true)
	events.Create(ctx, ev)

	title := "Go Meetup #2"
	inactive := false
	updated, err := events.Update(ctx, ev.ID, models.EventPatch{Title: &title, IsActive: &inactive})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != title || updated.IsActive {
		t.Errorf("patch not applied: %+v", updated)
	}
	if updated.Location != "IT Park" || updated.Price != 15000 {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	empty := ""
	if _, err := events.Update(ctx, ev.ID, models.EventPatch{Title: &empty}); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for empty title, got %v", err)
	}
	if _, err := events.Update(ctx, "missing", models.EventPatch{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventStore_ToggleAndDelete(t *testing.T) {
	ctx := context.Background()
	events := NewEventStore(setupDB(t))

	ev := newEvent("Go Meetup", time.Now(), true)
	events.Create(ctx, ev)

	toggled, err := events.Toggle(ctx, ev.ID)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if toggled.IsActive {
		t.Error("expected event to be inactive after toggle")
	}
	stored, _ := events.Get(ctx, ev.ID)
	if stored.IsActive {
		t.Error("expected toggle to be persisted")
	}

	if err := events.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := events.Delete(ctx, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRegistrationStore(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	events := NewEventStore(db)
	regs := NewRegistrationStore(db)

	a := newEvent("A", time.Now(), true)
	b := newEvent("B", time.Now(), true)
	events.Create(ctx, a)
	events.Create(ctx, b)

	yes, no := true, false
	base := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)
	fixtures := []models.Registration{
		{EventID: a.ID, TelegramID: "1", FirstName: "Ali", LastName: "Valiyev", CanPay: &yes, CreatedAt: base.Add(-48 * time.Hour)},
		{EventID: a.ID, TelegramID: "2", FirstName: "Vali", CanPay: &no, CreatedAt: base},
		{EventID: b.ID, TelegramID: "1", FirstName: "Ali", CanPay: &yes, CreatedAt: base.Add(time.Hour)},
	}
	for i := range fixtures {
		if err := regs.Create(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	t.Run("Recent", func(t *testing.T) {
		recent, err := regs.Recent(ctx, 2)
		if err != nil {
			t.Fatalf("Recent returned error: %v", err)
		}
		if len(recent) != 2 {
			t.Fatalf("expected 2 registrations, got %d", len(recent))
		}
		if recent[0].EventID != b.ID || recent[0].Event == nil || recent[0].Event.Title != "B" {
			t.Errorf("expected newest registration with event B preloaded, got %+v", recent[0])
		}

		all, _ := regs.Recent(ctx, 0)
		if len(all) != 3 {
			t.Errorf("expected all 3 registrations without limit, got %d", len(all))
		}
	})

	t.Run("Counts", func(t *testing.T) {
		total, _ := regs.Count(ctx)
		ready, _ := regs.CountPaymentReady(ctx)
		since, _ := regs.CountSince(ctx, base.Add(-time.Minute))
		if total != 3 || ready != 2 || since != 2 {
			t.Errorf("expected 3/2/2, got %d/%d/%d", total, ready, since)
		}

		byEvent, err := regs.CountByEvent(ctx)
		if err != nil {
			t.Fatalf("CountByEvent returned error: %v", err)
		}
		if byEvent[a.ID] != 2 || byEvent[b.ID] != 1 {
			t.Errorf("unexpected per-event counts: %v", byEvent)
		}
	})

	t.Run("DeletedEventLeavesDanglingReference", func(t *testing.T) {
		if err := events.Delete(ctx, b.ID); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		recent, err := regs.Recent(ctx, 1)
		if err != nil {
			t.Fatalf("Recent returned error: %v", err)
		}
		if recent[0].EventID != b.ID || recent[0].Event != nil {
			t.Errorf("expected registration to keep the event ID with no event loaded, got %+v", recent[0])
		}
	})

	t.Run("RejectsMissingFields", func(t *testing.T) {
		err := regs.Create(ctx, &models.Registration{EventID: a.ID, FirstName: "Ali"})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	users := NewUserStore(db)

	yes := true
	db.Create(&models.User{TelegramID: "1", FirstName: "Ali", LastName: "Valiyev", IsTargetAudience: true, CanPay: &yes})
	db.Create(&models.User{TelegramID: "2", FirstName: "Vali", LastName: "Aliyev"})

	list, err := users.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 || list[0].TelegramID != "2" {
		t.Errorf("expected newest user first, got %+v", list)
	}

	counts, err := users.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts returned error: %v", err)
	}
	if counts != (UserCounts{Total: 2, TargetAudience: 1, CanPay: 1}) {
		t.Errorf("unexpected counts: %+v", counts)
	}
}

func titles(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

package profile

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testDBSeq atomic.Uint64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:profile_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Profile{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestGet_AbsentIsNotAnError(t *testing.T) {
	store := NewStore(openTestDB(t))

	p, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Fatalf("expected nil profile before first save, got %+v", p)
	}
}

func TestSave_ReplacesWholeProfile(t *testing.T) {
	store := NewStore(openTestDB(t))

	first := Profile{Age: "30", Weight: "70", Units: UnitsMetric, Goal: "Maintain weight"}
	if err := store.Save(context.Background(), 1, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	// full replace: fields omitted the second time must come back empty
	second := Profile{Age: "31", Units: UnitsImperial}
	if err := store.Save(context.Background(), 1, second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected profile")
	}
	if got.Age != "31" || got.Units != UnitsImperial {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if got.Weight != "" || got.Goal != "" {
		t.Fatalf("expected replaced profile to drop old fields, got %+v", got)
	}
}

func TestSave_ScopedByAccount(t *testing.T) {
	store := NewStore(openTestDB(t))

	if err := store.Save(context.Background(), 1, Profile{Goal: "Lose weight"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := store.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if other != nil {
		t.Fatalf("profile leaked across accounts: %+v", other)
	}
}

func TestIsEmpty(t *testing.T) {
	var nilProfile *Profile
	if !nilProfile.IsEmpty() {
		t.Fatalf("nil profile should be empty")
	}
	if !(&Profile{Units: UnitsMetric}).IsEmpty() {
		t.Fatalf("units alone should not count as content")
	}
	if (&Profile{Age: "30"}).IsEmpty() {
		t.Fatalf("profile with age should not be empty")
	}
}

package db

import (
	"testing"
	"time"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewHistoryStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestHistoryStore_RecordAndRecent tests the basic append and read-back path
func TestHistoryStore_RecordAndRecent(t *testing.T) {
	store := newTestHistoryStore(t)

	base := time.Now().Add(-time.Minute)
	records := []*ProbeRecord{
		{Operation: OpConnectionTest, BaseURL: "http://a.example", Success: true, StatusCode: 200, LatencyMs: 12, CreatedAt: base},
		{Operation: OpListModels, BaseURL: "http://a.example", Success: true, ModelsCount: 3, LatencyMs: 40, CreatedAt: base.Add(time.Second)},
		{Operation: OpConnectionTest, BaseURL: "http://b.example", Success: false, ErrorKind: "network_error", Message: "connection refused", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, r := range records {
		if err := store.Record(r); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if r.ID == "" {
			t.Error("Record() did not assign an ID")
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() returned %d records, want 3", len(got))
	}
	// Newest first
	if got[0].BaseURL != "http://b.example" {
		t.Errorf("Recent()[0].BaseURL = %q, want the newest record", got[0].BaseURL)
	}
	if got[2].Operation != OpConnectionTest || got[2].StatusCode != 200 {
		t.Errorf("Recent()[2] = %+v, want the oldest connection test", got[2])
	}
}

// TestHistoryStore_RecentLimit tests the limit and its default
func TestHistoryStore_RecentLimit(t *testing.T) {
	store := newTestHistoryStore(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := store.Record(&ProbeRecord{
			Operation: OpConnectionTest,
			BaseURL:   "http://x.example",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d records", len(got))
	}

	all, err := store.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0) error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Recent(0) returned %d records, want all 5 under the default limit", len(all))
	}
}

// TestHistoryStore_NilRecord tests the nil guard
func TestHistoryStore_NilRecord(t *testing.T) {
	store := newTestHistoryStore(t)
	if err := store.Record(nil); err == nil {
		t.Error("Record(nil) succeeded, want error")
	}
}

// TestHistoryStore_CountAndPrune tests retention cleanup
func TestHistoryStore_CountAndPrune(t *testing.T) {
	store := newTestHistoryStore(t)

	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Minute)

	if err := store.Record(&ProbeRecord{Operation: OpConnectionTest, BaseURL: "http://old.example", CreatedAt: old}); err != nil {
		t.Fatal(err)
	}
	if err := store.Record(&ProbeRecord{Operation: OpConnectionTest, BaseURL: "http://new.example", CreatedAt: recent}); err != nil {
		t.Fatal(err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	if err := store.Prune(24 * time.Hour); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	count, err = store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after prune, want 1", count)
	}

	remaining, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].BaseURL != "http://new.example" {
		t.Errorf("pruned the wrong record: %+v", remaining)
	}
}

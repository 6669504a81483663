package news

import (
	"testing"
	"time"
)

func TestStorePublishSortsNewestFirst(t *testing.T) {
	store := NewStore()
	older := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC)

	store.Publish(&Metadata{Title: "Blog"}, []Item{
		{GUID: "old", PublishedAt: older},
		{GUID: "new", PublishedAt: newer},
	})

	metadata, items := store.Latest(0)
	if metadata.Title != "Blog" {
		t.Errorf("Expected metadata title 'Blog', got '%s'", metadata.Title)
	}
	if len(items) != 2 || items[0].GUID != "new" {
		t.Errorf("Expected newest item first, got %+v", items)
	}
}

func TestStoreLatestLimit(t *testing.T) {
	store := NewStore()
	store.Publish(nil, []Item{{GUID: "a"}, {GUID: "b"}, {GUID: "c"}})

	_, items := store.Latest(2)
	if len(items) != 2 {
		t.Errorf("Expected 2 items with limit, got %d", len(items))
	}
	if store.Count() != 3 {
		t.Errorf("Expected count 3, got %d", store.Count())
	}
}

func TestStoreEmpty(t *testing.T) {
	store := NewStore()
	metadata, items := store.Latest(10)
	if metadata != nil || len(items) != 0 {
		t.Errorf("Expected empty store, got %v, %v", metadata, items)
	}
}

package ecolife

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestCache(t *testing.T) (*Store, *ContentCache) {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache_test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, NewContentCache(s, time.Hour)
}

func TestCacheServesSnapshotUntilInvalidated(t *testing.T) {
	s, c := setupTestCache(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	if _, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: "First", Subtitle: "s", Tag: TagWaste, Date: "d", Body: "b", ImgURL: "u"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	posts, err := c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("len(posts) = %d, want 1", len(posts))
	}

	// A write behind the cache's back is invisible until Invalidate.
	if _, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: "Second", Subtitle: "s", Tag: TagWaste, Date: "d", Body: "b", ImgURL: "u"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("stale read returned %d posts, want 1", len(posts))
	}

	c.Invalidate()
	posts, err = c.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("post-invalidate read returned %d posts, want 2", len(posts))
	}
}

func TestCacheTagFilter(t *testing.T) {
	s, c := setupTestCache(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	for i, tag := range []string{TagWaste, TagLifestyle, TagWaste} {
		if _, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: string(rune('A' + i)), Subtitle: "s", Tag: tag, Date: "d", Body: "b", ImgURL: "u"}); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}

	waste, err := c.ListPosts(TagWaste)
	if err != nil {
		t.Fatalf("ListPosts(waste) failed: %v", err)
	}
	if len(waste) != 2 {
		t.Errorf("len(waste) = %d, want 2", len(waste))
	}
	for _, p := range waste {
		if p.Tag != TagWaste {
			t.Errorf("tag filter leaked %q", p.Tag)
		}
	}
}

func TestCacheHomeEventsCapped(t *testing.T) {
	s, c := setupTestCache(t)

	for i := 0; i < homeEventLimit+2; i++ {
		if _, err := s.CreateEvent(Event{CalendarID: CalendarEvents, Heading: "E", Text: "t", Date: "d"}); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}
	if _, err := s.CreateEvent(Event{CalendarID: CalendarPurchases, Heading: "P", Text: "t", Date: "d"}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	events, err := c.HomeEvents()
	if err != nil {
		t.Fatalf("HomeEvents failed: %v", err)
	}
	if len(events[CalendarEvents]) != homeEventLimit {
		t.Errorf("calendar 1 has %d entries, want %d", len(events[CalendarEvents]), homeEventLimit)
	}
	if len(events[CalendarPurchases]) != 1 {
		t.Errorf("calendar 2 has %d entries, want 1", len(events[CalendarPurchases]))
	}
}

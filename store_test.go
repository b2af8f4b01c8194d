package ecolife

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateUser(t *testing.T, s *Store, email, name string) User {
	t.Helper()
	u, err := s.CreateUser(email, "not-a-real-hash", name)
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return u
}

func TestFirstUserIsAdmin(t *testing.T) {
	s := setupTestStore(t)

	first := mustCreateUser(t, s, "owner@example.com", "Owner")
	second := mustCreateUser(t, s, "reader@example.com", "Reader")

	if !first.IsAdmin {
		t.Error("first user should be admin")
	}
	if second.IsAdmin {
		t.Error("second user should not be admin")
	}

	got, err := s.UserByEmail("owner@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if !got.IsAdmin {
		t.Error("admin flag should persist")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := setupTestStore(t)

	mustCreateUser(t, s, "dup@example.com", "First")
	_, err := s.CreateUser("dup@example.com", "hash", "Second")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := s.UserByEmail("dup@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if got.Name != "First" {
		t.Errorf("Name = %q, want %q (duplicate insert must not overwrite)", got.Name, "First")
	}
}

func TestCreateAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	id, err := s.CreatePost(BlogPost{
		AuthorID: author.ID,
		Title:    "Zero Waste Kitchen",
		Subtitle: "Small swaps that stick",
		Tag:      TagWaste,
		Date:     "January 15, 2026",
		Body:     "<p>Start with the bin.</p>",
		ImgURL:   "https://example.com/kitchen.jpg",
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, err := s.PostByID(id)
	if err != nil {
		t.Fatalf("PostByID failed: %v", err)
	}
	if got.Title != "Zero Waste Kitchen" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.AuthorName != "Owner" {
		t.Errorf("AuthorName = %q, want Owner", got.AuthorName)
	}
	if got.Tag != TagWaste {
		t.Errorf("Tag = %q", got.Tag)
	}
	if got.Body != "<p>Start with the bin.</p>" {
		t.Errorf("Body = %q", got.Body)
	}
}

func TestCreatePostDuplicateTitle(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	p := BlogPost{AuthorID: author.ID, Title: "Same Title", Subtitle: "s", Tag: TagLifestyle, Date: "d", Body: "b", ImgURL: "u"}
	if _, err := s.CreatePost(p); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := s.CreatePost(p); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestUpdatePostKeepsAuthorAndDate(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	id, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: "Before", Subtitle: "s", Tag: TagLifestyle, Date: "January 1, 2026", Body: "b", ImgURL: "u"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	post, err := s.PostByID(id)
	if err != nil {
		t.Fatalf("PostByID failed: %v", err)
	}
	post.Title = "After"
	post.Tag = TagTechnologies
	if err := s.UpdatePost(post); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := s.PostByID(id)
	if err != nil {
		t.Fatalf("PostByID failed: %v", err)
	}
	if got.Title != "After" || got.Tag != TagTechnologies {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Date != "January 1, 2026" {
		t.Errorf("Date changed on update: %q", got.Date)
	}
	if got.AuthorID != author.ID {
		t.Errorf("AuthorID changed on update: %d", got.AuthorID)
	}
}

func TestListPostsByTag(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")

	for i, tag := range []string{TagWaste, TagWaste, TagLifestyle} {
		_, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: string(rune('A' + i)), Subtitle: "s", Tag: tag, Date: "d", Body: "b", ImgURL: "u"})
		if err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}

	all, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	waste, err := s.ListPosts(TagWaste)
	if err != nil {
		t.Fatalf("ListPosts(waste) failed: %v", err)
	}
	if len(waste) != 2 {
		t.Errorf("len(waste) = %d, want 2", len(waste))
	}
	for _, p := range waste {
		if p.Tag != TagWaste {
			t.Errorf("unexpected tag %q in waste listing", p.Tag)
		}
	}

	tech, err := s.ListPosts(TagTechnologies)
	if err != nil {
		t.Fatalf("ListPosts(technologies) failed: %v", err)
	}
	if len(tech) != 0 {
		t.Errorf("len(tech) = %d, want 0", len(tech))
	}
}

func TestDeletePostCascadesComments(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")
	reader := mustCreateUser(t, s, "reader@example.com", "Reader")

	id, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: "T", Subtitle: "s", Tag: TagWaste, Date: "d", Body: "b", ImgURL: "u"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := s.CreateComment(Comment{PostID: id, AuthorID: reader.ID, Text: "<p>nice</p>"}); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if err := s.DeletePost(id); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	if _, err := s.PostByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	comments, err := s.CommentsForPost(id)
	if err != nil {
		t.Fatalf("CommentsForPost failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived post deletion: %d left", len(comments))
	}
}

func TestCommentAuthorNameIsLiveJoined(t *testing.T) {
	s := setupTestStore(t)
	author := mustCreateUser(t, s, "owner@example.com", "Owner")
	reader := mustCreateUser(t, s, "reader@example.com", "Old Name")

	id, err := s.CreatePost(BlogPost{AuthorID: author.ID, Title: "T", Subtitle: "s", Tag: TagWaste, Date: "d", Body: "b", ImgURL: "u"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if _, err := s.CreateComment(Comment{PostID: id, AuthorID: reader.ID, Text: "hi"}); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	if _, err := s.db.Exec(`UPDATE users SET name = ? WHERE id = ?`, "New Name", reader.ID); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	comments, err := s.CommentsForPost(id)
	if err != nil {
		t.Fatalf("CommentsForPost failed: %v", err)
	}
	if len(comments) != 1 || comments[0].AuthorName != "New Name" {
		t.Errorf("comments = %+v, want live-joined New Name", comments)
	}
}

func TestEvents(t *testing.T) {
	s := setupTestStore(t)

	for i := 0; i < 4; i++ {
		_, err := s.CreateEvent(Event{CalendarID: CalendarEvents, Heading: string(rune('A' + i)), Text: "t", Date: "03.09.2026"})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}
	otherID, err := s.CreateEvent(Event{CalendarID: CalendarPurchases, Heading: "Market", Text: "t", Date: "04.09.2026"})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	limited, err := s.ListEvents(CalendarEvents, 3)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("len(limited) = %d, want 3", len(limited))
	}
	if limited[0].Heading != "D" {
		t.Errorf("expected newest-first, got %q first", limited[0].Heading)
	}

	purchases, err := s.ListEvents(CalendarPurchases, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(purchases) != 1 || purchases[0].Heading != "Market" {
		t.Errorf("purchases = %+v", purchases)
	}

	got, err := s.EventByID(otherID)
	if err != nil {
		t.Fatalf("EventByID failed: %v", err)
	}
	if got.CalendarID != CalendarPurchases {
		t.Errorf("CalendarID = %d", got.CalendarID)
	}

	if err := s.DeleteEvent(otherID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if _, err := s.EventByID(otherID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

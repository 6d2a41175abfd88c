package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-board-backend/internal/domain"
)

func TestCreateComment_ReloadsAuthor(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")
	p := seedPost(t, db, u.ID, "post")

	c := seedComment(t, db, p.ID, u.ID, "hi")
	if c.ID == 0 || c.Author == nil || c.Author.ID != u.ID {
		t.Fatalf("unexpected comment: %+v", c)
	}
}

func TestCreateComment_MissingPostViolatesFK(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")

	err := CreateComment(context.Background(), db, &domain.Comment{Content: "x", PostID: 999, AuthorID: u.ID})
	if err == nil {
		t.Fatal("expected foreign key error")
	}
	var n int64
	db.Model(&domain.Comment{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestGetComment(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")
	p := seedPost(t, db, u.ID, "post")
	c := seedComment(t, db, p.ID, u.ID, "hi")

	got, err := GetComment(context.Background(), db, c.ID)
	if err != nil || got.Content != "hi" || got.Author == nil {
		t.Fatalf("GetComment: got=%+v err=%v", got, err)
	}
	if _, err := GetComment(context.Background(), db, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListComments_AllPagedAndByPost(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")
	p1 := seedPost(t, db, u.ID, "one")
	p2 := seedPost(t, db, u.ID, "two")
	c1 := seedComment(t, db, p1.ID, u.ID, "c1")
	c2 := seedComment(t, db, p1.ID, u.ID, "c2")
	seedComment(t, db, p2.ID, u.ID, "c3")
	ctx := context.Background()

	all, err := ListComments(ctx, db)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListComments: len=%d err=%v", len(all), err)
	}

	n, err := CountComments(ctx, db)
	if err != nil || n != 3 {
		t.Fatalf("CountComments: n=%d err=%v", n, err)
	}

	page, err := ListCommentsPage(ctx, db, 0, 2)
	if err != nil || len(page) != 2 {
		t.Fatalf("ListCommentsPage: len=%d err=%v", len(page), err)
	}
	rest, err := ListCommentsPage(ctx, db, 2, 2)
	if err != nil || len(rest) != 1 {
		t.Fatalf("ListCommentsPage tail: len=%d err=%v", len(rest), err)
	}

	byPost, err := ListCommentsByPost(ctx, db, p1.ID)
	if err != nil {
		t.Fatalf("ListCommentsByPost: %v", err)
	}
	if len(byPost) != 2 || byPost[0].ID != c1.ID || byPost[1].ID != c2.ID {
		t.Fatalf("unexpected by-post comments: %+v", byPost)
	}
}

func TestListCommentDetails(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")
	p := seedPost(t, db, u.ID, "post title")
	c := seedComment(t, db, p.ID, u.ID, "detail")

	got, err := ListCommentDetails(context.Background(), db, p.ID)
	if err != nil {
		t.Fatalf("ListCommentDetails: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(got))
	}
	d := got[0]
	if d.ID != c.ID || d.Content != "detail" || d.Author.ID != u.ID || d.Author.Name == nil || *d.Author.Name != "alice" {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if d.Post.ID != p.ID || d.Post.Title != "post title" {
		t.Fatalf("unexpected post summary: %+v", d.Post)
	}

	none, err := ListCommentDetails(context.Background(), db, p.ID+100)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty details, got %+v err=%v", none, err)
	}
}

func TestSearchComments_ContentOrAuthor(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "a@example.com", "Alice")
	bob := seedUser(t, db, "b@example.com", "Bob")
	p := seedPost(t, db, alice.ID, "post")
	seedComment(t, db, p.ID, alice.ID, "first!")
	seedComment(t, db, p.ID, bob.ID, "Mentions ALICE")
	seedComment(t, db, p.ID, bob.ID, "nothing")

	got, err := SearchComments(context.Background(), db, "alice")
	if err != nil {
		t.Fatalf("SearchComments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(got), got)
	}
}

func TestUpdateAndDeleteComment(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "a@example.com", "alice")
	p := seedPost(t, db, u.ID, "post")
	c := seedComment(t, db, p.ID, u.ID, "before")
	ctx := context.Background()

	got, err := UpdateComment(ctx, db, c.ID, "after")
	if err != nil || got.Content != "after" || got.Author == nil {
		t.Fatalf("UpdateComment: got=%+v err=%v", got, err)
	}
	if _, err := UpdateComment(ctx, db, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := DeleteComment(ctx, db, c.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	if err := DeleteComment(ctx, db, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

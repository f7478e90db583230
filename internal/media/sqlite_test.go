package media

import (
	"context"
	"testing"
)

func TestSQLiteSource(t *testing.T) {
	src, err := OpenSQLiteSource(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	want := []RawItem{
		{Title: String("a"), Alt: String("first"), Image: &ImageRef{Src: "a.png"}},
		{Image: &ImageRef{Src: "b.mp4", Kind: KindVideo, Poster: "b.jpg"}},
		{Title: String("no image")},
	}
	if err := src.Put(ctx, "books", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := src.Fetch(ctx, "books")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if *got[0].Title != "a" || *got[0].Alt != "first" || got[0].Image.Src != "a.png" {
		t.Fatalf("unexpected first item: %+v", got[0])
	}
	if got[1].Title != nil || got[1].Image.Kind != KindVideo || got[1].Image.Poster != "b.jpg" {
		t.Fatalf("unexpected second item: %+v", got[1])
	}
	if got[2].Image != nil {
		t.Fatalf("third item should have no image: %+v", got[2].Image)
	}

	if err := src.Put(ctx, "books", want[:1]); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err = src.Fetch(ctx, "books")
	if err != nil || len(got) != 1 {
		t.Fatalf("after replace got %d items, %v", len(got), err)
	}

	got, err = src.Fetch(ctx, "nothing")
	if err != nil || got != nil {
		t.Fatalf("unknown key should be no data, got %v, %v", got, err)
	}
}

func TestOpenSQLiteSourceRequiresPath(t *testing.T) {
	if _, err := OpenSQLiteSource("  "); err == nil {
		t.Fatal("expected error for blank path")
	}
}

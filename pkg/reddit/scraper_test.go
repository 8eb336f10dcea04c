package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/h2non/gock"
)

const threadDocument = `[
	{"kind": "Listing", "data": {"children": [{"kind": "t3", "data": {"title": "T", "selftext": "S"}}]}},
	{"kind": "Listing", "data": {"children": [{"kind": "t1", "data": {"author": "a", "body": "b", "score": 5, "created_utc": 100, "replies": {}}}]}}
]`

func TestScraper_Scrape(t *testing.T) {
	defer gock.Off()

	gock.New(publicHost).
		Get("/comments/abc123.json").
		Reply(http.StatusOK).
		BodyString(threadDocument)

	s := New(Config{Timeout: 5 * time.Second})
	got, err := s.Scrape(context.Background(), "https://www.reddit.com/r/golang/comments/abc123/some_title/")
	if err != nil {
		t.Fatalf("unexpected error scraping thread: %v", err)
	}

	want := &ThreadResult{
		Title:    "T",
		Body:     "S",
		Comments: []CommentRecord{{Author: "a", Body: "b", Score: 5, CreatedUTC: ts(100)}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("want thread\n%+v\n\ngot thread\n%+v\n", want, got)
	}
}

func TestScraper_ScrapeCredentialed(t *testing.T) {
	defer gock.Off()

	mockTokenExchange("secret-token", 3600)
	gock.New(apiHost).
		Get("/r/golang/comments/abc123").
		MatchHeader("Authorization", "^bearer secret-token$").
		Reply(http.StatusOK).
		BodyString(threadDocument)

	s := New(Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Timeout:      5 * time.Second,
	})
	if !s.Credentialed() {
		t.Fatal("want credentialed scraper")
	}

	got, err := s.Scrape(context.Background(), "https://www.reddit.com/r/golang/comments/abc123/some_title/")
	if err != nil {
		t.Fatalf("unexpected error scraping thread: %v", err)
	}
	if got.Title != "T" || len(got.Comments) != 1 {
		t.Errorf("want thread %q with 1 comment, got %+v", "T", got)
	}
}

func TestScraper_ScrapeForbidden(t *testing.T) {
	defer gock.Off()

	gock.New(publicHost).
		Get("/comments/abc123.json").
		Reply(http.StatusForbidden).
		BodyString(threadDocument)

	s := New(Config{Timeout: 5 * time.Second})
	got, err := s.Scrape(context.Background(), "https://redd.it/abc123")
	if got != nil {
		t.Errorf("want no thread, got %+v", got)
	}

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("want *UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusForbidden {
		t.Errorf("want status code %d, got %d", http.StatusForbidden, upErr.StatusCode)
	}
}

func TestScraper_ScrapeMissingInput(t *testing.T) {
	s := New(Config{})
	_, err := s.Scrape(context.Background(), "")
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("want error %v, got %v", ErrMissingInput, err)
	}
}

func TestScraper_ScrapeForeignHost(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(threadDocument))
	}))
	defer srv.Close()

	s := New(Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Timeout:      5 * time.Second,
	})

	got, err := s.Scrape(context.Background(), srv.URL+"/steal")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("want error %v, got %v", ErrInvalidURL, err)
	}
	if got != nil {
		t.Errorf("want no result, got %+v", got)
	}
	if hits != 0 {
		t.Errorf("want foreign host not contacted, got %d requests", hits)
	}
}

package logkeeper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"scraper/pkg/logger"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

type indexedDoc struct {
	path string
	body []byte
}

func newTestElastic(t *testing.T, status int) (*elasticsearch.Client, <-chan indexedDoc) {
	docs := make(chan indexedDoc, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		docs <- indexedDoc{path: r.URL.Path, body: b}

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, `{"_index":"logs","result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("failed to create elasticsearch client: %v", err)
	}

	return es, docs
}

func testEntry(t *testing.T) []byte {
	entry := logger.Entry{
		Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		IP:         "127.0.0.1",
		StatusCode: http.StatusOK,
		RequestID:  "9b4f6c5d-1a32-4d8f-b5a6-23c9e1f7d2a1",
		Method:     http.MethodPost,
		Path:       "/api/scrape",
		Duration:   0.25,
		Service:    "scraper",
	}
	b, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("failed to marshal entry: %v", err)
	}
	return b
}

func TestIndexer_Index(t *testing.T) {
	es, docs := newTestElastic(t, http.StatusCreated)
	ix := NewIndexer(es, "logs")

	value := testEntry(t)
	entry, err := ix.Index(context.Background(), value)
	if err != nil {
		t.Fatalf("unexpected error indexing entry: %v", err)
	}
	if entry.Path != "/api/scrape" {
		t.Errorf("want path %q, got %q", "/api/scrape", entry.Path)
	}

	doc := <-docs
	wantPath := "/logs/_doc/scraper9b4f6c5d-1a32-4d8f-b5a6-23c9e1f7d2a1"
	if doc.path != wantPath {
		t.Errorf("want request path %q, got %q", wantPath, doc.path)
	}
	if string(doc.body) != string(value) {
		t.Errorf("want body %s, got %s", value, doc.body)
	}
}

func TestIndexer_IndexErrors(t *testing.T) {
	es, _ := newTestElastic(t, http.StatusBadRequest)
	ix := NewIndexer(es, "logs")

	if _, err := ix.Index(context.Background(), []byte("not json")); err == nil {
		t.Error("want error for malformed entry")
	}
	if _, err := ix.Index(context.Background(), testEntry(t)); err == nil {
		t.Error("want error for rejected document")
	}
}

func TestWorker(t *testing.T) {
	es, docs := newTestElastic(t, http.StatusCreated)
	ix := NewIndexer(es, "logs")

	jobs := make(chan kafka.Message, 2)
	jobs <- kafka.Message{Value: []byte("garbage")}
	jobs <- kafka.Message{Value: testEntry(t)}
	close(jobs)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		Worker(context.Background(), ix, jobs, 0)
	}()
	wg.Wait()

	if len(docs) != 1 {
		t.Errorf("want 1 indexed document, got %d", len(docs))
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("abc"); got != "abc" {
		t.Errorf("want %q, got %q", "abc", got)
	}
	if got := shorten("9b4f6c5d-1a32"); got != "9b4f6c..." {
		t.Errorf("want %q, got %q", "9b4f6c...", got)
	}
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"scraper/pkg/counter"
	"scraper/pkg/reddit"
)

// Scraper fetches a thread and flattens its comments.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*reddit.ThreadResult, error)
}

// Info describes the running service.
type Info struct {
	ServiceName string
	Version     string
	Env         string
	StaticDir   string
}

type API struct {
	Info Info

	r       *mux.Router
	scraper Scraper
	visits  counter.Counter
	kw      *kafka.Writer
}

func New(info Info, scraper Scraper, visits counter.Counter, kafkaWriter *kafka.Writer) *API {
	api := API{
		Info:    info,
		r:       mux.NewRouter(),
		scraper: scraper,
		visits:  visits,
		kw:      kafkaWriter,
	}
	api.endpoints()

	return &api
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/api/scrape", api.scrapeHandler).Methods(http.MethodPost, http.MethodGet)
	api.r.HandleFunc("/api/visitors", api.visitorsHandler).Methods(http.MethodGet)
	api.r.HandleFunc("/health", api.healthHandler).Methods(http.MethodGet)
	api.r.HandleFunc("/", api.rootHandler).Methods(http.MethodGet)

	if api.Info.StaticDir != "" {
		api.r.PathPrefix("/").Handler(staticHandler(api.Info.StaticDir)).Methods(http.MethodGet)
	}
}

func (api *API) scrapeHandler(w http.ResponseWriter, r *http.Request) {
	reqID := GetRequestID(r.Context())
	sID := shorten(reqID)

	var req ScrapeRequest
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Bad Request: invalid JSON body")
			log.Debugf("[scrapeHandler][%s] failed to decode request body: %v", sID, err)
			return
		}
		defer r.Body.Close()
	default:
		req.URL = r.URL.Query().Get("url")
	}

	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, reddit.ErrMissingInput.Error())
		log.Debugf("[scrapeHandler][%s] request without url", sID)
		return
	}

	thread, err := api.scraper.Scrape(r.Context(), req.URL)
	if err != nil {
		status, msg := errorResponse(err)
		writeError(w, status, msg)
		if status >= http.StatusInternalServerError {
			log.Errorf("[scrapeHandler][%s] failed to scrape %q: %v", sID, req.URL, err)
		} else {
			log.Infof("[scrapeHandler][%s] failed to scrape %q: %v", sID, req.URL, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, thread)
	log.Debugf("[scrapeHandler][%s] %d comments sent to: %v", sID, len(thread.Comments), r.RemoteAddr)
}

func (api *API) visitorsHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	count, err := api.visits.Read(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		log.Errorf("[visitorsHandler][%s] failed to read visitor count: %v", sID, err)
		return
	}

	writeJSON(w, http.StatusOK, counter.Visitors{Count: count})
}

// rootHandler counts a page view, then serves the front page or, without
// static files, the current count.
func (api *API) rootHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	count, err := api.visits.Increment(r.Context())
	if err != nil {
		log.Errorf("[rootHandler][%s] failed to increment visitor count: %v", sID, err)
	}

	if api.Info.StaticDir != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		http.ServeFile(w, r, filepath.Join(api.Info.StaticDir, "index.html"))
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, counter.Visitors{Count: count})
}

func (api *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: api.Info.Version,
		Env:     api.Info.Env,
	})
}

func staticHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// let the file server pick the type
		w.Header().Del("Content-Type")
		fs.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("[writeJSON] failed to encode response data: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, StatusCode: status})
}

// GetRequestID extracts the request ID from the context.
// It returns the request ID as a string if present, otherwise returns an empty string.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey).(string); ok {
		return v
	}
	return ""
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}

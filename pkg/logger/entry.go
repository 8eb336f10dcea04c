package logger

import "time"

// Entry is one access log record, published to Kafka by the API and indexed
// by the log keeper.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Bytes      int64     `json:"bytes"`
	Duration   float64   `json:"duration_sec"`
	Service    string    `json:"service"`
}

// DocumentID identifies the entry in the log index.
func (e Entry) DocumentID() string {
	return e.Service + e.RequestID
}

// Package counter defines the visitor counter used by the root page.
package counter

import (
	"context"
	"fmt"
)

var (
	ErrConnectDB       = fmt.Errorf("unable to establish DB connection")
	ErrDBNotResponding = fmt.Errorf("DB not responding")
)

// Counter is a durable visitor counter. Increment returns the value after
// the increment.
type Counter interface {
	Increment(ctx context.Context) (int64, error)
	Read(ctx context.Context) (int64, error)
}

// Visitors is the JSON shape shared by the file backend and the HTTP API.
type Visitors struct {
	Count int64 `json:"visitorCount"`
}

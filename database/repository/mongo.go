package repository

import (
	"context"
	"time"
)

// dbName is the Mongo database holding all fitbook collections.
const dbName = "fitbook"

// newContext creates a context with the given timeout for one store call.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

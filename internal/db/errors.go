package db

import "errors"

// Sentinel errors for backend operations.
var (
	ErrKeyNotFound     = errors.New("db: key not found")
	ErrMalformedReply  = errors.New("db: malformed response")
	ErrNoIndices       = errors.New("db: no indices")
	ErrBackendRejected = errors.New("db: request rejected by backend")
)

// Op constants name backend operations for error context.
const (
	OpSearch      = "search"
	OpCount       = "count"
	OpCardinality = "cardinality"
	OpPutSettings = "indices.put_settings"
	OpPing        = "ping"
	OpGet         = "GET"
	OpSet         = "SET"
	OpDel         = "DEL"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

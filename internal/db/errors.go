package db

import "errors"

var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
	ErrIndexExists   = errors.New("db: index already exists")
	// ErrInvalidQuery signals a filter or sort that cannot be expressed against the index schema.
	ErrInvalidQuery = errors.New("db: invalid query")
)

// Command names recorded in Error.Op.
const (
	OpCreateIndex = "FT.CREATE"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpDel         = "DEL"
	OpJSONSet     = "JSON.SET"
	OpJSONGet     = "JSON.GET"
	OpJSONMGet    = "JSON.MGET"
	OpJSONDel     = "JSON.DEL"
)

// Error records which store command failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "db " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// errEmptyDocument reports a "$" lookup that matched nothing.
var errEmptyDocument = errors.New("empty document")

// Unwrap returns the JSON object of a "$" payload. JSON.GET with a JSONPath
// answers with a one-element array while search replies carry the bare object.
func Unwrap(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errEmptyDocument
	}
	if raw[0] != '[' {
		return raw, nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("unmarshal document array: %w", err)
	}
	if len(arr) == 0 {
		return nil, errEmptyDocument
	}
	return arr[0], nil
}

// Decode unwraps a "$" payload into v.
func Decode(raw []byte, v any) error {
	obj, err := Unwrap(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(obj, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// Millis is the sortable form of a creation time.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// GeoValue renders a point the way a GEO attribute indexes it.
func GeoValue(lng, lat float64) string {
	return strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}

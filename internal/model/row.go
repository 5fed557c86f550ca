package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is a single record as delivered by the upstream admin API.
// It keeps the field order of the JSON object it was decoded from, so that
// column inference can follow the order the backend chose.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a Row from alternating key/value pairs.
// It is mostly useful in tests and fixtures:
//
//	row := model.NewRow("client_id", 1, "client_name", "Acme")
func NewRow(kv ...any) Row {
	r := Row{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Set assigns a field, appending the key if it is new.
func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the raw value of a field and whether the key is present.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether the field exists and is not null.
func (r Row) Has(key string) bool {
	v, ok := r.values[key]
	return ok && v != nil
}

// String returns the stringified value of a field, or "" when absent.
func (r Row) String(key string) string {
	return Stringify(r.values[key])
}

// Keys returns the field names in their original order.
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.keys)
}

// IsZero reports whether the row carries no object at all.
func (r Row) IsZero() bool {
	return r.values == nil
}

// Values returns the field values in key order.
func (r Row) Values() []any {
	out := make([]any, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// MarshalJSON writes the row as a JSON object preserving key order.
func (r Row) MarshalJSON() ([]byte, error) {
	if r.values == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the row, keeping key order.
// Anything other than an object is rejected with ErrNotObject.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	*r = Row{values: make(map[string]any)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		r.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

// ErrNotObject is returned when a JSON value that should be a record is not an object.
var ErrNotObject = errors.New("record is not a JSON object")

// DecodeRows decodes a JSON array into rows. Entries that are not objects are
// skipped without error. A null or missing payload yields an empty slice.
func DecodeRows(data json.RawMessage) ([]Row, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Row{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("payload is not an array: %w", err)
	}

	rows := make([]Row, 0, len(raw))
	for _, entry := range raw {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		var row Row
		if err := json.Unmarshal(entry, &row); err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rows drops zero-value rows from a slice, returning a new slice.
func Rows(in []Row) []Row {
	out := make([]Row, 0, len(in))
	for _, r := range in {
		if r.IsZero() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Stringify renders a decoded JSON value the way identifiers are compared.
// Numbers lose insignificant trailing zeros, nil becomes the empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		s := val.String()
		if !strings.ContainsAny(s, ".eE") {
			return s
		}
		f, err := val.Float64()
		if err != nil {
			return s
		}
		return formatFloat(f)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToFloat converts a decoded value to a float64. Strings are parsed, booleans
// and objects are rejected.
func ToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, !math.IsNaN(val)
	case float32:
		return float64(val), !math.IsNaN(float64(val))
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

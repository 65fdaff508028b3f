package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// ENGINE TYPES: Query results and ordered aggregates
// ============================================================================
// Result is the only thing the engine hands back. Renderers branch on Kind.
// Wire shape (shared with the server endpoint):
//
//	{"type": "text",  "result": "Admin User owns the most books with 3 books."}
//	{"type": "table", "result": [{"Genre": "Fiction", "Count": 2}, ...]}
//
// Dependency: engine imports catalog and zap only.
// ============================================================================

// Kind discriminates a Result.
type Kind string

const (
	KindText  Kind = "text"
	KindTable Kind = "table"
)

// ============================================================================
// RESULT
// ============================================================================

// Result is a tagged union: prose when Kind is KindText, a grid when KindTable.
// Every row of a table carries the same keys in the same order.
type Result struct {
	Kind Kind
	Text string
	Rows []Row
}

// NewText builds a prose result.
func NewText(msg string) Result {
	return Result{Kind: KindText, Text: msg}
}

// NewTable builds a tabular result. A nil slice becomes an empty table.
func NewTable(rows []Row) Result {
	if rows == nil {
		rows = []Row{}
	}
	return Result{Kind: KindTable, Rows: rows}
}

// IsText reports whether r is prose.
func (r Result) IsText() bool { return r.Kind == KindText }

// IsTable reports whether r is a grid.
func (r Result) IsTable() bool { return r.Kind == KindTable }

// Columns returns the column keys of a table, taken from its first row.
func (r Result) Columns() []string {
	if r.Kind != KindTable || len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[0].Keys()
}

type wireResult struct {
	Type   Kind            `json:"type"`
	Result json.RawMessage `json:"result"`
}

// MarshalJSON writes the {type, result} wire shape.
func (r Result) MarshalJSON() ([]byte, error) {
	var payload any
	switch r.Kind {
	case KindText:
		payload = r.Text
	case KindTable:
		rows := r.Rows
		if rows == nil {
			rows = []Row{}
		}
		payload = rows
	default:
		return nil, fmt.Errorf("marshal result: unknown kind %q", r.Kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return json.Marshal(wireResult{Type: r.Kind, Result: raw})
}

// UnmarshalJSON reads the {type, result} wire shape.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}

	switch w.Type {
	case KindText:
		var s string
		if err := json.Unmarshal(w.Result, &s); err != nil {
			return fmt.Errorf("unmarshal text result: %w", err)
		}
		*r = NewText(s)
	case KindTable:
		var rows []Row
		if len(w.Result) > 0 && !bytes.Equal(w.Result, []byte("null")) {
			if err := json.Unmarshal(w.Result, &rows); err != nil {
				return fmt.Errorf("unmarshal table result: %w", err)
			}
		}
		*r = NewTable(rows)
	default:
		return fmt.Errorf("unmarshal result: unknown type %q", w.Type)
	}
	return nil
}

// ============================================================================
// ROW: Ordered string → (string | number) mapping
// ============================================================================

// Field is one cell of a row. Value is a string, int, or float64.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of cells. JSON objects keep their key order.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the column keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON writes the row as a JSON object in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal cell %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order.
// Integral numbers decode as int, other numbers as float64.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("unmarshal row: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("unmarshal row: expected object, got %v", tok)
	}

	row := Row{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("unmarshal row: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unmarshal row: non-string key %v", keyTok)
		}

		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("unmarshal row cell %q: %w", key, err)
		}
		row = append(row, Field{Key: key, Value: normalizeCell(v)})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("unmarshal row: %w", err)
	}
	*r = row
	return nil
}

func normalizeCell(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// ============================================================================
// AGGREGATES: Ordered by first appearance in the input
// ============================================================================

// Count is one group of a tally.
type Count struct {
	Key string
	N   int
}

// Counts is a tally in first-seen key order.
type Counts []Count

// Get returns the count for key, or 0.
func (c Counts) Get(key string) int {
	for _, e := range c {
		if e.Key == key {
			return e.N
		}
	}
	return 0
}

// Total sums every group.
func (c Counts) Total() int {
	total := 0
	for _, e := range c {
		total += e.N
	}
	return total
}

// Top returns the largest group. Ties go to the group seen first.
func (c Counts) Top() (Count, bool) {
	if len(c) == 0 {
		return Count{}, false
	}
	top := c[0]
	for _, e := range c[1:] {
		if e.N > top.N {
			top = e
		}
	}
	return top, true
}

// Average is the mean of a measure within one group.
type Average struct {
	Key   string
	Mean  float64
	Count int
}

// Averages is a set of group means in first-seen key order.
type Averages []Average

// Get returns the mean for key.
func (a Averages) Get(key string) (float64, bool) {
	for _, e := range a {
		if e.Key == key {
			return e.Mean, true
		}
	}
	return 0, false
}

// Recommendation is a book suggested from another user's shelf.
type Recommendation struct {
	Title  string        `json:"title"`
	Author string        `json:"author"`
	Genre  catalog.Genre `json:"genre"`
	Reason string        `json:"reason"`
}

package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"dbkit/core/utils"
)

// DefaultPrimaryKey is the primary-key column stripped from payloads unless it
// takes part in the pivot or column mapping.
const DefaultPrimaryKey = "id"

// MissingColumnLabel is the report key used when the base table lacks a column.
const MissingColumnLabel = "Column does not exist"

// Row is a single table row keyed by column name.
// Rows handed out by the store are never modified; payloads are built on copies.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Pair links a base-table column to a merge-table column.
type Pair struct {
	// Base is the column name in the base (destination) table.
	Base string `json:"base"`
	// Merge is the column name in the merge (source) table.
	Merge string `json:"merge"`
}

// ParsePair parses "base:merge" or a bare "name" (same name on both sides).
func ParsePair(s string) Pair {
	s = strings.TrimSpace(s)
	if base, merge, ok := strings.Cut(s, ":"); ok {
		return Pair{Base: strings.TrimSpace(base), Merge: strings.TrimSpace(merge)}
	}
	return Pair{Base: s, Merge: s}
}

// ParsePairs parses a list of pair expressions, skipping empty entries.
func ParsePairs(values []string) []Pair {
	pairs := make([]Pair, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		pairs = append(pairs, ParsePair(v))
	}
	return pairs
}

// Change records one differing value between a matched base row and its merge row.
type Change struct {
	// Old is the base-table value. Unset when Missing is true.
	Old any
	// New is the merge-table value.
	New any
	// Missing is true when the base table has no such column.
	Missing bool
}

// Key returns the label the change is reported under.
func (c Change) Key() string {
	if c.Missing {
		return MissingColumnLabel
	}
	return utils.ToString(c.Old)
}

// MarshalJSON renders the change as a single-entry object {"old": new}.
func (c Change) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(c.Key())
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(c.New)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(val)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the {"old": new} form written by MarshalJSON.
func (c *Change) UnmarshalJSON(data []byte) error {
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	if len(entry) != 1 {
		return fmt.Errorf("change must hold exactly one entry, got %d", len(entry))
	}
	for key, val := range entry {
		*c = Change{New: val}
		if key == MissingColumnLabel {
			c.Missing = true
		} else {
			c.Old = key
		}
	}
	return nil
}

// DiffReport maps a base column name to the changes found for it, one entry
// per matched row whose value differs.
type DiffReport map[string][]Change

// Columns returns the reported column names in sorted order.
func (d DiffReport) Columns() []string {
	cols := make([]string, 0, len(d))
	for col := range d {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Basic condenses the report to the number of changes per column.
func (d DiffReport) Basic() BasicReport {
	basic := make(BasicReport, len(d))
	for col, changes := range d {
		basic[col] = len(changes)
	}
	return basic
}

// BasicReport maps a base column name to its number of changes.
type BasicReport map[string]int

// MergeOutcome holds the counters produced by a merge.
type MergeOutcome struct {
	// RowsUpdated is the number of base rows changed by the matched pass.
	RowsUpdated int64 `json:"rows_updated"`
	// RowsInserted is the number of merge rows inserted by the unmatched pass.
	RowsInserted int64 `json:"rows_inserted"`
	// ColumnsAdded lists base-table columns created before writing.
	ColumnsAdded []string `json:"columns_added"`
}

// MergePlan describes what a merge would do without touching the store.
type MergePlan struct {
	// MissingColumns are the base columns that would be created.
	MissingColumns []string `json:"missing_columns"`
	// RowsToUpdate counts matched base rows with at least one change.
	RowsToUpdate int `json:"rows_to_update"`
	// RowsToInsert counts unmatched merge rows.
	RowsToInsert int `json:"rows_to_insert"`
	// Summary is the per-column change count.
	Summary BasicReport `json:"summary"`
}

// Snapshot is the immutable outcome of a Run, suitable for caching and export.
type Snapshot struct {
	BaseTable  string      `json:"base_table"`
	MergeTable string      `json:"merge_table"`
	Pivots     []Pair      `json:"pivots"`
	Columns    []Pair      `json:"columns,omitempty"`
	Report     DiffReport  `json:"report"`
	Summary    BasicReport `json:"summary"`
	Matched    []Row       `json:"matched"`
	Unmatched  []Row       `json:"unmatched"`
	Built      time.Time   `json:"built"`
}

// Spec bundles everything needed to configure a Reconciler.
type Spec struct {
	// BaseTable is the destination table.
	BaseTable string `json:"base"`
	// MergeTable is the source table.
	MergeTable string `json:"merge"`
	// Pivots correlate rows between the tables. At least one is required.
	Pivots []Pair `json:"pivots"`
	// Columns optionally restricts and renames the compared/written columns.
	Columns []Pair `json:"columns"`
	// PrimaryKey is the base primary-key column; empty means DefaultPrimaryKey.
	PrimaryKey string `json:"primary_key"`
}

// CacheKey returns a key unique to the spec's tables and mappings.
func (s *Spec) CacheKey() string {
	var b strings.Builder
	b.WriteString(s.BaseTable)
	b.WriteString("|")
	b.WriteString(s.MergeTable)
	b.WriteString("|")
	b.WriteString(s.PrimaryKey)
	for _, p := range s.Pivots {
		b.WriteString("|p:" + p.Base + "=" + p.Merge)
	}
	for _, c := range s.Columns {
		b.WriteString("|c:" + c.Base + "=" + c.Merge)
	}
	return b.String()
}

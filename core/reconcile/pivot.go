package reconcile

import "dbkit/core/utils"

// PivotMapper decides whether a base row and a merge row describe the same entity.
type PivotMapper struct {
	pairs []Pair
}

// NewPivotMapper creates a mapper over the given ordered pairs.
func NewPivotMapper(pairs ...Pair) *PivotMapper {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return &PivotMapper{pairs: cp}
}

// Pairs returns a copy of the configured pairs.
func (p *PivotMapper) Pairs() []Pair {
	cp := make([]Pair, len(p.pairs))
	copy(cp, p.pairs)
	return cp
}

// Matches is true iff every pair holds loosely equal values on both rows.
// A column absent from either row never matches.
func (p *PivotMapper) Matches(base, merge Row) bool {
	if len(p.pairs) == 0 {
		return false
	}
	for _, pair := range p.pairs {
		bv, ok := base[pair.Base]
		if !ok {
			return false
		}
		mv, ok := merge[pair.Merge]
		if !ok {
			return false
		}
		if !utils.LooseEqual(bv, mv) {
			return false
		}
	}
	return true
}

// Filters builds the update filters that select mergeRow's counterpart in the base table.
func (p *PivotMapper) Filters(mergeRow Row) []Filter {
	filters := make([]Filter, 0, len(p.pairs))
	for _, pair := range p.pairs {
		filters = append(filters, Filter{Column: pair.Base, Value: mergeRow[pair.Merge]})
	}
	return filters
}

// involves reports whether column appears on either side of any pair.
func involves(pairs []Pair, column string) bool {
	for _, pair := range pairs {
		if pair.Base == column || pair.Merge == column {
			return true
		}
	}
	return false
}

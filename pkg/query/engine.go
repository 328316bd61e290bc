package query

import (
	"sort"
	"strings"
	"time"
)

// ============================================================================
// Filter-Sort-Aggregate engine
// ============================================================================
//
// One engine instance per entity kind, parameterized by field accessors.
// Every management listing (jobs, equipment, members, tenants, PBMs, billing)
// runs through Run instead of reimplementing the same filter chain.

// Descriptor adapts an entity type to the engine. SearchText, Status,
// Timestamp and Province are required; Amount is optional and enables the
// monetary sort keys and per-status sums.
type Descriptor[T any] struct {
	// SearchText returns the fields the free-text query is matched against.
	SearchText func(T) []string

	// Status returns the categorical field value. Entities carrying a
	// boolean active flag map it to "ACTIVE"/"INACTIVE" here.
	Status func(T) string

	// Timestamp returns the designated recency field. ok=false marks an
	// unknown date: such entities are excluded from every bounded period
	// window and included only under PeriodAll.
	Timestamp func(T) (time.Time, bool)

	// Province resolves the entity's region, directly or via its tenant.
	Province func(T) string

	// Amount returns the monetary value in whole rupiah, or nil if the
	// entity has none.
	Amount func(T) int64
}

// Stats are derived from the filtered set, never the input collection.
type Stats struct {
	Total          int              `json:"total"`
	CountByStatus  map[string]int   `json:"count_by_status"`
	AmountByStatus map[string]int64 `json:"amount_by_status,omitempty"`
	TotalAmount    int64            `json:"total_amount,omitempty"`
}

// Result is the filtered, sorted collection plus its statistics.
type Result[T any] struct {
	Items []T   `json:"items"`
	Stats Stats `json:"stats"`
}

// Engine evaluates criteria against collections of T. It is stateless and
// safe for concurrent use.
type Engine[T any] struct {
	desc Descriptor[T]
	now  func() time.Time
}

// NewEngine builds an engine for one entity kind.
func NewEngine[T any](desc Descriptor[T]) *Engine[T] {
	return &Engine[T]{
		desc: desc,
		now:  time.Now,
	}
}

// WithClock overrides the time source. Used by tests to pin "now".
func (e *Engine[T]) WithClock(now func() time.Time) *Engine[T] {
	e.now = now
	return e
}

// Run filters items by the logical AND of the criteria's predicates, sorts
// the survivors with a stable comparator, and aggregates statistics over the
// filtered set. The input slice is never mutated.
func (e *Engine[T]) Run(items []T, c Criteria) Result[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if e.matches(item, c) {
			filtered = append(filtered, item)
		}
	}

	e.sortItems(filtered, c.SortBy)

	return Result[T]{
		Items: filtered,
		Stats: e.aggregate(filtered),
	}
}

// Matches reports whether a single entity passes the criteria. Exposed for
// callers that stream rather than collect.
func (e *Engine[T]) Matches(item T, c Criteria) bool {
	return e.matches(item, c)
}

func (e *Engine[T]) matches(item T, c Criteria) bool {
	return e.matchesQuery(item, c.Query) &&
		e.matchesStatus(item, c.Status) &&
		e.matchesPeriod(item, c.Period) &&
		e.matchesRegion(item, c.Region)
}

// matchesQuery: empty or whitespace-only query matches everything; otherwise
// case-insensitive substring containment against any search field.
func (e *Engine[T]) matchesQuery(item T, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, field := range e.desc.SearchText(item) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// matchesStatus: exact, case-sensitive comparison against the enum value.
func (e *Engine[T]) matchesStatus(item T, status string) bool {
	if status == StatusAll {
		return true
	}
	return e.desc.Status(item) == status
}

// matchesPeriod: entities with an unknown timestamp only appear under
// PeriodAll. This is a deliberate departure from the legacy behavior of
// defaulting unknown dates to 2024-01-01, which silently leaked them into
// wide windows.
func (e *Engine[T]) matchesPeriod(item T, p Period) bool {
	if p == PeriodAll {
		return true
	}
	ts, ok := e.desc.Timestamp(item)
	if !ok {
		return false
	}
	days := periodDays[p]
	cutoff := e.now().Add(-time.Duration(days) * 24 * time.Hour)
	return !ts.Before(cutoff)
}

// matchesRegion: the bucket's mapped province name must equal the entity's
// province exactly.
func (e *Engine[T]) matchesRegion(item T, r Region) bool {
	name, ok := r.ProvinceName()
	if !ok {
		return true
	}
	return e.desc.Province(item) == name
}

func (e *Engine[T]) sortItems(items []T, s Sort) {
	timeKey := func(item T) int64 {
		ts, ok := e.desc.Timestamp(item)
		if !ok {
			return 0
		}
		return ts.UnixNano()
	}

	switch s {
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return timeKey(items[i]) < timeKey(items[j])
		})
	case SortAmountHigh:
		if e.desc.Amount == nil {
			return
		}
		sort.SliceStable(items, func(i, j int) bool {
			return e.desc.Amount(items[i]) > e.desc.Amount(items[j])
		})
	case SortAmountLow:
		if e.desc.Amount == nil {
			return
		}
		sort.SliceStable(items, func(i, j int) bool {
			return e.desc.Amount(items[i]) < e.desc.Amount(items[j])
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			return timeKey(items[i]) > timeKey(items[j])
		})
	}
}

// aggregate partitions the filtered set by status. Every item lands in
// exactly one bucket, so the bucket counts always sum to Total.
func (e *Engine[T]) aggregate(items []T) Stats {
	stats := Stats{
		Total:         len(items),
		CountByStatus: make(map[string]int),
	}
	if e.desc.Amount != nil {
		stats.AmountByStatus = make(map[string]int64)
	}

	for _, item := range items {
		status := e.desc.Status(item)
		stats.CountByStatus[status]++
		if e.desc.Amount != nil {
			amount := e.desc.Amount(item)
			stats.AmountByStatus[status] += amount
			stats.TotalAmount += amount
		}
	}
	return stats
}

package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Code      string
	PBMName   string
	Status    string
	Province  string
	Amount    int64
	UpdatedAt time.Time
	HasDate   bool
}

var testNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine[testRecord] {
	return NewEngine(Descriptor[testRecord]{
		SearchText: func(r testRecord) []string { return []string{r.Code, r.PBMName} },
		Status:     func(r testRecord) string { return r.Status },
		Timestamp:  func(r testRecord) (time.Time, bool) { return r.UpdatedAt, r.HasDate },
		Province:   func(r testRecord) string { return r.Province },
		Amount:     func(r testRecord) int64 { return r.Amount },
	}).WithClock(func() time.Time { return testNow })
}

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func billingFixture() []testRecord {
	return []testRecord{
		{Code: "INV-JKT-2024-001", PBMName: "PT Pelindo Jaya", Status: "PAID", Province: "DKI Jakarta", Amount: 25_000_000, UpdatedAt: daysAgo(2), HasDate: true},
		{Code: "INV-SBY-2024-001", PBMName: "PT Samudera Lines", Status: "OVERDUE", Province: "Jawa Timur", Amount: 32_000_000, UpdatedAt: daysAgo(40), HasDate: true},
		{Code: "INV-MDN-2024-001", PBMName: "PT Belawan Port", Status: "DRAFT", Province: "Sumatera Utara", Amount: 22_000_000, UpdatedAt: daysAgo(5), HasDate: true},
	}
}

func TestRunNeutralCriteriaPreservesCollection(t *testing.T) {
	engine := newTestEngine()
	records := billingFixture()

	res := engine.Run(records, NewCriteria())

	require.Len(t, res.Items, len(records))
	// SortLatest reorders, so compare as a multiset.
	assert.ElementsMatch(t, records, res.Items)
}

func TestRunResultIsSubset(t *testing.T) {
	engine := newTestEngine()
	records := billingFixture()

	criteria := []Criteria{
		NewCriteria(),
		Parse("jkt", "", "", "", ""),
		Parse("", "PAID", "7D", "DKI_JAKARTA", "amount_high"),
		Parse("nothing-matches-this", "", "", "", ""),
	}

	for _, c := range criteria {
		res := engine.Run(records, c)
		for _, item := range res.Items {
			assert.Contains(t, records, item)
		}
	}
}

func TestBillingStatsScenario(t *testing.T) {
	engine := newTestEngine()

	res := engine.Run(billingFixture(), NewCriteria())

	require.Equal(t, 3, res.Stats.Total)
	assert.Equal(t, int64(25_000_000), res.Stats.AmountByStatus["PAID"])
	assert.Equal(t, int64(32_000_000), res.Stats.AmountByStatus["OVERDUE"])
	assert.Equal(t, int64(22_000_000), res.Stats.AmountByStatus["DRAFT"])
	assert.Equal(t, int64(79_000_000), res.Stats.TotalAmount)
}

func TestStatusFilterSelectsSinglePartition(t *testing.T) {
	engine := newTestEngine()

	c := NewCriteria()
	c.Status = "PAID"
	res := engine.Run(billingFixture(), c)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "INV-JKT-2024-001", res.Items[0].Code)
	assert.Equal(t, 1, res.Stats.Total)
}

func TestQueryMatchesCaseInsensitiveSubstring(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "PJ-JKT-001", Status: "PENDING", Province: "DKI Jakarta", UpdatedAt: daysAgo(1), HasDate: true},
		{Code: "PJ-SBY-001", Status: "PENDING", Province: "Jawa Timur", UpdatedAt: daysAgo(1), HasDate: true},
	}

	c := NewCriteria()
	c.Query = "jkt"
	res := engine.Run(records, c)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "PJ-JKT-001", res.Items[0].Code)
}

func TestWhitespaceQueryMatchesEverything(t *testing.T) {
	engine := newTestEngine()
	records := billingFixture()

	c := NewCriteria()
	c.Query = "   "
	res := engine.Run(records, c)

	assert.Len(t, res.Items, len(records))
}

func TestPeriodWindowExcludesOldEntries(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "OLD", Status: "PAID", Province: "DKI Jakarta", UpdatedAt: daysAgo(10), HasDate: true},
	}

	c := NewCriteria()
	c.Period = Period1D
	assert.Empty(t, engine.Run(records, c).Items)

	c.Period = PeriodAll
	assert.Len(t, engine.Run(records, c).Items, 1)
}

func TestPeriodMonotonicity(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "A", Status: "PAID", Province: "DKI Jakarta", UpdatedAt: daysAgo(0), HasDate: true},
		{Code: "B", Status: "PAID", Province: "DKI Jakarta", UpdatedAt: daysAgo(3), HasDate: true},
		{Code: "C", Status: "PAID", Province: "DKI Jakarta", UpdatedAt: daysAgo(20), HasDate: true},
		{Code: "D", Status: "PAID", Province: "DKI Jakarta", UpdatedAt: daysAgo(200), HasDate: true},
		{Code: "E", Status: "PAID", Province: "DKI Jakarta", HasDate: false},
	}

	widths := []Period{Period1D, Period7D, Period30D, Period90D, Period1Y, PeriodAll}
	prev := -1
	for _, p := range widths {
		c := NewCriteria()
		c.Period = p
		count := len(engine.Run(records, c).Items)
		assert.GreaterOrEqual(t, count, prev, "widening to %s shrank the result", p)
		prev = count
	}
}

func TestUnknownTimestampOnlyUnderPeriodAll(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "NO-DATE", Status: "AVAILABLE", Province: "DKI Jakarta", HasDate: false},
	}

	for _, p := range []Period{Period1D, Period7D, Period30D, Period90D, Period1Y} {
		c := NewCriteria()
		c.Period = p
		assert.Empty(t, engine.Run(records, c).Items, "unknown date leaked into %s", p)
	}

	c := NewCriteria()
	res := engine.Run(records, c)
	assert.Len(t, res.Items, 1)
}

func TestRegionExclusivity(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "T1", Status: "ACTIVE", Province: "DKI Jakarta", UpdatedAt: daysAgo(1), HasDate: true},
		{Code: "T2", Status: "ACTIVE", Province: "Jawa Timur", UpdatedAt: daysAgo(1), HasDate: true},
	}

	c := NewCriteria()
	c.Region = RegionDKIJakarta
	res := engine.Run(records, c)

	require.Len(t, res.Items, 1)
	for _, item := range res.Items {
		assert.Equal(t, "DKI Jakarta", item.Province)
	}
}

func TestUnlistedProvinceOnlyMatchableByRegionAll(t *testing.T) {
	engine := newTestEngine()
	records := []testRecord{
		{Code: "T1", Status: "ACTIVE", Province: "Bali", UpdatedAt: daysAgo(1), HasDate: true},
	}

	for _, r := range Regions() {
		c := NewCriteria()
		c.Region = r
		assert.Empty(t, engine.Run(records, c).Items)
	}

	assert.Len(t, engine.Run(records, NewCriteria()).Items, 1)
}

func TestSortIsIdempotentAndStable(t *testing.T) {
	engine := newTestEngine()
	same := daysAgo(1)
	records := []testRecord{
		{Code: "A", Status: "PAID", Province: "DKI Jakarta", Amount: 10, UpdatedAt: same, HasDate: true},
		{Code: "B", Status: "PAID", Province: "DKI Jakarta", Amount: 10, UpdatedAt: same, HasDate: true},
		{Code: "C", Status: "PAID", Province: "DKI Jakarta", Amount: 5, UpdatedAt: daysAgo(2), HasDate: true},
	}

	for _, s := range []Sort{SortLatest, SortOldest, SortAmountHigh, SortAmountLow} {
		c := NewCriteria()
		c.SortBy = s

		once := engine.Run(records, c)
		twice := engine.Run(once.Items, c)
		assert.Equal(t, once.Items, twice.Items, "sort %s is not idempotent", s)
	}

	// Equal keys keep input order.
	c := NewCriteria()
	c.SortBy = SortAmountHigh
	res := engine.Run(records, c)
	assert.Equal(t, "A", res.Items[0].Code)
	assert.Equal(t, "B", res.Items[1].Code)
}

func TestSortByAmount(t *testing.T) {
	engine := newTestEngine()

	c := NewCriteria()
	c.SortBy = SortAmountHigh
	res := engine.Run(billingFixture(), c)

	require.Len(t, res.Items, 3)
	assert.Equal(t, int64(32_000_000), res.Items[0].Amount)
	assert.Equal(t, int64(22_000_000), res.Items[2].Amount)

	c.SortBy = SortAmountLow
	res = engine.Run(billingFixture(), c)
	assert.Equal(t, int64(22_000_000), res.Items[0].Amount)
}

func TestDefaultSortIsLatestFirst(t *testing.T) {
	engine := newTestEngine()

	res := engine.Run(billingFixture(), NewCriteria())

	require.Len(t, res.Items, 3)
	assert.Equal(t, "INV-JKT-2024-001", res.Items[0].Code)
	assert.Equal(t, "INV-SBY-2024-001", res.Items[2].Code)
}

func TestPartitionCompleteness(t *testing.T) {
	engine := newTestEngine()
	records := append(billingFixture(),
		testRecord{Code: "INV-X", Status: "PAID", Province: "DKI Jakarta", Amount: 1_000_000, UpdatedAt: daysAgo(3), HasDate: true},
	)

	res := engine.Run(records, NewCriteria())

	countSum := 0
	for _, n := range res.Stats.CountByStatus {
		countSum += n
	}
	assert.Equal(t, res.Stats.Total, countSum)
	assert.Equal(t, len(res.Items), res.Stats.Total)

	var amountSum int64
	for _, a := range res.Stats.AmountByStatus {
		amountSum += a
	}
	assert.Equal(t, res.Stats.TotalAmount, amountSum)
}

func TestStatsFollowTheFilteredSet(t *testing.T) {
	engine := newTestEngine()

	c := NewCriteria()
	c.Region = RegionDKIJakarta
	res := engine.Run(billingFixture(), c)

	require.Equal(t, 1, res.Stats.Total)
	assert.Equal(t, int64(25_000_000), res.Stats.TotalAmount)
	assert.NotContains(t, res.Stats.AmountByStatus, "OVERDUE")
}

func TestParseIsTotal(t *testing.T) {
	c := Parse("", "", "2W", "MARS", "weird")

	assert.Equal(t, StatusAll, c.Status)
	assert.Equal(t, PeriodAll, c.Period)
	assert.Equal(t, RegionAll, c.Region)
	assert.Equal(t, SortLatest, c.SortBy)
}

func TestWithoutRegionDisablesPredicate(t *testing.T) {
	c := Parse("", "", "", "DKI_JAKARTA", "")
	require.Equal(t, RegionDKIJakarta, c.Region)
	assert.Equal(t, RegionAll, c.WithoutRegion().Region)
}

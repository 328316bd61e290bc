package query

import "strings"

// ============================================================================
// Filter criteria
// ============================================================================

// StatusAll is the sentinel that disables categorical filtering.
const StatusAll = "ALL"

// Period is a recency bucket measured backwards from "now".
type Period string

const (
	PeriodAll Period = "ALL"
	Period1D  Period = "1D"
	Period7D  Period = "7D"
	Period30D Period = "30D"
	Period90D Period = "90D"
	Period1Y  Period = "1Y"
)

// periodDays maps each bounded bucket to its width in days.
var periodDays = map[Period]int{
	Period1D:  1,
	Period7D:  7,
	Period30D: 30,
	Period90D: 90,
	Period1Y:  365,
}

// ParsePeriod is total: anything unrecognized disables the period filter.
func ParsePeriod(s string) Period {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := periodDays[p]; ok {
		return p
	}
	return PeriodAll
}

// Region is one of the eight cooperative provinces, or ALL.
type Region string

const (
	RegionAll              Region = "ALL"
	RegionDKIJakarta       Region = "DKI_JAKARTA"
	RegionJawaTimur        Region = "JAWA_TIMUR"
	RegionSumateraUtara    Region = "SUMATERA_UTARA"
	RegionJawaTengah       Region = "JAWA_TENGAH"
	RegionKalimantanTimur  Region = "KALIMANTAN_TIMUR"
	RegionKalimantanBarat  Region = "KALIMANTAN_BARAT"
	RegionSulawesiSelatan  Region = "SULAWESI_SELATAN"
	RegionKepulauanRiau    Region = "KEPULAUAN_RIAU"
)

// provinceNames is the fixed bucket to human-readable province table. A
// province outside this table can only ever be matched by RegionAll.
var provinceNames = map[Region]string{
	RegionDKIJakarta:      "DKI Jakarta",
	RegionJawaTimur:       "Jawa Timur",
	RegionSumateraUtara:   "Sumatera Utara",
	RegionJawaTengah:      "Jawa Tengah",
	RegionKalimantanTimur: "Kalimantan Timur",
	RegionKalimantanBarat: "Kalimantan Barat",
	RegionSulawesiSelatan: "Sulawesi Selatan",
	RegionKepulauanRiau:   "Kepulauan Riau",
}

// ParseRegion is total: anything unrecognized disables the region filter.
func ParseRegion(s string) Region {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := provinceNames[r]; ok {
		return r
	}
	return RegionAll
}

// ProvinceName resolves the bucket to its province name. The second return
// is false for RegionAll.
func (r Region) ProvinceName() (string, bool) {
	name, ok := provinceNames[r]
	return name, ok
}

// KnownProvince reports whether a province name belongs to the fixed
// region table.
func KnownProvince(name string) bool {
	for _, province := range provinceNames {
		if province == name {
			return true
		}
	}
	return false
}

// Regions lists the eight specific buckets in display order.
func Regions() []Region {
	return []Region{
		RegionDKIJakarta,
		RegionJawaTimur,
		RegionSumateraUtara,
		RegionJawaTengah,
		RegionKalimantanTimur,
		RegionKalimantanBarat,
		RegionSulawesiSelatan,
		RegionKepulauanRiau,
	}
}

// Sort selects the comparator applied after filtering.
type Sort string

const (
	SortLatest     Sort = "latest"
	SortOldest     Sort = "oldest"
	SortAmountHigh Sort = "amount_high"
	SortAmountLow  Sort = "amount_low"
)

// ParseSort is total: anything unrecognized falls back to most-recent-first.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortAmountHigh:
		return SortAmountHigh
	case SortAmountLow:
		return SortAmountLow
	default:
		return SortLatest
	}
}

// Criteria is the transient, caller-owned filter state. The zero value is not
// neutral (Period/Region/SortBy would be empty strings); build it through
// Parse or NewCriteria.
type Criteria struct {
	Query  string `json:"query"`
	Status string `json:"status"`
	Period Period `json:"period"`
	Region Region `json:"region"`
	SortBy Sort   `json:"sort_by"`
}

// NewCriteria returns the neutral criteria: every predicate disabled,
// default sort.
func NewCriteria() Criteria {
	return Criteria{
		Status: StatusAll,
		Period: PeriodAll,
		Region: RegionAll,
		SortBy: SortLatest,
	}
}

// Parse builds Criteria from raw request values. Parsing is total; bad
// values degrade to the neutral bucket instead of failing the request.
func Parse(q, status, period, region, sortBy string) Criteria {
	status = strings.TrimSpace(status)
	if status == "" {
		status = StatusAll
	}
	return Criteria{
		Query:  q,
		Status: status,
		Period: ParsePeriod(period),
		Region: ParseRegion(region),
		SortBy: ParseSort(sortBy),
	}
}

// WithoutRegion returns a copy with the region predicate disabled. Services
// use this for tenant-scoped actors whose collection is already confined to
// one tenant.
func (c Criteria) WithoutRegion() Criteria {
	c.Region = RegionAll
	return c
}

package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// FilterKind names one stage of the order listing pipeline. The values are
// also the query keys the stages are selected by.
type FilterKind string

const (
	FilterTableNumber FilterKind = "table_number"
	FilterStatus      FilterKind = "status"
	FilterDate        FilterKind = "date"
	FilterToday       FilterKind = "today"
)

// OrderFilter holds the stages requested for an order listing. Nil or empty
// fields apply no filter for their dimension.
type OrderFilter struct {
	TableNumbers []int
	Statuses     []Status
	Date         *time.Time
	Today        bool
}

func (f OrderFilter) Empty() bool {
	return len(f.TableNumbers) == 0 && len(f.Statuses) == 0 && f.Date == nil && !f.Today
}

// Matches evaluates the filter against a single order. now and loc resolve
// the calendar day for the date and today stages.
func (f OrderFilter) Matches(o *Order, now time.Time, loc *time.Location) bool {
	if len(f.TableNumbers) > 0 && !containsInt(f.TableNumbers, o.TableNumber) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, o.Status) {
		return false
	}
	if f.Date != nil && !o.CreatedOn(*f.Date, loc) {
		return false
	}
	if f.Today && !o.CreatedOn(now, loc) {
		return false
	}
	return true
}

// FilterCacheKey builds the cache key of a single stage, e.g.
// "status:PAID-READY". Values are sorted and deduplicated so equal sets share
// an entry.
func FilterCacheKey(kind FilterKind, values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	out := sorted[:0]
	for _, v := range sorted {
		if len(out) > 0 && v == out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return string(kind) + ":" + strings.Join(out, "-")
}

// TableNumbersCacheKey orders table numbers numerically, so [10 2 1] gives
// "table_number:1-2-10".
func TableNumbersCacheKey(tables []int) string {
	sorted := append([]int(nil), tables...)
	sort.Ints(sorted)
	values := make([]string, 0, len(sorted))
	for i, t := range sorted {
		if i > 0 && t == sorted[i-1] {
			continue
		}
		values = append(values, strconv.Itoa(t))
	}
	return string(FilterTableNumber) + ":" + strings.Join(values, "-")
}

func StatusesCacheKey(statuses []Status) string {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return FilterCacheKey(FilterStatus, values)
}

// DayCacheKey keys the date and today stages by calendar day in loc, so a
// today entry is reused for the whole day.
func DayCacheKey(kind FilterKind, day time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return string(kind) + ":" + day.In(loc).Format(DateLayout)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsStatus(values []Status, v Status) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

package http

import (
	"net/url"
	"strconv"
	"time"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

// ParseOrderFilter reads the listing filters from the query string.
// table_number and status may repeat, date is YYYY-MM-DD in loc and today
// only needs to be present.
func ParseOrderFilter(query url.Values, loc *time.Location) (domain.OrderFilter, error) {
	var filter domain.OrderFilter
	verr := &domain.ValidationError{}

	for _, raw := range query[string(domain.FilterTableNumber)] {
		table, err := strconv.Atoi(raw)
		if err != nil {
			verr.Add(string(domain.FilterTableNumber), "table number must be an integer, got "+strconv.Quote(raw))
			continue
		}
		if table < 0 || table > domain.MaxTableNumber {
			verr.Add(string(domain.FilterTableNumber), "table number out of range, got "+strconv.Quote(raw))
			continue
		}
		filter.TableNumbers = append(filter.TableNumbers, table)
	}

	for _, raw := range query[string(domain.FilterStatus)] {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			verr.Add(string(domain.FilterStatus), err.Error())
			continue
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if query.Has(string(domain.FilterDate)) {
		date, err := parseDate(query.Get(string(domain.FilterDate)), loc)
		if err != nil {
			verr.Add(string(domain.FilterDate), err.Error())
		} else {
			filter.Date = &date
		}
	}

	filter.Today = query.Has(string(domain.FilterToday))

	if err := verr.OrNil(); err != nil {
		return domain.OrderFilter{}, err
	}
	return filter, nil
}

type dateError struct {
	raw string
}

func (e dateError) Error() string {
	return "date must be in YYYY-MM-DD format, got " + strconv.Quote(e.raw)
}

func parseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(domain.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, dateError{raw: raw}
	}
	return t, nil
}

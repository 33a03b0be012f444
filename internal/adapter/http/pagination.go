package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Lofienjoyerr/CafeProject/internal/domain"
)

const DefaultPageSize = 5

// Page is the list envelope. Next and Previous are absolute URLs or null.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// paginate slices results for the ?page query parameter. A page past the end
// is reported as not found; the first page of an empty list is not.
func paginate[T any](r *http.Request, results []T, size int) (Page[T], error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	pages := (len(results) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	number := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > pages {
			return Page[T]{}, fmt.Errorf("page %q: %w", raw, domain.ErrNotFound)
		}
		number = n
	}

	start := (number - 1) * size
	end := start + size
	if end > len(results) {
		end = len(results)
	}

	page := Page[T]{
		Count:   len(results),
		Results: results[start:end],
	}
	if number < pages {
		next := pageURL(r, number+1)
		page.Next = &next
	}
	if number > 1 {
		prev := pageURL(r, number-1)
		page.Previous = &prev
	}
	return page, nil
}

// pageURL rewrites the page parameter of the current request. Page 1 drops
// the parameter.
func pageURL(r *http.Request, number int) string {
	u := *r.URL
	u.Scheme = requestScheme(r)
	u.Host = r.Host
	q := u.Query()
	if number == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func absoluteURL(r *http.Request, path string) string {
	return requestScheme(r) + "://" + r.Host + path
}

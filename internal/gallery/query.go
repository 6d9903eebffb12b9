// Package gallery turns the gallery's three pieces of UI state (search
// term, random mode, random count) into photo API requests, caches the
// answers, and normalizes them into image records.
package gallery

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultRandomCount is requested when random mode is on and no count
// has been chosen.
const DefaultRandomCount = 10

// RandomCounts are the batch sizes offered by the count selector.
var RandomCounts = []int{1, 2, 3, 4, 5, 10, 15, 20, 25, 30}

// ValidCount reports whether n may be used as a random count. Zero means
// "use the default".
func ValidCount(n int) bool {
	return n == 0 || slices.Contains(RandomCounts, n)
}

// Query is the gallery's request state. RandomMode takes precedence over
// SearchTerm.
type Query struct {
	SearchTerm  string
	RandomMode  bool
	RandomCount int
}

// ParseQuery reads a Query from request parameters q, random and count.
// Counts outside RandomCounts are treated as zero.
func ParseQuery(v url.Values) Query {
	q := Query{
		SearchTerm: strings.TrimSpace(v.Get("q")),
		RandomMode: parseBool(v.Get("random")),
	}
	if n, err := strconv.Atoi(v.Get("count")); err == nil && ValidCount(n) {
		q.RandomCount = n
	}
	return q
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Values is the inverse of ParseQuery. Zero fields are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.SearchTerm != "" {
		v.Set("q", q.SearchTerm)
	}
	if q.RandomMode {
		v.Set("random", "1")
	}
	if q.RandomCount > 0 {
		v.Set("count", strconv.Itoa(q.RandomCount))
	}
	return v
}

// Encode returns the URL-encoded form of Values.
func (q Query) Encode() string { return q.Values().Encode() }

// Key identifies the parameter tuple for caching. Identical tuples share
// a key even when the resolved URL would be the same for different tuples.
func (q Query) Key() string {
	return fmt.Sprintf("images|%s|%t|%d", strconv.Quote(q.SearchTerm), q.RandomMode, q.RandomCount)
}

// WithCount selects a batch size and switches random mode on.
func (q Query) WithCount(n int) Query {
	q.RandomCount = n
	q.RandomMode = true
	return q
}

// UseRandom switches random mode on, keeping the chosen count.
func (q Query) UseRandom() Query {
	q.RandomMode = true
	return q
}

// ClearRandom switches random mode off so the search term applies again.
func (q Query) ClearRandom() Query {
	q.RandomMode = false
	return q
}

// Mode names the request mode the query resolves to.
type Mode string

// Request modes in resolution priority order.
const (
	ModeRandom  Mode = "random"
	ModeSearch  Mode = "search"
	ModeListing Mode = "listing"
)

// Mode returns the request mode for q.
func (q Query) Mode() Mode {
	switch {
	case q.RandomMode:
		return ModeRandom
	case q.SearchTerm != "":
		return ModeSearch
	default:
		return ModeListing
	}
}

// Endpoints holds what the resolver needs to build upstream URLs.
type Endpoints struct {
	BaseURL   string
	AccessKey string
}

// Resolve maps q to the upstream request URL:
//
//	random, count 0  -> {base}/photos/random/?count=10&client_id={key}
//	random, count n  -> {base}/photos/random/?count=n&client_id={key}
//	search term set  -> {base}/search/photos?client_id={key}&query={term}
//	otherwise        -> {base}/photos?client_id={key}
func (e Endpoints) Resolve(q Query) string {
	base := strings.TrimRight(e.BaseURL, "/")
	key := url.QueryEscape(e.AccessKey)

	switch q.Mode() {
	case ModeRandom:
		count := q.RandomCount
		if count <= 0 {
			count = DefaultRandomCount
		}
		return fmt.Sprintf("%s/photos/random/?count=%d&client_id=%s", base, count, key)
	case ModeSearch:
		return fmt.Sprintf("%s/search/photos?client_id=%s&query=%s", base, key, url.QueryEscape(q.SearchTerm))
	default:
		return fmt.Sprintf("%s/photos?client_id=%s", base, key)
	}
}

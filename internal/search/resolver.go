package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Confidence describes how a free-text destination query was resolved.
// Callers can treat "fallback" results as a guess rather than a match:
// the query did not hit the alias table or any code pattern and the
// truncated input may be a meaningless route.
type Confidence string

const (
	ConfidenceExact    Confidence = "exact"
	ConfidenceAlias    Confidence = "alias"
	ConfidenceCode     Confidence = "code"
	ConfidenceRoute    Confidence = "route"
	ConfidenceFallback Confidence = "fallback"
)

// Route is a departure/arrival IATA pair.
type Route struct {
	Departure string
	Arrival   string
}

type Resolution struct {
	Route      Route
	Confidence Confidence
}

// Resolver turns free-text destination input into a Route using a static
// alias table and code-pattern heuristics. Alias lookup respects insertion
// order so substring ties resolve deterministically.
type Resolver struct {
	home  string
	keys  []string
	pairs map[string]Route
}

var (
	codePattern  = regexp.MustCompile(`^[a-z]{3}$`)
	routePattern = regexp.MustCompile(`^([a-z]{3})(?:\s+|\s*[-→>]\s*)([a-z]{3})$`)
	marksRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NewResolver builds a resolver with the default alias table. home is the
// departure airport paired with single-destination aliases and bare codes.
func NewResolver(home string) *Resolver {
	r := &Resolver{home: home, pairs: make(map[string]Route)}
	for _, a := range defaultAliases(home) {
		r.Add(a.key, a.route)
	}
	return r
}

// Add registers an alias. The key is normalized; re-adding an existing key
// overwrites its route without changing its position in the lookup order.
func (r *Resolver) Add(key string, route Route) {
	k := Normalize(key)
	if k == "" {
		return
	}
	if _, ok := r.pairs[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.pairs[k] = route
}

// Normalize lower-cases, trims and strips diacritics via NFD decomposition
// with combining-mark removal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(marksRemover, s)
	if err != nil {
		return s
	}
	return out
}

// Resolve maps a free-text query to a Route. It reports false only for
// blank input; anything else resolves, though possibly with fallback
// confidence.
func (r *Resolver) Resolve(query string) (Resolution, bool) {
	q := Normalize(query)
	if q == "" {
		return Resolution{}, false
	}

	if route, ok := r.pairs[q]; ok {
		return Resolution{Route: route, Confidence: ConfidenceExact}, true
	}

	for _, key := range r.keys {
		if strings.Contains(key, q) || strings.Contains(q, key) {
			return Resolution{Route: r.pairs[key], Confidence: ConfidenceAlias}, true
		}
	}

	if codePattern.MatchString(q) {
		return Resolution{
			Route:      Route{Departure: r.home, Arrival: strings.ToUpper(q)},
			Confidence: ConfidenceCode,
		}, true
	}

	if m := routePattern.FindStringSubmatch(q); m != nil {
		return Resolution{
			Route:      Route{Departure: strings.ToUpper(m[1]), Arrival: strings.ToUpper(m[2])},
			Confidence: ConfidenceRoute,
		}, true
	}

	// Last resort: treat the leading characters as an arrival code. The
	// fallback confidence lets callers warn that the route is a guess.
	letters := []rune(strings.ReplaceAll(q, " ", ""))
	if len(letters) > 3 {
		letters = letters[:3]
	}
	return Resolution{
		Route:      Route{Departure: r.home, Arrival: strings.ToUpper(string(letters))},
		Confidence: ConfidenceFallback,
	}, true
}

type aliasEntry struct {
	key   string
	route Route
}

func defaultAliases(home string) []aliasEntry {
	dest := func(key, arrival string) aliasEntry {
		return aliasEntry{key: key, route: Route{Departure: home, Arrival: arrival}}
	}
	return []aliasEntry{
		dest("barcelona", "BCN"),
		dest("munich", "MUC"),
		dest("paris", "CDG"),
		dest("london", "LHR"),
		dest("londres", "LHR"),
		dest("rome", "FCO"),
		dest("roma", "FCO"),
		dest("new york", "JFK"),
		dest("nueva york", "JFK"),
		dest("berlin", "BER"),
		dest("lisbon", "LIS"),
		dest("lisboa", "LIS"),
		dest("amsterdam", "AMS"),
		dest("milan", "MXP"),
		dest("vienna", "VIE"),
		dest("viena", "VIE"),
	}
}

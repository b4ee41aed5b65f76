// Package classifier decides whether a URL denotes a specific property
// listing rather than a category, search, or aggregator page. The rules are
// heuristic on purpose: precision over recall, no page content required.
package classifier

import (
	"regexp"
	"strings"
)

// blocklist substrings unconditionally disqualify a URL. The check runs
// before every positive signal.
var blocklist = []string{
	"/label/", "/search", "/agencies/", "/agency/", "/town/", "/region/",
	"?ac=", "page=", "/sold/", "/auctions/", "/news/", "/blog/",
	"/guide/", "/about/", "/contact/", "/team/", "/under-offer/",
	"realestate.com.au/buy/",
	"domain.com.au/sale/",
}

// excludedTitleKeywords disqualify a result by title alone.
var excludedTitleKeywords = []string{
	"market report", "buyers guide", "buyer's guide", "news article", "blog post",
}

// Positive identifier shapes. Category pages statistically never carry a
// trailing numeric id or a street-address slug; individual listings almost
// always do.
var (
	// /235-clearview-road-400483 or .../400483/
	reIDAtEnd = regexp.MustCompile(`-\d+/?$`)
	// A long numeric id anywhere in the path. Six digits minimum so that
	// four-digit postcodes in the path never count as listing ids.
	reLongNumericID = regexp.MustCompile(`/\d{6,}`)
	// Street-number-led slug, e.g. /123-smith-road
	reAddressSlug = regexp.MustCompile(`/\d{1,5}-[a-z]`)
	// Explicit property id path, e.g. /property/400483 or /property-400483
	rePropertyID = regexp.MustCompile(`/property[-/]\d+`)
	// Rural lot path, e.g. /lot-12
	reLotID = regexp.MustCompile(`/lot-\d+`)
)

// IsValidListing reports whether rawURL points at an individual property
// listing. title may be empty. The blocklist is a hard veto; with no
// positive identifier shape the URL is rejected by default.
func IsValidListing(rawURL, title string) bool {
	urlLower := strings.ToLower(rawURL)

	for _, b := range blocklist {
		if strings.Contains(urlLower, b) {
			return false
		}
	}

	if title != "" {
		titleLower := strings.ToLower(title)
		for _, kw := range excludedTitleKeywords {
			if strings.Contains(titleLower, kw) {
				return false
			}
		}
	}

	// Farmbuy listing URLs always end in the numeric id, so the broader
	// shapes would only admit noise for that host. The override wins over
	// the generic digit rule; the blocklist veto above still applies.
	if strings.Contains(urlLower, "farmbuy.com") {
		return reIDAtEnd.MatchString(urlLower)
	}

	return reIDAtEnd.MatchString(urlLower) ||
		reLongNumericID.MatchString(urlLower) ||
		reAddressSlug.MatchString(urlLower) ||
		rePropertyID.MatchString(urlLower) ||
		reLotID.MatchString(urlLower)
}

// PassesBlocklist reports whether rawURL survives the blocklist veto alone.
// The relaxed search tier uses it when the full digit rule would be too
// strict to seed any candidates at all.
func PassesBlocklist(rawURL string) bool {
	urlLower := strings.ToLower(rawURL)
	for _, b := range blocklist {
		if strings.Contains(urlLower, b) {
			return false
		}
	}
	return true
}

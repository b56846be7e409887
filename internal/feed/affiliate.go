package feed

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	yahooAuctionsHost = "auctions.yahoo.co.jp"

	buyeeAuctionURL = "https://buyee.jp/item/yahoo/auction/%s?lang=en"
	buyeeSearchURL  = "https://buyee.jp/item/search/query/%s?lang=en"
)

var (
	auctionPath = regexp.MustCompile(`/auction/([a-zA-Z0-9]+)`)
	searchPath  = regexp.MustCompile(`/search/search/([^/]+)`)
)

// ResolveAffiliateLink rewrites Yahoo! Auctions listing and search URLs into
// the matching Buyee proxy pages for international buyers. Any other input,
// including "", is returned unchanged.
func ResolveAffiliateLink(raw string) string {
	if !strings.Contains(raw, yahooAuctionsHost) {
		return raw
	}

	if m := auctionPath.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf(buyeeAuctionURL, m[1])
	}

	// The query segment is already URL-encoded by Yahoo and passes through verbatim.
	if m := searchPath.FindStringSubmatch(raw); m != nil {
		return fmt.Sprintf(buyeeSearchURL, m[1])
	}

	return raw
}

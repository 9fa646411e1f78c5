package dytt

import (
	"baredcrawl/pkg/htmlutil"
	"context"
	"net/url"
	"strings"
)

// parseListing extracts the movie anchors of a listing page, each movie's
// title is an `a.ulink`. only links to detail pages are kept and each
// detail page is kept once.
func parseListing(ctx context.Context, base *url.URL, body []byte, contentType string) ([]Movie, error) {
	doc, err := htmlutil.Decode(body, contentType)
	if err != nil {
		return nil, err
	}

	anchors := htmlutil.GetAnchors(ctx, base, doc.Find("a.ulink"))

	seen := map[string]struct{}{}
	movies := []Movie{}
	for _, a := range anchors {
		if !isDetailPage(a.Href) {
			continue
		}
		if _, ok := seen[a.Href]; ok {
			continue
		}
		seen[a.Href] = struct{}{}
		movies = append(movies, a)
	}
	return movies, nil
}

func isDetailPage(href string) bool {
	link, err := url.Parse(href)
	if err != nil {
		return false
	}
	return strings.HasSuffix(link.Path, ".html") &&
		!strings.HasSuffix(link.Path, "/index.html")
}

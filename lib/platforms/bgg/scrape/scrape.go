// Package scrape extracts ids from the html pages of bgg that have no xml
// api counterpart.
package scrape

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"bggclient/lib/htmlutil"
)

var (
	gameHref      = regexp.MustCompile(`^/boardgame/(\d+)/`)
	expansionHref = regexp.MustCompile(`^/boardgameexpansion/(\d+)/`)
	gamePath      = regexp.MustCompile(`/boardgame/(\d+)(/|$)`)
)

// GameIDs returns the ids of every board game linked from a browse page,
// sorted and without duplicates.
func GameIDs(ctx context.Context, page string) ([]string, error) {
	return linkedIDs(ctx, page, gameHref)
}

// ExpansionIDs is GameIDs for expansion browse pages.
func ExpansionIDs(ctx context.Context, page string) ([]string, error) {
	return linkedIDs(ctx, page, expansionHref)
}

// ids are compared as strings, "100" sorts before "99".
func linkedIDs(ctx context.Context, page string, href *regexp.Regexp) ([]string, error) {
	doc, err := htmlutil.ParseDocument(page)
	if err != nil {
		return nil, fmt.Errorf("parse browse page: %w", err)
	}

	ids := []string{}
	for _, anchor := range htmlutil.GetAnchors(ctx, doc.Selection) {
		match := href.FindStringSubmatch(anchor.Href)
		if match == nil {
			continue
		}
		ids = append(ids, match[1])
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// RedirectID returns the board game id in the location of a redirect, ex.
// "https://boardgamegeek.com/boardgame/31481/galaxy-trucker" yields "31481".
func RedirectID(location string) (string, bool) {
	match := gamePath.FindStringSubmatch(location)
	if match == nil {
		return "", false
	}
	return match[1], true
}

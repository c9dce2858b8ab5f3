package htmlutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAnchors(t *testing.T) {
	doc, err := ParseDocument(`<html><body>
		<table id="collectionitems">
			<tr><td><a href="/boardgame/174430/gloomhaven">
				Gloomhaven
			</a></td></tr>
			<tr><td><a href=" /boardgame/161936/pandemic-legacy-season-1 ">Pandemic   Legacy:
			Season 1</a></td></tr>
			<tr><td><a name="no-href">skipped</a></td></tr>
			<tr><td><a href="http://[::1]:namedport">bad url</a></td></tr>
		</table>
	</body></html>`)
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Selection)
	require.Equal(t, []Anchor{
		{Name: "Gloomhaven", Href: "/boardgame/174430/gloomhaven"},
		{Name: "Pandemic Legacy: Season 1", Href: "/boardgame/161936/pandemic-legacy-season-1"},
	}, anchors)
}

func TestGetAnchorsOnAnchorSelection(t *testing.T) {
	doc, err := ParseDocument(`<a href="/boardgame/1/one">One</a><a href="/boardgame/2/two">Two</a>`)
	require.NoError(t, err)

	anchors := GetAnchors(context.Background(), doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, "/boardgame/2/two", anchors[1].Href)
}

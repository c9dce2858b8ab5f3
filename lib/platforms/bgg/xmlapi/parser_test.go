package xmlapi

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"bggclient/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func readFixture(t testing.TB, name string) []byte {
	t.Helper()
	contents, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return contents
}

func galaxyTrucker() Record {
	return Record{
		ID:            31481,
		PrimaryName:   "Galaxy Trucker",
		YearPublished: 2007,
		ThumbnailURL:  "https://cf.geekdo-images.com/thumb/img/galaxy-trucker.jpg",
		ImageURL:      "https://cf.geekdo-images.com/original/img/galaxy-trucker.jpg",
		MinAge:        10,
		Owners:        30000,
		Players:       Range{Min: 2, Max: 4},
		Playtime:      Range{Min: 60, Max: 60},
		Weight:        2.2,
		Rating:        7.36,
		UsersRated:    23010,
		Trading:       400,
		Wanting:       900,
		Wishing:       4000,
		NumComments:   4500,
		NumWeights:    1500,
	}
}

func TestThing(t *testing.T) {
	tel := &telemetry.Recorder{}
	thing, err := NewParser(tel).Thing(bytes.NewReader(readFixture(t, "thing.xml")))
	require.NoError(t, err)

	expected := Thing{Record: galaxyTrucker(), Type: "boardgame"}
	expected.Description = "Build a spaceship out of sewer pipes.\n\nThen fly it."
	expected.Links = []Link{
		{ID: 1026, Type: "boardgamecategory", Value: "Science Fiction"},
		{ID: 2041, Type: "boardgamemechanic", Value: "Tile Placement"},
		{ID: 8, Type: "boardgamedesigner", Value: "Vlaada Chvátil"},
	}

	if diff := cmp.Diff(expected, thing); diff != "" {
		t.Fatalf("unexpected thing (-want +got):\n%s", diff)
	}
	require.Empty(t, tel.Reports(telemetry.KindWarning, report_record_coerce))
}

func TestBoardGame(t *testing.T) {
	tel := &telemetry.Recorder{}
	game, err := NewParser(tel).BoardGame(bytes.NewReader(readFixture(t, "boardgame.xml")))
	require.NoError(t, err)

	expected := BoardGame{Record: galaxyTrucker()}
	expected.Description = "Build a spaceship out of sewer pipes.<br/><br/>Then fly it."
	expected.Links = []Link{
		{ID: 1026, Type: "boardgamecategory", Value: "Science Fiction"},
		{ID: 2041, Type: "boardgamemechanic", Value: "Tile Placement"},
		{ID: 8, Type: "boardgamedesigner", Value: "Vlaada Chvátil"},
		{ID: 38423, Type: "boardgameexpansion", Value: "Galaxy Trucker: The Big Expansion"},
	}

	if diff := cmp.Diff(expected, game); diff != "" {
		t.Fatalf("unexpected board game (-want +got):\n%s", diff)
	}
	require.Empty(t, tel.Reports(telemetry.KindWarning, report_record_coerce))
}

func TestThingMinimalDocument(t *testing.T) {
	doc := `<item id="31481" type="boardgame"><name type="primary" value="Galaxy Trucker"/><statistics><ratings><usersrated value="2500"/></ratings></statistics></item>`

	thing, err := NewParser(&telemetry.Recorder{}).Thing(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, int64(31481), thing.ID)
	require.Equal(t, "Galaxy Trucker", thing.PrimaryName)
	require.Equal(t, 2500, thing.UsersRated)
	require.Equal(t, "boardgame", thing.Type)
}

func TestParseIsDeterministic(t *testing.T) {
	parser := NewParser(&telemetry.Recorder{})
	doc := readFixture(t, "thing.xml")

	first, err := parser.Thing(bytes.NewReader(doc))
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	results := make([]Thing, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = parser.Thing(bytes.NewReader(doc))
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		if diff := cmp.Diff(first, result); diff != "" {
			t.Fatalf("parses differ (-first +other):\n%s", diff)
		}
	}
}

func TestRangesAreClamped(t *testing.T) {
	testCases := []struct {
		doc      string
		players  Range
		playtime Range
	}{
		{
			doc:      `<item id="1"><minplayers value="5"/><maxplayers value="2"/><minplaytime value="90"/><maxplaytime value="30"/></item>`,
			players:  Range{Min: 5, Max: 5},
			playtime: Range{Min: 90, Max: 90},
		},
		{
			doc:      `<item id="1"><minplayers value="3"/><minplaytime value="45"/></item>`,
			players:  Range{Min: 3, Max: 3},
			playtime: Range{Min: 45, Max: 45},
		},
		{
			doc:      `<item id="1"><minplayers value="1"/><maxplayers value="6"/></item>`,
			players:  Range{Min: 1, Max: 6},
			playtime: Range{},
		},
	}

	parser := NewParser(&telemetry.Recorder{})
	for _, test := range testCases {
		thing, err := parser.Thing(strings.NewReader(test.doc))
		require.NoError(t, err)
		require.Equal(t, test.players, thing.Players, test.doc)
		require.Equal(t, test.playtime, thing.Playtime, test.doc)

		game, err := parser.BoardGame(strings.NewReader(strings.ReplaceAll(test.doc, "item", "boardgame")))
		require.NoError(t, err)
		require.Equal(t, test.players, game.Players, test.doc)
		require.Equal(t, test.playtime, game.Playtime, test.doc)
	}
}

func TestRatingsTagsOnlyApplyUnderRatings(t *testing.T) {
	testCases := []struct {
		name       string
		doc        string
		usersRated int
		owners     int
	}{
		{
			name:       "outside ratings is ignored",
			doc:        `<item id="1"><usersrated value="5"/><owned value="6"/></item>`,
			usersRated: 0,
			owners:     0,
		},
		{
			name:       "outside ratings after inside keeps the ratings value",
			doc:        `<item id="1"><statistics><ratings><usersrated value="2500"/><owned value="10"/></ratings></statistics><usersrated value="5"/><owned value="6"/></item>`,
			usersRated: 2500,
			owners:     10,
		},
		{
			name:       "grandchild of ratings is ignored",
			doc:        `<item id="1"><ratings><ranks><usersrated value="5"/></ranks></ratings></item>`,
			usersRated: 0,
		},
	}

	parser := NewParser(&telemetry.Recorder{})
	for _, test := range testCases {
		thing, err := parser.Thing(strings.NewReader(test.doc))
		require.NoError(t, err, test.name)
		require.Equal(t, test.usersRated, thing.UsersRated, test.name)
		require.Equal(t, test.owners, thing.Owners, test.name)
	}
}

func TestMalformedNumbersDegradeToZero(t *testing.T) {
	tel := &telemetry.Recorder{}
	parser := NewParser(tel)

	thing, err := parser.Thing(strings.NewReader(
		`<item id="7"><minplayers value="abc"/><maxplayers value="4"/><statistics><ratings><average value="n/a"/></ratings></statistics></item>`,
	))
	require.NoError(t, err)
	require.Equal(t, int64(7), thing.ID)
	require.Equal(t, Range{Min: 0, Max: 4}, thing.Players)
	require.Equal(t, 0.0, thing.Rating)

	game, err := parser.BoardGame(strings.NewReader(
		`<boardgame objectid="7"><yearpublished>around 2007</yearpublished><age>10+</age></boardgame>`,
	))
	require.NoError(t, err)
	require.Equal(t, 0, game.YearPublished)
	require.Equal(t, 10, game.MinAge)

	warnings := tel.Reports(telemetry.KindWarning, report_record_coerce)
	require.Len(t, warnings, 3)
	require.Equal(t, "minplayers", warnings[0].Params[1])
	require.Equal(t, "average", warnings[1].Params[1])
	require.Equal(t, "yearpublished", warnings[2].Params[1])
}

func TestMalformedDocuments(t *testing.T) {
	testCases := []string{
		"",
		"  \n ",
		"not xml at all",
		`<items><item id="1">`,
		`<items><item id="1"></items>`,
	}

	parser := NewParser(&telemetry.Recorder{})
	for _, doc := range testCases {
		_, err := parser.Thing(strings.NewReader(doc))
		require.True(t, errors.Is(err, ErrMalformedDocument), "%q: %v", doc, err)

		_, err = parser.BoardGame(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrMalformedDocument, doc)

		_, err = parser.Collection(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrMalformedDocument, doc)
	}
}

func TestPrimaryNameText(t *testing.T) {
	testCases := []struct {
		name        string
		doc         string
		primaryName string
		usersRated  int
		description string
	}{
		{
			name:        "alternate names are ignored",
			doc:         `<boardgame objectid="1"><name>Alternate</name><name primary="true">Primary</name><name>Later</name></boardgame>`,
			primaryName: "Primary",
		},
		{
			name:        "capture ends with its element",
			doc:         `<boardgame objectid="1"><name primary="true">Primary</name><description>Text</description></boardgame>`,
			primaryName: "Primary",
			description: "Text",
		},
		{
			name:        "nested elements keep their context",
			doc:         `<boardgame objectid="1"><name primary="true"><ratings><usersrated>12</usersrated></ratings>Primary</name></boardgame>`,
			primaryName: "Primary",
			usersRated:  12,
		},
		{
			name:        "runs around a nested element are joined",
			doc:         `<boardgame objectid="1"><name primary="true">Galaxy <i>x</i>Trucker</name></boardgame>`,
			primaryName: "Galaxy Trucker",
		},
		{
			name:        "entities and cdata",
			doc:         `<boardgame objectid="1"><name primary="true">Caf&eacute; &amp; <![CDATA[<Co>]]></name></boardgame>`,
			primaryName: "Café & <Co>",
		},
	}

	parser := NewParser(&telemetry.Recorder{})
	for _, test := range testCases {
		game, err := parser.BoardGame(strings.NewReader(test.doc))
		require.NoError(t, err, test.name)
		require.Equal(t, test.primaryName, game.PrimaryName, test.name)
		require.Equal(t, test.usersRated, game.UsersRated, test.name)
		require.Equal(t, test.description, game.Description, test.name)
	}

	// the legacy text form means nothing to the v2 shape
	thing, err := parser.Thing(strings.NewReader(`<item id="1"><name primary="true">Primary</name></item>`))
	require.NoError(t, err)
	require.Equal(t, "", thing.PrimaryName)
}

func TestVocabularyOverrides(t *testing.T) {
	_, ok := commonVocabulary.start["boardgame"]
	require.False(t, ok)
	_, ok = commonVocabulary.start["item"]
	require.False(t, ok)

	_, ok = thingVocabulary.start["boardgame"]
	require.False(t, ok)
	_, ok = boardGameVocabulary.start["item"]
	require.False(t, ok)

	for tag, rule := range commonVocabulary.start {
		if tag == "name" {
			continue
		}
		require.Equal(t, rule.parent, boardGameVocabulary.start[tag].parent, tag)
		require.Equal(t, rule.parent, thingVocabulary.start[tag].parent, tag)
	}
	require.Len(t, thingVocabulary.text, len(commonVocabulary.text))

	for _, tag := range []string{"yearpublished", "minplayers", "maxplayers", "minplaytime", "maxplaytime", "age"} {
		_, ok = boardGameVocabulary.text[tag]
		require.True(t, ok, tag)
		_, ok = thingVocabulary.text[tag]
		require.False(t, ok, tag)
	}
}

func TestThingIgnoresInnerTextNumbers(t *testing.T) {
	thing, err := NewParser(&telemetry.Recorder{}).Thing(strings.NewReader(
		`<item id="1"><yearpublished>2007</yearpublished><minplayers>2</minplayers><age>10</age></item>`))
	require.NoError(t, err)
	require.Equal(t, 0, thing.YearPublished)
	require.Equal(t, 0, thing.Players.Min)
	require.Equal(t, 0, thing.MinAge)
}

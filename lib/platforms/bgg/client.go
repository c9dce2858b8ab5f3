// Package bgg is a client for the public xml apis and browse pages of
// boardgamegeek.
package bgg

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bggclient/internal/assert"
	"bggclient/internal/components/telemetry"
	"bggclient/lib/platforms/bgg/protocol"
	"bggclient/lib/platforms/bgg/scrape"
	"bggclient/lib/platforms/bgg/xmlapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_client_collection = "client.collection"
	report_client_random     = "client.random"
	report_client_top        = "client.top"
)

const (
	DefaultSiteBaseURL      = "https://boardgamegeek.com"
	DefaultLegacyAPIBaseURL = "https://api.geekdo.com"
)

var tracer = otel.Tracer("bggclient/lib/platforms/bgg")

type CollectionType int

const (
	// CollectionBoardGames is every item of a collection except expansions.
	CollectionBoardGames CollectionType = iota
	CollectionExpansions
)

func (t CollectionType) String() string {
	switch t {
	case CollectionBoardGames:
		return "boardgames"
	case CollectionExpansions:
		return "expansions"
	}
	return fmt.Sprintf("CollectionType(%d)", int(t))
}

type ClientOptions struct {
	// SiteBaseURL serves the v2 xml api and the html pages, defaults to
	// DefaultSiteBaseURL.
	SiteBaseURL string
	// LegacyAPIBaseURL serves the v1 xml api, defaults to
	// DefaultLegacyAPIBaseURL.
	LegacyAPIBaseURL string
	Protocol         protocol.ClientOptions
}

type Client struct {
	site      *url.URL
	legacyAPI *url.URL
	protocol  *protocol.Client
	parser    xmlapi.Parser
	tel       telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "telemetry")

	if opts.SiteBaseURL == "" {
		opts.SiteBaseURL = DefaultSiteBaseURL
	}
	if opts.LegacyAPIBaseURL == "" {
		opts.LegacyAPIBaseURL = DefaultLegacyAPIBaseURL
	}
	site, err := url.Parse(opts.SiteBaseURL)
	if err != nil {
		return nil, fmt.Errorf("site base url: %w", err)
	}
	legacyAPI, err := url.Parse(opts.LegacyAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("legacy api base url: %w", err)
	}

	return &Client{
		site:      site,
		legacyAPI: legacyAPI,
		protocol:  protocol.NewClient(opts.Protocol, tel),
		parser:    xmlapi.NewParser(tel),
		tel:       telemetry.NewScopedAPI("bgg", tel),
	}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// BoardGame fetches a catalog entry from the v1 xml api.
func (c *Client) BoardGame(ctx context.Context, id string) (game xmlapi.BoardGame, err error) {
	ctx, span := tracer.Start(ctx, "client:BoardGame", trace.WithAttributes(attribute.String("id", id)))
	defer func() { endSpan(span, err) }()

	text, err := c.protocol.Get(ctx, c.legacyAPI.JoinPath("xmlapi", "boardgame", id).String())
	if err != nil {
		return xmlapi.BoardGame{}, err
	}
	game, err = c.parser.BoardGame(strings.NewReader(text))
	if err != nil {
		return xmlapi.BoardGame{}, fmt.Errorf("boardgame %s: %w", id, err)
	}
	return game, nil
}

// Thing fetches an entity with its statistics from the v2 thing endpoint.
func (c *Client) Thing(ctx context.Context, id string) (thing xmlapi.Thing, err error) {
	ctx, span := tracer.Start(ctx, "client:Thing", trace.WithAttributes(attribute.String("id", id)))
	defer func() { endSpan(span, err) }()

	endpoint := c.site.JoinPath("xmlapi2", "thing")
	endpoint.RawQuery = url.Values{
		"id":    {id},
		"stats": {"1"},
	}.Encode()

	text, err := c.protocol.Get(ctx, endpoint.String())
	if err != nil {
		return xmlapi.Thing{}, err
	}
	thing, err = c.parser.Thing(strings.NewReader(text))
	if err != nil {
		return xmlapi.Thing{}, fmt.Errorf("thing %s: %w", id, err)
	}
	return thing, nil
}

// Collection fetches a user's collection. bgg answers 202 until it has
// prepared the collection, which is waited out under the pending policy.
func (c *Client) Collection(ctx context.Context, username string, kind CollectionType) (collection xmlapi.Collection, err error) {
	ctx, span := tracer.Start(ctx, "client:Collection", trace.WithAttributes(
		attribute.String("username", username),
		attribute.Stringer("type", kind),
	))
	defer func() { endSpan(span, err) }()

	query := url.Values{"username": {username}}
	switch kind {
	case CollectionExpansions:
		query.Set("subtype", "boardgameexpansion")
	default:
		query.Set("excludesubtype", "boardgameexpansion")
	}
	endpoint := c.site.JoinPath("xmlapi2", "collection")
	endpoint.RawQuery = query.Encode()

	text, err := c.protocol.GetWithPendingCheck(ctx, endpoint.String())
	if err != nil {
		return xmlapi.Collection{}, err
	}
	collection, err = c.parser.Collection(strings.NewReader(text))
	if err != nil {
		return xmlapi.Collection{}, fmt.Errorf("collection of %s: %w", username, err)
	}
	c.tel.ReportCount(report_client_collection, int64(len(collection.Items)))
	return collection, nil
}

// RandomBoardGameID resolves bgg's random board game redirect without
// fetching the game itself.
func (c *Client) RandomBoardGameID(ctx context.Context) (id string, err error) {
	ctx, span := tracer.Start(ctx, "client:RandomBoardGameID")
	defer func() { endSpan(span, err) }()

	location, ok, err := c.protocol.GetRedirectLocation(ctx, c.site.JoinPath("boardgame", "random").String())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: redirect without location", protocol.ErrBadResponse)
	}

	id, ok = scrape.RedirectID(location)
	if !ok {
		c.tel.ReportWarning(report_client_random, "redirect to unexpected location", location)
		return "", fmt.Errorf("%w: no board game id in %q", protocol.ErrBadResponse, location)
	}
	return id, nil
}

// TopGames returns the ids of the board games on a page of the rank browser.
func (c *Client) TopGames(ctx context.Context, page int) ([]string, error) {
	return c.top(ctx, "boardgame", page, scrape.GameIDs)
}

// TopExpansions returns the ids of the expansions on a page of the rank
// browser.
func (c *Client) TopExpansions(ctx context.Context, page int) ([]string, error) {
	return c.top(ctx, "boardgameexpansion", page, scrape.ExpansionIDs)
}

func (c *Client) top(
	ctx context.Context,
	subtype string,
	page int,
	extract func(ctx context.Context, page string) ([]string, error),
) (ids []string, err error) {
	ctx, span := tracer.Start(ctx, "client:Top", trace.WithAttributes(
		attribute.String("subtype", subtype),
		attribute.Int("page", page),
	))
	defer func() { endSpan(span, err) }()

	text, err := c.protocol.Get(ctx, c.site.JoinPath("browse", subtype, "page", strconv.Itoa(page)).String())
	if err != nil {
		return nil, err
	}
	ids, err = extract(ctx, text)
	if err != nil {
		c.tel.ReportBroken(report_client_top, err, subtype, page)
		return nil, fmt.Errorf("%w: %w", protocol.ErrBadResponse, err)
	}
	if len(ids) == 0 {
		c.tel.ReportWarning(report_client_top, "browse page without ids", subtype, page)
	}
	return ids, nil
}

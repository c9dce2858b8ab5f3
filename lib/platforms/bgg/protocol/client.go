// Package protocol handles the idiosyncrasies of fetching documents from bgg:
// 429s that have to be waited out, 202s returned while a document is still
// being prepared, and redirects that carry data in their Location header.
package protocol

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
	"unicode/utf8"

	"bggclient/internal/assert"
	"bggclient/internal/components/telemetry"
	"bggclient/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	report_client_get          = "client.get"
	report_client_get_pending  = "client.get-pending"
	report_client_get_redirect = "client.get-redirect"
)

const DefaultUserAgent = "bggclient/1.0"

var tracer = otel.Tracer("bggclient/lib/platforms/bgg/protocol")

type ClientOptions struct {
	// RateLimit is the retry policy for 429 responses.
	RateLimit Policy
	// Pending is the retry policy for 202 responses in GetWithPendingCheck.
	Pending Policy
	// RequestsPerSecond paces outgoing requests when > 0.
	RequestsPerSecond float64
	UserAgent         string
	// CloudflareBypass wraps the transport so that html pages served behind
	// cloudflare's browser check can be fetched.
	CloudflareBypass bool
	// MessageOutput receives a dump of every http exchange when non-nil.
	MessageOutput restyutil.Output
}

// Client is safe for concurrent use, no state is shared between calls apart
// from the underlying connection pools.
type Client struct {
	http       *resty.Client
	noRedirect *resty.Client
	rateLimit  Policy
	pending    Policy
	tel        telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("bgg_protocol", tel)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	setup := func(name string, client *resty.Client) *resty.Client {
		client.SetHeader("user-agent", userAgent)
		if opts.CloudflareBypass {
			client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
		}

		telemetry.InstrumentResty(client, tel)
		if limiter != nil {
			client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
				return limiter.Wait(req.Context())
			})
		}
		restyutil.DumpMessages(client, name, opts.MessageOutput)
		return client
	}

	noRedirect := resty.New()
	noRedirect.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	return &Client{
		http:       setup("http", resty.New()),
		noRedirect: setup("no-redirect", noRedirect),
		rateLimit:  opts.RateLimit.withDefaults(DefaultRateLimitPolicy()),
		pending:    opts.Pending.withDefaults(DefaultPendingPolicy()),
		tel:        tel,
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Get fetches url and returns the body as text. 429 responses are retried
// under the rate limit policy, every other failure is returned immediately.
func (c *Client) Get(ctx context.Context, url string) (text string, err error) {
	ctx, span := tracer.Start(ctx, "client:Get", trace.WithAttributes(attribute.String("url", url)))
	defer func() { endSpan(span, err) }()

	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	attempt := func() (string, error) {
		res, err := c.http.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			return "", backoff.Permanent(c.requestError(ctx, report_client_get, res, err))
		}

		switch res.StatusCode() {
		case http.StatusOK:
			text, err := decodeBody(res)
			if err != nil {
				c.tel.ReportBroken(report_client_get, err, url)
				return "", backoff.Permanent(err)
			}
			return text, nil
		case http.StatusTooManyRequests:
			return "", ErrTooManyRequests
		default:
			return "", backoff.Permanent(RequestFailedError{StatusCode: res.StatusCode()})
		}
	}

	notify := func(err error, next time.Duration) {
		c.tel.ReportWarning(report_client_get, fmt.Errorf("received 429, retrying: %w", err), url, next)
	}
	return backoff.RetryNotifyWithData(attempt, c.rateLimit.backOff(ctx), notify)
}

// GetWithPendingCheck is Get, but a 202 (document not ready yet) is retried
// under the pending policy. The 429 handling of Get happens inside every
// attempt and is not retried again here once exhausted.
func (c *Client) GetWithPendingCheck(ctx context.Context, url string) (text string, err error) {
	ctx, span := tracer.Start(ctx, "client:GetWithPendingCheck", trace.WithAttributes(attribute.String("url", url)))
	defer func() { endSpan(span, err) }()

	attempt := func() (string, error) {
		text, err := c.get(ctx, url)
		if err == nil {
			return text, nil
		}
		if code, ok := StatusCode(err); ok && code == http.StatusAccepted {
			return "", err
		}
		return "", backoff.Permanent(err)
	}

	notify := func(_ error, next time.Duration) {
		c.tel.ReportWarning(report_client_get_pending, "received 202, retrying", url, next)
	}
	return backoff.RetryNotifyWithData(attempt, c.pending.backOff(ctx), notify)
}

// GetRedirectLocation requests url without following redirects and returns
// the Location of a 302. ok is false when the 302 carries no Location. This is
// never retried.
func (c *Client) GetRedirectLocation(ctx context.Context, url string) (location string, ok bool, err error) {
	ctx, span := tracer.Start(ctx, "client:GetRedirectLocation", trace.WithAttributes(attribute.String("url", url)))
	defer func() { endSpan(span, err) }()

	res, err := c.noRedirect.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", false, c.requestError(ctx, report_client_get_redirect, res, err)
	}
	if res.StatusCode() != http.StatusFound {
		return "", false, RequestFailedError{StatusCode: res.StatusCode()}
	}

	location = res.Header().Get("Location")
	if location == "" {
		c.tel.ReportWarning(report_client_get_redirect, "302 without location", url)
		return "", false, nil
	}
	return location, true, nil
}

// requestError classifies an error returned by resty. A response without a
// body means the body could not be read, no response at all means the
// connection failed.
func (c *Client) requestError(ctx context.Context, id string, res *resty.Response, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if res != nil && res.RawResponse != nil {
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	c.tel.ReportBroken(id, err)
	return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}

func declaresCharset(contentType string) bool {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := params["charset"]
	return ok
}

// decodeBody converts a response body to utf-8 text according to the charset
// of its Content-Type. Undeclared charsets are sniffed unless the body already
// is valid utf-8.
func decodeBody(res *resty.Response) (string, error) {
	body := res.Body()
	contentType := res.Header().Get("Content-Type")
	if !declaresCharset(contentType) && utf8.Valid(body) {
		return string(body), nil
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return string(text), nil
}

// IsTransient reports whether err is one of the conditions this package
// retries, useful for callers deciding whether to try again later.
func IsTransient(err error) bool {
	if errors.Is(err, ErrTooManyRequests) {
		return true
	}
	code, ok := StatusCode(err)
	return ok && code == http.StatusAccepted
}

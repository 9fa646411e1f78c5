// Package dytt walks the "latest movies" listing of dytt8 (电影天堂) page by
// page and records the movie links found on each page.
package dytt

import (
	"baredcrawl/internal/assert"
	"baredcrawl/internal/components/chrono"
	"baredcrawl/internal/components/telemetry"
	"baredcrawl/internal/fetch"
	"baredcrawl/pkg/htmlutil"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch_page = "client.fetch-page"
	report_crawler_run       = "crawler.run"
)

const (
	DefaultListUrl = "http://www.dytt8.net/html/gndy/dyzz/list_23_%d.html"
	DefaultPages   = 10
	DefaultDelay   = 2 * time.Second
	DefaultTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/69.0.3497.92 Safari/537.36"
)

type Movie = htmlutil.Anchor

// PageResult is one listing page, as appended to the cache file.
type PageResult struct {
	Timestamp string  `json:"timestamp"`
	Index     int     `json:"index"`
	Url       string  `json:"url"`
	Success   bool    `json:"success"`
	Movies    []Movie `json:"movies,omitempty"`
	Error     *string `json:"error"`
}

type Stats struct {
	Pages   int `json:"pages"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Movies  int `json:"movies"`
}

type ClientOptions struct {
	// ListUrl is a format string with a single %d for the page index,
	// defaults to DefaultListUrl.
	ListUrl string
	Timeout time.Duration
	// CloudflareBypass wraps the transport with cloudflare-bp-go, the mirrors
	// of this site tend to sit behind cloudflare.
	CloudflareBypass bool
}

type Client struct {
	listUrl string
	http    *resty.Client
	clock   chrono.API
	tel     telemetry.API
}

func NewClient(opts ClientOptions, clock chrono.API, tel telemetry.API) *Client {
	assert.NotNil(clock)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("dytt_scraper", tel)

	if opts.ListUrl == "" {
		opts.ListUrl = DefaultListUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("User-Agent", userAgent)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	telemetry.InstrumentResty(httpClient, "scrapers/dytt/http", tel)

	return &Client{
		listUrl: opts.ListUrl,
		http:    httpClient,
		clock:   clock,
		tel:     tel,
	}
}

// PageUrl is the listing url of a 1-based page index.
func (c *Client) PageUrl(index int) string {
	return fmt.Sprintf(c.listUrl, index)
}

// FetchPage downloads one listing page and extracts the movie links on it.
// like sgcc.Client.FetchSecureKey, failures end up in the result.
func (c *Client) FetchPage(ctx context.Context, index int) PageResult {
	pageUrl := c.PageUrl(index)
	result := PageResult{
		Timestamp: chrono.Timestamp(c.clock),
		Index:     index,
		Url:       pageUrl,
	}

	fail := func(err *fetch.Error) PageResult {
		msg := err.Error()
		result.Error = &msg
		c.tel.ReportBroken(report_client_fetch_page, err, string(err.Kind), pageUrl)
		return result
	}

	base, err := url.Parse(pageUrl)
	if err != nil {
		return fail(fetch.Classify(err))
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return fail(fetch.Classify(err))
	}
	if res.StatusCode() != http.StatusOK {
		return fail(fetch.StatusError(res.StatusCode()))
	}

	movies, err := parseListing(ctx, base, res.Body(), res.Header().Get("Content-Type"))
	if err != nil {
		return fail(fetch.DecodeError(err))
	}

	result.Movies = movies
	result.Success = true
	return result
}

// PageSink receives every page result, jsoncache.Cache satisfies it.
type PageSink interface {
	Append(item PageResult) error
}

type Crawler struct {
	client *Client
	delay  time.Duration
	tel    telemetry.API
}

func NewCrawler(client *Client, delay time.Duration, tel telemetry.API) Crawler {
	return Crawler{
		client: client,
		delay:  delay,
		tel:    telemetry.NewScopedAPI("dytt_crawler", tel),
	}
}

// Run walks pages 1 to `pages`, waiting `delay` after each page but the
// last. a failed page is recorded and the walk moves on, unless it failed
// because ctx was cancelled.
func (c Crawler) Run(ctx context.Context, pages int, sink PageSink) (Stats, error) {
	stats := Stats{}
	pacer := fetch.NewPacer(c.delay)

	for index := 1; index <= pages; index++ {
		err := pacer.Wait(ctx)
		if err != nil {
			return stats, err
		}

		c.tel.ReportDebug("crawling page", index)
		c.tel.ReportDebug(fmt.Sprintf("%d :: %s", index, c.client.PageUrl(index)))

		result := c.client.FetchPage(ctx, index)
		pacer.Done()
		if !result.Success && ctx.Err() != nil {
			return stats, ctx.Err()
		}
		stats.Pages++
		if result.Success {
			stats.Success++
			stats.Movies += len(result.Movies)
		} else {
			stats.Failed++
		}

		err = sink.Append(result)
		if err != nil {
			c.tel.ReportBroken(report_crawler_run, err)
			return stats, err
		}
	}

	c.tel.ReportCount("crawler.movies", int64(stats.Movies))
	return stats, nil
}

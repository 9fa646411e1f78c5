package sgcc

import (
	"baredcrawl/internal/assert"
	"baredcrawl/internal/components/chrono"
	"baredcrawl/internal/components/telemetry"
	"baredcrawl/internal/fetch"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch_secure_key = "client.fetch-secure-key"
	report_client_probe            = "client.probe"
)

const (
	DefaultBaseUrl  = "https://pmos.he.sgcc.com.cn"
	SecureKeyPath   = "/px-common-authcenter/auth/v2/secureKey/get"
	DefaultTimeout  = 10 * time.Second
	secureKeyBody   = "{}"
	userAgentChrome = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"
)

// browserHeaders are the headers the trading portal's outer network page
// sends, the endpoint rejects requests that do not look like they came from it.
var browserHeaders = map[string]string{
	"Accept":             "application/json, text/plain, */*",
	"Accept-Language":    "zh-CN,zh;q=0.9,en;q=0.8",
	"ClientTag":          "OUTNET_BROWSE",
	"Connection":         "keep-alive",
	"CurrentRoute":       "/outNet",
	"Origin":             "https://pmos.he.sgcc.com.cn",
	"Referer":            "https://pmos.he.sgcc.cn/",
	"Sec-Fetch-Dest":     "empty",
	"Sec-Fetch-Mode":     "cors",
	"Sec-Fetch-Site":     "same-origin",
	"User-Agent":         userAgentChrome,
	"X-Ticket":           "undefined",
	"X-Token":            "null",
	"sec-ch-ua":          `"Google Chrome";v="143", "Chromium";v="143", "Not A(Brand";v="24"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"macOS"`,
	"Content-Type":       "application/json;charset=UTF-8",
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration
}

type Client struct {
	http  *resty.Client
	clock chrono.API
	tel   telemetry.API
}

func NewClient(opts ClientOptions, clock chrono.API, tel telemetry.API) *Client {
	assert.NotNil(clock)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("sgcc_scraper", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetTimeout(opts.Timeout)
	// header names like "sec-ch-ua" are sent exactly as written
	for k, v := range browserHeaders {
		httpClient.SetHeaderVerbatim(k, v)
	}

	telemetry.InstrumentResty(httpClient, "scrapers/sgcc/http", tel)

	return &Client{
		http:  httpClient,
		clock: clock,
		tel:   tel,
	}
}

func (c *Client) post(ctx context.Context) (*resty.Response, error) {
	return c.http.R().
		SetContext(ctx).
		SetBody(secureKeyBody).
		Post(SecureKeyPath)
}

// FetchSecureKey sends a single request for a fresh key. it never returns an
// error, failures are described by the result so that they can be logged
// alongside the successes.
func (c *Client) FetchSecureKey(ctx context.Context) CrawlResult {
	result := CrawlResult{
		Timestamp: chrono.Timestamp(c.clock),
	}

	fail := func(err *fetch.Error) CrawlResult {
		msg := err.Error()
		result.Error = &msg
		c.tel.ReportBroken(report_client_fetch_secure_key, err, string(err.Kind))
		return result
	}

	res, err := c.post(ctx)
	if err != nil {
		return fail(fetch.Classify(err))
	}
	if res.StatusCode() != http.StatusOK {
		return fail(fetch.StatusError(res.StatusCode()))
	}

	var parsed APIResponse
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		return fail(fetch.DecodeError(err))
	}

	result.Data = &parsed
	result.Success = true
	c.tel.ReportDebug("request succeeded", parsed.Status, parsed.Message)
	return result
}

// Probe sends one request and returns the body as is, non-200 statuses
// are returned as errors.
func (c *Client) Probe(ctx context.Context) ([]byte, error) {
	res, err := c.post(ctx)
	if err != nil {
		classified := fetch.Classify(err)
		c.tel.ReportBroken(report_client_probe, classified)
		return nil, classified
	}
	c.tel.ReportDebug("probe exchange", telemetry.FormatHttpMessage(res))
	if res.StatusCode() != http.StatusOK {
		err := fetch.StatusError(res.StatusCode())
		c.tel.ReportBroken(report_client_probe, err)
		return res.Body(), err
	}
	if !json.Valid(res.Body()) {
		err := fetch.DecodeError(fmt.Errorf("response is not valid json"))
		c.tel.ReportBroken(report_client_probe, err)
		return res.Body(), err
	}
	return res.Body(), nil
}

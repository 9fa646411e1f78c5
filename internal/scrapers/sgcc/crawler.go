package sgcc

import (
	"baredcrawl/internal/components/telemetry"
	"baredcrawl/internal/fetch"
	"context"
	"time"
)

const (
	report_crawler_run = "crawler.run"
	DefaultDelay       = 4 * time.Second
	DefaultCount       = 1
)

// ResultSink receives every crawl result, jsoncache.Cache satisfies it.
type ResultSink interface {
	Append(item CrawlResult) error
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
		tel:    telemetry.NewScopedAPI("sgcc_crawler", tel),
	}
}

// Run fetches `count` keys in sequence, appending each result to sink and
// waiting `delay` after every request but the last. if ctx is cancelled (or
// its deadline falls before the next request) the stats of the requests
// made so far are returned together with the error, a request cut short by
// the cancellation is not recorded.
func (c Crawler) Run(ctx context.Context, count int, sink ResultSink) (Stats, error) {
	c.tel.ReportDebug("starting crawl", count, c.delay.String())

	stats := Stats{}
	pacer := fetch.NewPacer(c.delay)
	defer func() {
		c.tel.ReportCount("crawler.success", int64(stats.Success))
		c.tel.ReportCount("crawler.failed", int64(stats.Failed))
	}()

	for i := 1; i <= count; i++ {
		err := pacer.Wait(ctx)
		if err != nil {
			return stats, err
		}

		c.tel.ReportDebug("requesting", i, count)
		result := c.client.FetchSecureKey(ctx)
		pacer.Done()
		if !result.Success && ctx.Err() != nil {
			return stats, ctx.Err()
		}
		stats.Total++

		err = sink.Append(result)
		if err != nil {
			c.tel.ReportBroken(report_crawler_run, err)
			return stats, err
		}

		if result.Success {
			stats.Success++
		} else {
			stats.Failed++
		}
	}

	return stats, nil
}

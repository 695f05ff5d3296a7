// Package marketdata downloads daily closing prices and keeps them in a local
// CSV cache, so volatility estimates can be rerun offline.
package marketdata

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/golang/glog"
)

const (
	kChart      = "chart"
	kResult     = "result"
	kError      = "error"
	kTimestamp  = "timestamp"
	kIndicators = "indicators"
	kQuote      = "quote"
	kClose      = "close"
	kAdjClose   = "adjclose"
	kDesc       = "description"

	DefaultBaseURL    = "https://query1.finance.yahoo.com"
	DefaultMaxRetries = 3
)

// Client fetches price histories from the Yahoo Finance chart API.
type Client struct {
	BaseURL    string
	MaxRetries int
	RetryDelay time.Duration

	session *http.Client
	headers map[string]string
}

func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: time.Second,
		session:    &http.Client{Timeout: 30 * time.Second},
		headers: map[string]string{
			"user-agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.149 Safari/537.36",
			"accept":          "application/json",
			"accept-encoding": "gzip",
		},
	}
}

func (c *Client) newGetRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// FetchURL GETs url and returns the decoded body. Rate limiting and server
// errors are retried up to MaxRetries times; any other status fails at once.
func (c *Client) FetchURL(ctx context.Context, url string) (*bytes.Buffer, error) {
	var resp *http.Response
	for attempt := 0; ; attempt++ {
		req, err := c.newGetRequest(ctx, url)
		if err != nil {
			return nil, err
		}
		glog.Info("Fetching URL ", url)
		resp, err = c.session.Do(req)
		if err != nil {
			glog.Errorf("Fetching URL=%s failed with error=%s", url, err)
			return nil, err
		}
		if resp.StatusCode == http.StatusOK {
			break
		}

		resp.Body.Close()
		errMsg := fmt.Sprintf("Fetching URL=%s failed with status=%d.", url, resp.StatusCode)
		if !retryable(resp.StatusCode) || attempt >= c.MaxRetries {
			glog.Error(errMsg)
			return nil, errors.New(errMsg)
		}
		glog.Error(errMsg, " Retrying...")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.RetryDelay):
		}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(reader); err != nil {
		glog.Errorf("Reading the HTTP response failed with error=%s", err)
		return nil, err
	}
	glog.Infof("Successfully fetched URL=%s.", url)
	return buf, nil
}

func (c *Client) chartURL(ticker string, start, end time.Time) string {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", "1d")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(ticker), q.Encode())
}

// FetchCloses downloads daily closes for ticker in [start, end). Adjusted
// closes are preferred when the response carries them; days without a
// close are dropped.
func (c *Client) FetchCloses(ctx context.Context, ticker string, start, end time.Time) (Series, error) {
	buf, err := c.FetchURL(ctx, c.chartURL(ticker, start, end))
	if err != nil {
		return Series{}, fmt.Errorf("fetching %s: %w", ticker, err)
	}
	var jsonData map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &jsonData); err != nil {
		glog.Errorf("Parsing chart response failed with error=%s.", err)
		return Series{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	series, err := parseChart(jsonData)
	if err != nil {
		return Series{}, err
	}
	series.Ticker = ticker
	if series.Len() == 0 {
		return Series{}, fmt.Errorf("no data found for %s", ticker)
	}
	return series, nil
}

func parseChart(jsonData map[string]interface{}) (Series, error) {
	chart, err := getMapField(jsonData, kChart)
	if err != nil {
		return Series{}, err
	}
	if apiErr, ok := chart[kError].(map[string]interface{}); ok {
		desc, _ := getStrField(apiErr, kDesc)
		return Series{}, fmt.Errorf("chart api error: %s", desc)
	}
	result, err := firstObject(chart, kResult)
	if err != nil {
		return Series{}, err
	}
	stamps, err := getArrayField(result, kTimestamp)
	if err != nil {
		return Series{}, err
	}
	indicators, err := getMapField(result, kIndicators)
	if err != nil {
		return Series{}, err
	}

	var closes []interface{}
	if _, ok := indicators[kAdjClose]; ok {
		adj, err := firstObject(indicators, kAdjClose)
		if err != nil {
			return Series{}, err
		}
		if closes, err = getArrayField(adj, kAdjClose); err != nil {
			return Series{}, err
		}
	}
	if closes == nil {
		quote, err := firstObject(indicators, kQuote)
		if err != nil {
			return Series{}, err
		}
		if closes, err = getArrayField(quote, kClose); err != nil {
			return Series{}, err
		}
	}
	if len(closes) != len(stamps) {
		return Series{}, malformed("got %d closes for %d timestamps", len(closes), len(stamps))
	}

	ts, tsOk := convertToFloatSlice(stamps)
	px, pxOk := convertToFloatSlice(closes)
	var s Series
	for i := range ts {
		if !tsOk[i] || !pxOk[i] || math.IsNaN(px[i]) {
			continue
		}
		day := time.Unix(int64(ts[i]), 0).UTC().Truncate(24 * time.Hour)
		s.Dates = append(s.Dates, day)
		s.Closes = append(s.Closes, px[i])
	}
	sort.Sort(byDate(s))
	return s, nil
}

type byDate Series

func (s byDate) Len() int { return len(s.Dates) }
func (s byDate) Less(i, j int) bool { return s.Dates[i].Before(s.Dates[j]) }
func (s byDate) Swap(i, j int) {
	s.Dates[i], s.Dates[j] = s.Dates[j], s.Dates[i]
	s.Closes[i], s.Closes[j] = s.Closes[j], s.Closes[i]
}

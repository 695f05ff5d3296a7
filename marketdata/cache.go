package marketdata

import (
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

// DefaultCacheDir is used when NewCache is given an empty directory.
const DefaultCacheDir = ".market_cache"

const sourceYahoo = "yahoo"

// Fetcher downloads a close history. *Client implements it.
type Fetcher interface {
	FetchCloses(ctx context.Context, ticker string, start, end time.Time) (Series, error)
}

// Cache serves price histories from CSV files under a directory and falls
// back to a Fetcher on a miss.
type Cache struct {
	dir     string
	fetcher Fetcher
}

func NewCache(dir string, fetcher Fetcher) *Cache {
	if dir == "" {
		dir = DefaultCacheDir
	}
	return &Cache{dir: dir, fetcher: fetcher}
}

func (c *Cache) Dir() string { return c.dir }

// FileName is deterministic in its inputs. The hash keeps tickers such as
// "^GSPC" and arbitrary dates safe to use in a file name.
func FileName(source, ticker, start, end, interval string) string {
	key := fmt.Sprintf("%s_%s_%s_%s_%s", source, ticker, start, end, interval)
	sum := md5.Sum([]byte(key))
	safe := strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_").Replace(ticker)
	return fmt.Sprintf("%s_%s.csv", safe, hex.EncodeToString(sum[:]))
}

// GetPrices returns daily closes for ticker between start and end
// (YYYY-MM-DD, end exclusive). A cached file is used when present and
// readable; otherwise the data is fetched and written to the cache.
func (c *Cache) GetPrices(ctx context.Context, ticker, start, end string) (Series, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return Series{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return Series{}, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	if !from.Before(to) {
		return Series{}, fmt.Errorf("start %s must be before end %s", start, end)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return Series{}, err
	}

	path := filepath.Join(c.dir, FileName(sourceYahoo, ticker, start, end, "1d"))
	if _, err := os.Stat(path); err == nil {
		s, err := ReadFile(path)
		if err == nil {
			s.Ticker = ticker
			glog.Infof("Loaded %s from cache: %s", ticker, path)
			return s, nil
		}
		glog.Errorf("Cache load of %s failed, refetching. Error: %s", path, err)
	}

	if c.fetcher == nil {
		return Series{}, fmt.Errorf("%s is not cached and no fetcher is configured", ticker)
	}
	s, err := c.fetcher.FetchCloses(ctx, ticker, from, to)
	if err != nil {
		return Series{}, err
	}
	if err := WriteFile(path, s); err != nil {
		return Series{}, err
	}
	glog.Infof("Saved %s to cache: %s", ticker, path)
	return s, nil
}

// ReadFile parses a Date,Close CSV file.
func ReadFile(path string) (Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return Series{}, err
	}
	if header[0] != "Date" || header[1] != "Close" {
		return Series{}, fmt.Errorf("%w: unexpected header %v", ErrMalformed, header)
	}

	var s Series
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Series{}, err
		}
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return Series{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		px, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return Series{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		s.Dates = append(s.Dates, date)
		s.Closes = append(s.Closes, px)
	}
	if s.Len() == 0 {
		return Series{}, fmt.Errorf("%w: %s has no rows", ErrMalformed, path)
	}
	return s, nil
}

// WriteFile stores s as a Date,Close CSV file, replacing any existing one.
func WriteFile(path string, s Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Date", "Close"}); err != nil {
		return err
	}
	for i, d := range s.Dates {
		if err := writer.Write([]string{
			d.Format(dateLayout),
			strconv.FormatFloat(s.Closes[i], 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

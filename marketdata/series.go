package marketdata

import "time"

const dateLayout = "2006-01-02"

// Series is a daily close history in ascending date order.
type Series struct {
	Ticker string
	Dates  []time.Time
	Closes []float64
}

func (s Series) Len() int { return len(s.Closes) }

// Between returns the points dated within [start, end).
func (s Series) Between(start, end time.Time) Series {
	out := Series{Ticker: s.Ticker}
	for i, d := range s.Dates {
		if !d.Before(start) && d.Before(end) {
			out.Dates = append(out.Dates, d)
			out.Closes = append(out.Closes, s.Closes[i])
		}
	}
	return out
}

package report

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"github.com/AhmadAlkadri/quant-pricing-lab/domain"
)

// DefaultPlaces is the rounding applied by NewPriceRecord and NewGreeksRecord.
const DefaultPlaces = 6

// Record is a result rounded to a fixed number of decimal places, so JSON
// output does not carry binary floating point noise.
type Record struct {
	Method  string                     `json:"method"`
	Model   string                     `json:"model"`
	Value   *decimal.Decimal           `json:"value,omitempty"`
	StdErr  *decimal.Decimal           `json:"stderr,omitempty"`
	Greeks  map[string]decimal.Decimal `json:"greeks,omitempty"`
	Details map[string]interface{}     `json:"details,omitempty"`
}

func round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func NewPriceRecord(res domain.PriceResult, places int32) Record {
	v := round(res.Value, places)
	rec := Record{
		Method:  res.Meta.Method,
		Model:   res.Meta.Model,
		Value:   &v,
		Details: res.Meta.Details,
	}
	if res.StdErr != nil {
		se := round(*res.StdErr, places)
		rec.StdErr = &se
	}
	return rec
}

func NewGreeksRecord(res domain.GreeksResult, places int32) Record {
	rec := Record{
		Method:  res.Meta.Method,
		Model:   res.Meta.Model,
		Greeks:  make(map[string]decimal.Decimal, len(res.Values)),
		Details: res.Meta.Details,
	}
	for g, v := range res.Values {
		rec.Greeks[string(g)] = round(v, places)
	}
	return rec
}

// WriteJSON writes v indented, followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Package money is the single normalization point for backend-formatted
// prices. The stock backend stores prices in a spreadsheet and emits them
// either as JSON numbers or as comma-decimal strings ("10,50"); every value
// crossing into this app goes through ParsePrice before arithmetic.
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice converts a backend-formatted price into a float. A comma
// decimal separator is accepted and normalized to a dot.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return v, nil
}

// FormatPrice renders a value with two decimal places, dot separator.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Decimal decodes a JSON number or a comma-decimal JSON string.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*d = Decimal(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Decimal(v)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}

func (d Decimal) Float64() float64 {
	return float64(d)
}

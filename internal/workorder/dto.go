package workorder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RowNumber is a sheet row sent by clients either as a JSON number or as a numeric string.
// null, "" and absent all decode to 0, which validation reports as missing.
type RowNumber int

func (r *RowNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	var text string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*r = 0
			return nil
		}
	} else {
		text = string(data)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("row must be an integer, got %s", data)
	}
	*r = RowNumber(int(f))
	return nil
}

// Quantity accepts a JSON number or a numeric string.
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var text string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	} else {
		text = string(data)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("qty_done must be a number, got %s", data)
	}
	*q = Quantity(f)
	return nil
}

func (q Quantity) String() string {
	return strconv.FormatFloat(float64(q), 'f', -1, 64)
}

type StartDTO struct {
	Row      RowNumber `json:"row"`
	Username string    `json:"username"`
	Version  string    `json:"version,omitempty"`
}

type UpdateQuantityDTO struct {
	Row     RowNumber `json:"row"`
	QtyDone *Quantity `json:"qty_done"`
	Version string    `json:"version,omitempty"`
}

type DoneDTO struct {
	Row     RowNumber `json:"row"`
	QtyDone *Quantity `json:"qty_done,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	Version string    `json:"version,omitempty"`
}

type ListQuery struct {
	Username   string
	Department string
}

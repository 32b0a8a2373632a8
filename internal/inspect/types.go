package inspect

import (
	"strconv"
	"strings"
	"time"
)

// Inferred column type labels. They are hints, never authoritative.
const (
	TypeInt      = "int64"
	TypeFloat    = "float64"
	TypeBool     = "bool"
	TypeDatetime = "datetime64"
	TypeObject   = "object"
)

// naValues are the cell values read as missing, matching the markers
// common data tools treat as NA by default.
var naValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04",
}

// columnStats accumulates what is known about one column.
type columnStats struct {
	missing  int
	nonEmpty int
	isInt    bool
	isFloat  bool
	isBool   bool
	isDate   bool
}

func newColumnStats() *columnStats {
	return &columnStats{isInt: true, isFloat: true, isBool: true, isDate: true}
}

func (c *columnStats) observe(raw string) {
	v := strings.TrimSpace(raw)
	if naValues[v] {
		c.missing++
		return
	}
	c.nonEmpty++

	if c.isInt {
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			c.isInt = false
		}
	}
	if c.isFloat {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			c.isFloat = false
		}
	}
	if c.isBool {
		switch strings.ToLower(v) {
		case "true", "false":
		default:
			c.isBool = false
		}
	}
	if c.isDate {
		c.isDate = parsesAsDate(v)
	}
}

// label picks the narrowest type consistent with every non-missing value.
// Integer columns with missing values widen to float64 and boolean columns
// with missing values fall back to object.
func (c *columnStats) label() string {
	switch {
	case c.nonEmpty == 0:
		return TypeObject
	case c.isBool && c.missing == 0:
		return TypeBool
	case c.isInt && c.missing == 0:
		return TypeInt
	case c.isInt, c.isFloat:
		return TypeFloat
	case c.isDate:
		return TypeDatetime
	default:
		return TypeObject
	}
}

func parsesAsDate(v string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

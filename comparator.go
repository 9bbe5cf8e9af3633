package filehound

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// ============================================================================
// Comparator mini-language
// ============================================================================
//
// Size and date filters share one expression grammar:
//
//	[operator] operand [unit]
//
// where operator is one of ==, =, >, >=, <, <= (default ==) and the unit set
// depends on the specialization. Size operands scale to bytes; date operands
// scale to a duration subtracted from "now".
//
// Parse failures surface when the filter is declared, never mid-traversal.

type compareOp uint8

const (
	opEq compareOp = iota
	opGt
	opGte
	opLt
	opLte
)

// exprPattern splits "[operator]operand[unit]" with optional whitespace
// between the parts.
var exprPattern = regexp.MustCompile(`^\s*(==|=|>=|<=|>|<)?\s*(\d+(?:\.\d+)?)\s*([A-Za-z]*)\s*$`)

// parseExpr tokenizes a comparator expression into operator, numeric operand,
// and raw unit suffix.
func parseExpr(expr string) (compareOp, float64, string, error) {
	parts := exprPattern.FindStringSubmatch(expr)
	if parts == nil {
		return 0, 0, "", fmt.Errorf("invalid comparator expression %q", expr)
	}

	var op compareOp

	switch parts[1] {
	case "", "=", "==":
		op = opEq
	case ">":
		op = opGt
	case ">=":
		op = opGte
	case "<":
		op = opLt
	case "<=":
		op = opLte
	}

	operand, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid comparator operand %q: %w", parts[2], err)
	}

	return op, operand, parts[3], nil
}

// sizeComparator matches a byte count against a parsed size expression.
type sizeComparator struct {
	op    compareOp
	bytes int64
}

// sizeUnits maps the accepted size suffixes onto the 1024-based unit names
// understood by humanize. Bare numbers mean bytes.
var sizeUnits = map[string]string{
	"":   "B",
	"b":  "B",
	"k":  "KiB",
	"kb": "KiB",
	"m":  "MiB",
	"mb": "MiB",
	"g":  "GiB",
	"gb": "GiB",
	"t":  "TiB",
	"tb": "TiB",
}

func newSizeComparator(expr string) (sizeComparator, error) {
	op, operand, unit, err := parseExpr(expr)
	if err != nil {
		return sizeComparator{}, err
	}

	suffix, ok := sizeUnits[lowerASCII(unit)]
	if !ok {
		return sizeComparator{}, fmt.Errorf("invalid size unit %q in %q", unit, expr)
	}

	scaled, err := humanize.ParseBytes(strconv.FormatFloat(operand, 'f', -1, 64) + suffix)
	if err != nil {
		return sizeComparator{}, fmt.Errorf("invalid size expression %q: %w", expr, err)
	}

	return sizeComparator{op: op, bytes: int64(scaled)}, nil
}

func (c sizeComparator) match(sample int64) bool {
	switch c.op {
	case opGt:
		return sample > c.bytes
	case opGte:
		return sample >= c.bytes
	case opLt:
		return sample < c.bytes
	case opLte:
		return sample <= c.bytes
	default:
		return sample == c.bytes
	}
}

// dateComparator matches a timestamp against a parsed relative-time
// expression under age semantics: ">" means older than the threshold,
// "<" means more recent.
type dateComparator struct {
	op compareOp
	// age is the distance from "now" to the cutoff instant.
	age time.Duration
	// granularity buckets equality comparisons (a day for "2 days", an
	// hour for "3h", ...).
	granularity time.Duration
}

// dateUnits maps the accepted time suffixes onto durations. Bare numbers
// mean days.
var dateUnits = map[string]time.Duration{
	"":        24 * time.Hour,
	"d":       24 * time.Hour,
	"day":     24 * time.Hour,
	"days":    24 * time.Hour,
	"h":       time.Hour,
	"hour":    time.Hour,
	"hours":   time.Hour,
	"m":       time.Minute,
	"minute":  time.Minute,
	"minutes": time.Minute,
	"s":       time.Second,
	"second":  time.Second,
	"seconds": time.Second,
}

func newDateComparator(expr string) (dateComparator, error) {
	op, operand, unit, err := parseExpr(expr)
	if err != nil {
		return dateComparator{}, err
	}

	scale, ok := dateUnits[lowerASCII(unit)]
	if !ok {
		return dateComparator{}, fmt.Errorf("invalid time unit %q in %q", unit, expr)
	}

	return dateComparator{
		op:          op,
		age:         time.Duration(operand * float64(scale)),
		granularity: scale,
	}, nil
}

func (c dateComparator) match(sample time.Time, now time.Time) bool {
	cutoff := now.Add(-c.age)

	switch c.op {
	case opGt:
		return sample.Before(cutoff)
	case opGte:
		return !sample.After(cutoff)
	case opLt:
		return sample.After(cutoff)
	case opLte:
		return !sample.Before(cutoff)
	default:
		return sample.Truncate(c.granularity).Equal(cutoff.Truncate(c.granularity))
	}
}

// formatExprInput converts the accepted dynamic forms of a comparator
// argument (string expression or bare numeric literal) into expression text.
func formatExprInput(v any) (string, error) {
	switch n := v.(type) {
	case string:
		return n, nil
	case int:
		return strconv.Itoa(n), nil
	case int64:
		return strconv.FormatInt(n, 10), nil
	case uint64:
		return strconv.FormatUint(n, 10), nil
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported comparator argument type %T", v)
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}

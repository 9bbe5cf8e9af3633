package filehound

import (
	"testing"
	"time"
)

func Test_ParseExpr_Defaults_To_Equality_When_No_Operator(t *testing.T) {
	t.Parallel()

	op, operand, unit, err := parseExpr("1024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if op != opEq || operand != 1024 || unit != "" {
		t.Fatalf("expected (eq, 1024, \"\"), got (%v, %v, %q)", op, operand, unit)
	}
}

func Test_ParseExpr_Accepts_All_Operators(t *testing.T) {
	t.Parallel()

	cases := map[string]compareOp{
		"==5": opEq,
		"=5":  opEq,
		">5":  opGt,
		">=5": opGte,
		"<5":  opLt,
		"<=5": opLte,
	}

	for expr, want := range cases {
		op, _, _, err := parseExpr(expr)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", expr, err)
		}

		if op != want {
			t.Fatalf("%q: expected op %v, got %v", expr, want, op)
		}
	}
}

func Test_ParseExpr_Rejects_Malformed_Expressions(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"", "abc", "!5", ">>5", "5 10", "=>5"} {
		_, _, _, err := parseExpr(expr)
		if err == nil {
			t.Fatalf("%q: expected parse error", expr)
		}
	}
}

func Test_SizeComparator_Scales_Units_To_Bytes(t *testing.T) {
	t.Parallel()

	cases := map[string]int64{
		"10":    10,
		"15b":   15,
		"1k":    1024,
		"1kb":   1024,
		"2KB":   2048,
		"1m":    1024 * 1024,
		"1mb":   1024 * 1024,
		"1gb":   1024 * 1024 * 1024,
		">10kb": 10240,
	}

	for expr, want := range cases {
		cmp, err := newSizeComparator(expr)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", expr, err)
		}

		if cmp.bytes != want {
			t.Fatalf("%q: expected %d bytes, got %d", expr, want, cmp.bytes)
		}
	}
}

func Test_SizeComparator_Rejects_Unknown_Units(t *testing.T) {
	t.Parallel()

	_, err := newSizeComparator("5parsec")
	if err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func Test_SizeComparator_Applies_Operator_To_Sample(t *testing.T) {
	t.Parallel()

	cases := []struct {
		expr   string
		sample int64
		want   bool
	}{
		{"20", 20, true},
		{"==20", 20, true},
		{"20", 21, false},
		{">1024", 1025, true},
		{">1024", 1024, false},
		{">=1024", 1024, true},
		{"<15b", 14, true},
		{"<15b", 15, false},
		{"<=15", 15, true},
	}

	for _, tc := range cases {
		cmp, err := newSizeComparator(tc.expr)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.expr, err)
		}

		if got := cmp.match(tc.sample); got != tc.want {
			t.Fatalf("%q vs %d: expected %v, got %v", tc.expr, tc.sample, tc.want, got)
		}
	}
}

func Test_DateComparator_Defaults_To_Days_When_No_Unit(t *testing.T) {
	t.Parallel()

	cmp, err := newDateComparator("10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cmp.age != 10*24*time.Hour {
		t.Fatalf("expected 240h age, got %v", cmp.age)
	}

	if cmp.granularity != 24*time.Hour {
		t.Fatalf("expected day granularity, got %v", cmp.granularity)
	}
}

func Test_DateComparator_Accepts_Time_Units(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Duration{
		"2 days": 48 * time.Hour,
		"=1h":    time.Hour,
		"3m":     3 * time.Minute,
		"30s":    30 * time.Second,
	}

	for expr, want := range cases {
		cmp, err := newDateComparator(expr)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", expr, err)
		}

		if cmp.age != want {
			t.Fatalf("%q: expected %v, got %v", expr, want, cmp.age)
		}
	}
}

func Test_DateComparator_Uses_Age_Semantics(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	older, err := newDateComparator(">2 days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Three days old is older than the two-day threshold.
	if !older.match(now.Add(-3*24*time.Hour), now) {
		t.Fatal("3-day-old sample should match '>2 days'")
	}

	// One day old is not.
	if older.match(now.Add(-24*time.Hour), now) {
		t.Fatal("1-day-old sample should not match '>2 days'")
	}

	newer, err := newDateComparator("<2 days")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !newer.match(now.Add(-24*time.Hour), now) {
		t.Fatal("1-day-old sample should match '<2 days'")
	}

	if newer.match(now.Add(-3*24*time.Hour), now) {
		t.Fatal("3-day-old sample should not match '<2 days'")
	}
}

func Test_DateComparator_Equality_Buckets_By_Unit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	exact, err := newDateComparator("2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A couple of hours around the cutoff still lands in the same day bucket.
	if !exact.match(now.Add(-2*24*time.Hour), now) {
		t.Fatal("exact 2-day age should match '2'")
	}

	if !exact.match(now.Add(-2*24*time.Hour+3*time.Hour), now) {
		t.Fatal("same-day sample should match '2'")
	}

	if exact.match(now.Add(-5*24*time.Hour), now) {
		t.Fatal("5-day-old sample should not match '2'")
	}
}

func Test_FormatExprInput_Accepts_Numeric_Literals(t *testing.T) {
	t.Parallel()

	cases := map[any]string{
		20:             "20",
		int64(21):      "21",
		uint64(22):     "22",
		float64(1.5):   "1.5",
		"already-text": "already-text",
	}

	for in, want := range cases {
		got, err := formatExprInput(in)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", in, err)
		}

		if got != want {
			t.Fatalf("%v: expected %q, got %q", in, want, got)
		}
	}
}

func Test_FormatExprInput_Rejects_Unsupported_Types(t *testing.T) {
	t.Parallel()

	_, err := formatExprInput([]string{"nope"})
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

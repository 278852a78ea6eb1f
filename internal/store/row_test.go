package store

import "testing"

func TestRowFloat(t *testing.T) {
	row := Row{
		"power_w":  "150W",
		"voltage":  412.5,
		"count":    "42",
		"null_val": nil,
		"garbage":  "n/a",
		"padded":   " 7.5 ",
	}
	cases := []struct {
		key  string
		want float64
	}{
		{"power_w", 150},
		{"voltage", 412.5},
		{"count", 42},
		{"null_val", 0},
		{"garbage", 0},
		{"padded", 7.5},
		{"missing", 0},
	}
	for _, tc := range cases {
		if got := row.Float(tc.key); got != tc.want {
			t.Fatalf("Float(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestRowString(t *testing.T) {
	row := Row{
		"text":     "Pune",
		"int_json": float64(865198074539541),
		"frac":     12.5,
		"null_val": nil,
	}
	cases := []struct {
		key  string
		want string
	}{
		{"text", "Pune"},
		// JSON-числа приходят как float64, целые печатаются без мантиссы
		{"int_json", "865198074539541"},
		{"frac", "12.5"},
		{"null_val", ""},
		{"missing", ""},
	}
	for _, tc := range cases {
		if got := row.String(tc.key); got != tc.want {
			t.Fatalf("String(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestRowInt(t *testing.T) {
	row := Row{"count": 7.0, "text_count": "12"}
	if got := row.Int("count"); got != 7 {
		t.Fatalf("Int(count) = %d, want 7", got)
	}
	if got := row.Int("text_count"); got != 12 {
		t.Fatalf("Int(text_count) = %d, want 12", got)
	}
}

package epub

import (
	"errors"
	"testing"
)

func TestParseJSTConversion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1999-01-01 00:00:00", "1998-12-31T15:00:00Z"},
		{"2000-03-01 00:00:00", "2000-02-29T15:00:00Z"},
		{"2000-02-29 00:00:00", "2000-02-28T15:00:00Z"},
		{"2000-02-28 23:59:59", "2000-02-28T14:59:59Z"},
		{"1972-02-29 00:00:00", "1972-02-28T15:00:00Z"},
		{"1972-03-01 00:00:00", "1972-02-29T15:00:00Z"},
		{"1971-03-01 00:00:00", "1971-02-28T15:00:00Z"},
		{"2038-01-19 03:14:07", "2038-01-18T18:14:07Z"},
		{"2038-01-19 03:14:08", "2038-01-18T18:14:08Z"},
		{"9999-12-31 23:59:59", "9999-12-31T14:59:59Z"},
		{"2016-02-29 12:34:56", "2016-02-29T03:34:56Z"},
		{"1970-01-01 09:00:00", "1970-01-01T00:00:00Z"},
		// second 60 is tolerated at the 23:59 boundary and carried through
		{"1998-12-31 23:59:60", "1998-12-31T14:59:60Z"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJST(tt.in)
			if err != nil {
				t.Fatalf("ParseJST(%q) unexpected error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseJST(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestParseJSTRangeErrors(t *testing.T) {
	tests := []string{
		"2017-02-29 12:34:56", // not a leap year
		"1900-02-29 12:34:56", // divisible by 100, not a leap year
		"1969-02-28 12:34:56", // before 1970
		"2016-00-28 12:34:56", // month zero
		"2016-13-28 12:34:56", // month too large
		"2016-01-00 12:34:56", // day zero
		"2016-04-31 12:34:56", // day too large for month
		"2016-02-28 24:34:56", // hour too large
		"2016-02-28 12:60:56", // minute too large
		"2016-02-28 12:34:60", // second 60 outside the 23:59 boundary
		"2016-02-28 23:58:60",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseJST(in); !errors.Is(err, ErrUnexpectedRange) {
				t.Errorf("ParseJST(%q) error = %v, want ErrUnexpectedRange", in, err)
			}
		})
	}
}

func TestParseJSTFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEarlyTermination},
		{"truncated", "2016-02-28 12:34", ErrEarlyTermination},
		{"trailing garbage", "2016-02-28 12:34:56x", ErrEarlyTermination},
		{"wrong date separator", "2016/02/28 12:34:56", ErrUnexpectedChar},
		{"wrong time separator", "2016-02-28 12.34.56", ErrUnexpectedChar},
		{"missing space", "2016-02-28T12:34:56", ErrUnexpectedChar},
		{"letter in digits", "2016-02-28 12:34:5x", ErrUnexpectedChar},
		{"signed component", "2016-02-28 12:34:-5", ErrUnexpectedChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJST(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("ParseJST(%q) error = %v, want %v", tt.in, err, tt.want)
			}
		})
	}
}

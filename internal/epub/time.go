package epub

import (
	"errors"
	"fmt"
)

// Timestamp parse errors. The taxonomy is closed: parsing fails with one of
// these three and nothing else.
var (
	ErrUnexpectedChar   = errors.New("unexpected character in timestamp")
	ErrEarlyTermination = errors.New("timestamp has wrong length")
	ErrUnexpectedRange  = errors.New("timestamp component out of range")
)

// Time is a calendar timestamp held in UTC. ParseJST is the only
// constructor; the zero value is not a valid timestamp.
type Time struct {
	year   int
	month  int
	day    int
	hour   int
	minute int
	second int
}

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

// ParseJST parses a timestamp of exactly the form "YYYY-MM-DD HH:MM:SS",
// interprets it as Japan Standard Time (UTC+9) and converts it to UTC.
//
// Components are validated before conversion: year 1970-9999, month 1-12,
// day valid for the month (leap years by the 4/100/400 rule), hour 0-23,
// minute 0-59, second 0-59. As a tolerance for a boundary value the data
// source emits, second 60 is accepted when the local time is 23:59 and is
// carried through the conversion untouched.
func ParseJST(s string) (Time, error) {
	if len(s) != 19 {
		return Time{}, ErrEarlyTermination
	}
	for _, i := range [5]int{4, 7, 10, 13, 16} {
		want := byte('-')
		switch i {
		case 10:
			want = ' '
		case 13, 16:
			want = ':'
		}
		if s[i] != want {
			return Time{}, ErrUnexpectedChar
		}
	}

	year, err := atoi(s[0:4])
	if err != nil {
		return Time{}, err
	}
	month, err := atoi(s[5:7])
	if err != nil {
		return Time{}, err
	}
	day, err := atoi(s[8:10])
	if err != nil {
		return Time{}, err
	}
	hour, err := atoi(s[11:13])
	if err != nil {
		return Time{}, err
	}
	minute, err := atoi(s[14:16])
	if err != nil {
		return Time{}, err
	}
	second, err := atoi(s[17:19])
	if err != nil {
		return Time{}, err
	}

	return newTime(year, month, day, hour, minute, second)
}

// atoi converts a fixed run of ASCII digits. Unlike strconv it rejects
// signs and whitespace, which the timestamp grammar does not allow.
func atoi(s string) (int, error) {
	acc := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrUnexpectedChar
		}
		acc = acc*10 + int(s[i]-'0')
	}
	return acc, nil
}

// newTime validates local (JST) components and converts them to UTC by
// subtracting the fixed 9 hour offset with manual borrow propagation.
// The offset is below 24h, so every borrow is 0 or 1.
func newTime(year, month, day, hour, minute, second int) (Time, error) {
	if year < 1970 || year > 9999 ||
		month < 1 || month > 12 ||
		day < 1 || day > monthDays(year, month) ||
		hour < 0 || hour > 23 ||
		minute < 0 || minute > 59 ||
		second < 0 || second > maxSecond(hour, minute) {
		return Time{}, ErrUnexpectedRange
	}

	borrow := 0
	if hour >= 9 {
		hour -= 9
	} else {
		hour += 15
		borrow = 1
	}
	if day > borrow {
		day -= borrow
		borrow = 0
	} else {
		day = monthDays(year, previousMonth(month))
		borrow = 1
	}
	if month > borrow {
		month -= borrow
		borrow = 0
	} else {
		month = 12
		borrow = 1
	}
	year -= borrow

	return Time{year, month, day, hour, minute, second}, nil
}

func monthDays(year, month int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return daysInMonth[month-1]
}

func previousMonth(month int) int {
	if month == 1 {
		return 12
	}
	return month - 1
}

// second 60 is tolerated only at the 23:59 boundary.
func maxSecond(hour, minute int) int {
	if hour == 23 && minute == 59 {
		return 60
	}
	return 59
}

// String formats the timestamp as zero-padded ISO 8601 UTC,
// "YYYY-MM-DDTHH:MM:SSZ", always exactly 20 characters.
func (t Time) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ",
		t.year, t.month, t.day, t.hour, t.minute, t.second)
}

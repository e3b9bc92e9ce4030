// Package duration implements the textual elapsed-time codec used for
// persisted time entries. Durations are stored as ISO-8601 strings of the
// form PnDTnHnMnS so that rows remain readable and portable across tools.
package duration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when a value cannot be decoded as an
// ISO-8601 elapsed-time string.
var ErrInvalidFormat = errors.New("duration: invalid ISO-8601 duration")

const (
	day    = 24 * time.Hour
	minute = time.Minute
)

// Encode renders d as an ISO-8601 duration string. The zero duration encodes
// as "PT0S". Negative durations carry a leading sign, matching the TimeSpan
// serialization convention. Sub-second precision is emitted as a fractional
// seconds component with trailing zeros trimmed.
func Encode(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')

	days := d / day
	d -= days * day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / minute
	d -= minutes * minute
	seconds := d / time.Second
	nanos := d - seconds*time.Second

	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}

	if hours == 0 && minutes == 0 && seconds == 0 && nanos == 0 {
		if days == 0 {
			b.WriteString("T0S")
		}
		return b.String()
	}

	b.WriteByte('T')
	if hours > 0 {
		fmt.Fprintf(&b, "%dH", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dM", minutes)
	}
	if seconds > 0 || nanos > 0 {
		if nanos > 0 {
			frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
			fmt.Fprintf(&b, "%d.%sS", seconds, frac)
		} else {
			fmt.Fprintf(&b, "%dS", seconds)
		}
	}
	return b.String()
}

// Parse decodes an ISO-8601 duration string produced by Encode. Only the
// day/hour/minute/second components are recognised; week, month, and year
// designators are rejected because elapsed clock time never produces them.
func Parse(value string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, ErrInvalidFormat
	}

	negative := false
	if s[0] == '-' {
		negative = true
		s = s[1:]
	} else if s[0] == '+' {
		s = s[1:]
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, ErrInvalidFormat
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	sawComponent := false

	for len(s) > 0 {
		if s[0] == 'T' {
			if inTime {
				return 0, ErrInvalidFormat
			}
			inTime = true
			s = s[1:]
			continue
		}

		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
			end++
		}
		if end == 0 || end == len(s) {
			return 0, ErrInvalidFormat
		}

		number, unit := s[:end], s[end]
		s = s[end+1:]

		switch {
		case !inTime && unit == 'D':
			n, err := strconv.ParseInt(number, 10, 64)
			if err != nil {
				return 0, ErrInvalidFormat
			}
			total += time.Duration(n) * day
		case inTime && unit == 'H':
			n, err := strconv.ParseInt(number, 10, 64)
			if err != nil {
				return 0, ErrInvalidFormat
			}
			total += time.Duration(n) * time.Hour
		case inTime && unit == 'M':
			n, err := strconv.ParseInt(number, 10, 64)
			if err != nil {
				return 0, ErrInvalidFormat
			}
			total += time.Duration(n) * minute
		case inTime && unit == 'S':
			secs, err := strconv.ParseFloat(number, 64)
			if err != nil {
				return 0, ErrInvalidFormat
			}
			total += time.Duration(secs * float64(time.Second))
		default:
			return 0, ErrInvalidFormat
		}
		sawComponent = true
	}

	if !sawComponent {
		return 0, ErrInvalidFormat
	}
	if negative {
		total = -total
	}
	return total, nil
}

// Between returns the elapsed duration from clockIn to clockOut.
func Between(clockIn, clockOut time.Time) time.Duration {
	return clockOut.Sub(clockIn)
}

// Hours converts d to decimal hours, the unit used by payroll reports.
func Hours(d time.Duration) float64 {
	days := d / day
	rem := d - days*day
	hours := rem / time.Hour
	rem -= hours * time.Hour
	minutes := rem / minute
	rem -= minutes * minute
	seconds := rem.Seconds()

	return float64(days)*24 + float64(hours) + float64(minutes)/60 + seconds/3600
}

// ParseHours decodes value and converts it to decimal hours in one step.
func ParseHours(value string) (float64, error) {
	d, err := Parse(value)
	if err != nil {
		return 0, err
	}
	return Hours(d), nil
}

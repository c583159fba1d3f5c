package utils

import (
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var hhmmPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// IsHHMM reports whether s looks like "9:00" or "21:30".
func IsHHMM(s string) bool {
	return hhmmPattern.MatchString(strings.TrimSpace(s))
}

// HHMMToHours turns "18:30" into 18.5.
func HHMMToHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !IsHHMM(s) {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return float64(h) + float64(m)/60, nil
}

// HoursToHHMM turns 18.5 into "18:30".
func HoursToHHMM(v float64) string {
	h := int(math.Floor(v))
	m := int(math.Round((v - float64(h)) * 60))
	if m == 60 {
		h, m = h+1, 0
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC), nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PlaceholderEmail builds "john.smith@example.com" from "John Smith".
func PlaceholderEmail(name string) string {
	local := whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), ".")
	return local + "@example.com"
}

package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var monthKeyPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)

// ParseMonthKey validates a two-digit month key.
func ParseMonthKey(key string) (string, error) {
	if !monthKeyPattern.MatchString(key) {
		return "", ErrInvalidMonthKey
	}
	return key, nil
}

// ParseProgressValue parses a raw progress value into a non-negative finite number.
func ParseProgressValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidProgressValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidProgressValue
	}
	if err := validateProgressValue(v); err != nil {
		return 0, err
	}
	return v, nil
}

func validateProgressValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrInvalidProgressValue
	}
	return nil
}

// RecordMonth returns a copy of progress with key overwritten by value, along
// with the new year-to-date total. Re-submitting a month corrects it.
func RecordMonth(progress map[string]float64, key string, value float64) (map[string]float64, float64, error) {
	if _, err := ParseMonthKey(key); err != nil {
		return nil, 0, err
	}
	if err := validateProgressValue(value); err != nil {
		return nil, 0, err
	}

	next := copyProgress(progress)
	next[key] = value
	return next, YearToDate(next), nil
}

// ClearMonth returns a copy of progress without key and the new total.
func ClearMonth(progress map[string]float64, key string) (map[string]float64, float64, error) {
	if _, err := ParseMonthKey(key); err != nil {
		return nil, 0, err
	}
	next := copyProgress(progress)
	delete(next, key)
	return next, YearToDate(next), nil
}

// YearToDate sums every stored month value.
func YearToDate(progress map[string]float64) float64 {
	total := decimal.Zero
	for _, v := range progress {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

func copyProgress(progress map[string]float64) map[string]float64 {
	next := make(map[string]float64, len(progress)+1)
	for k, v := range progress {
		next[k] = v
	}
	return next
}

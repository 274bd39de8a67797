package analysis

import (
	"strconv"
	"strings"
	"time"

	"sheetlens/domain/dataset"
)

// typeThreshold is the fraction of non-null values that must satisfy a
// type predicate for the column to take that type.
const typeThreshold = 0.8

// legacyDateBoolPrecedence reproduces the upstream date check verbatim:
//
//	parsesAsDate && containsSlash || containsDash
//
// i.e. any dash-containing value counts as a date candidate regardless of
// whether it parses. Set to false for the parenthesized reading
// (parsesAsDate && (containsSlash || containsDash)). Kept as a constant so
// both interpretations stay testable.
const legacyDateBoolPrecedence = true

// dateLayouts are tried in order when probing text values
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// InferColumnType classifies a column from its raw cells using majority
// voting over non-null, non-empty values. Predicates are checked in
// priority order (boolean, number, date); the first to reach the 80%
// threshold wins, and columns with no usable values default to string.
func InferColumnType(values []dataset.Cell) dataset.ColumnType {
	var sampled []dataset.Cell
	for _, c := range values {
		if c.IsNull() {
			continue
		}
		if s, ok := c.Text(); ok && s == "" {
			continue
		}
		sampled = append(sampled, c)
	}
	if len(sampled) == 0 {
		return dataset.TypeString
	}

	boolCount, numCount, dateCount := 0, 0, 0
	for _, c := range sampled {
		if isBooleanish(c) {
			boolCount++
		}
		if isNumberish(c) {
			numCount++
		}
		if isDateish(c) {
			dateCount++
		}
	}

	total := float64(len(sampled))
	switch {
	case float64(boolCount)/total >= typeThreshold:
		return dataset.TypeBoolean
	case float64(numCount)/total >= typeThreshold:
		return dataset.TypeNumber
	case float64(dateCount)/total >= typeThreshold:
		return dataset.TypeDate
	default:
		return dataset.TypeString
	}
}

// ClassifyCell types a single non-null value with the same predicates the
// column vote uses. The quality engine relies on this for mixed-type
// detection, so the two must never drift apart.
func ClassifyCell(c dataset.Cell) dataset.ColumnType {
	switch {
	case isBooleanish(c):
		return dataset.TypeBoolean
	case isNumberish(c):
		return dataset.TypeNumber
	case isDateish(c):
		return dataset.TypeDate
	default:
		return dataset.TypeString
	}
}

func isBooleanish(c dataset.Cell) bool {
	if _, ok := c.Bool(); ok {
		return true
	}
	if s, ok := c.Text(); ok {
		return s == "true" || s == "false"
	}
	return false
}

func isNumberish(c dataset.Cell) bool {
	switch c.Kind() {
	case dataset.KindNumber, dataset.KindBool:
		return true
	case dataset.KindText:
		s, _ := c.Text()
		_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return err == nil
	default:
		return false
	}
}

func isDateish(c dataset.Cell) bool {
	if _, ok := c.Time(); ok {
		return true
	}
	s, ok := c.Text()
	if !ok {
		return false
	}
	parses := parsesAsDate(s)
	hasSlash := strings.Contains(s, "/")
	hasDash := strings.Contains(s, "-")
	if legacyDateBoolPrecedence {
		return parses && hasSlash || hasDash
	}
	return parses && (hasSlash || hasDash)
}

func parsesAsDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

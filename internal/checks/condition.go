package checks

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxRatio is the threshold used by the ratio condition unless told otherwise
const DefaultMaxRatio = 0.0

// ConditionCategory is the severity attached to a condition outcome
type ConditionCategory int

const (
	CategoryPass ConditionCategory = iota
	CategoryWarn
	CategoryFail
	CategoryError
)

func (c ConditionCategory) String() string {
	switch c {
	case CategoryPass:
		return "pass"
	case CategoryWarn:
		return "warn"
	case CategoryFail:
		return "fail"
	case CategoryError:
		return "error"
	}
	return "unknown"
}

// ConditionResult is the verdict of a single condition
type ConditionResult struct {
	Name     string
	IsPass   bool
	Category ConditionCategory
	Details  string
}

// Condition is a named rule evaluated against a CheckResult
type Condition struct {
	Name     string
	Evaluate func(CheckResult) (bool, ConditionCategory, string)
}

// AddConditionRatioLessOrEqual requires the duplicate ratio to stay at or
// below maxRatio. A breach is reported as a warning.
func (dd *DataDuplicates) AddConditionRatioLessOrEqual(maxRatio float64) *DataDuplicates {
	dd.conditions = append(dd.conditions, Condition{
		Name: fmt.Sprintf("Duplicate data ratio is less or equal to %s", formatPercent(maxRatio, 2)),
		Evaluate: func(result CheckResult) (bool, ConditionCategory, string) {
			details := fmt.Sprintf("Found %s duplicate data", formatPercent(result.Value, 0))
			if result.Value <= maxRatio {
				return true, CategoryPass, details
			}
			return false, CategoryWarn, details
		},
	})
	return dd
}

// Conditions returns the conditions attached to the check
func (dd *DataDuplicates) Conditions() []Condition {
	return dd.conditions
}

// ConditionsDecision evaluates every attached condition against result
func (dd *DataDuplicates) ConditionsDecision(result CheckResult) []ConditionResult {
	results := make([]ConditionResult, 0, len(dd.conditions))
	for _, cond := range dd.conditions {
		pass, category, details := cond.Evaluate(result)
		results = append(results, ConditionResult{
			Name:     cond.Name,
			IsPass:   pass,
			Category: category,
			Details:  details,
		})
	}
	return results
}

// formatPercent renders ratio as a percentage rounded to decimals places,
// without trailing zeros
func formatPercent(ratio float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	pct := math.Round(ratio*100*scale) / scale
	s := strconv.FormatFloat(pct, 'f', decimals, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s + "%"
}

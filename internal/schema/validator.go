package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/i9-energia/solar-estimator/internal/locale"
)

// ValidateRow validates each cell of a row against type and range constraints.
// Row keys are canonical column keys; rowNum is the spreadsheet line number.
func ValidateRow(row map[string]string, schema *TableSchema, rowNum int) (errors []string) {
	for _, fieldName := range schema.Columns {
		fieldDef := schema.Fields[fieldName]
		value := strings.TrimSpace(row[fieldName])

		if value == "" {
			if fieldDef.Required {
				errors = append(errors, fmt.Sprintf("%s row %d: required field '%s' is empty", schema.Name, rowNum, fieldName))
			}
			continue
		}

		if err := validateFieldValue(fieldName, value, fieldDef, rowNum); err != nil {
			errors = append(errors, fmt.Sprintf("%s %s", schema.Name, err.Error()))
		}
	}

	return errors
}

// Number parses a numeric cell, accepting a comma decimal separator.
func Number(value string) (float64, error) {
	return locale.ParseNumber(value)
}

// validateFieldValue validates a single cell against its constraints
func validateFieldValue(fieldName, value string, fieldDef FieldDef, rowNum int) error {
	switch fieldDef.Type {
	case TypeIdentifier:
		return validateIdentifier(fieldName, value, rowNum)
	case TypeText:
		return nil
	case TypePositive:
		return validatePositive(fieldName, value, rowNum)
	case TypeNonNegative:
		return validateBounded(fieldName, value, bound(0), fieldDef.Max, rowNum)
	case TypePercentage:
		return validatePercentage(fieldName, value, rowNum)
	case TypeInteger:
		return validateInteger(fieldName, value, fieldDef, rowNum)
	case TypeCoordinate:
		return validateBounded(fieldName, value, fieldDef.Min, fieldDef.Max, rowNum)
	default:
		return fmt.Errorf("row %d: unknown field type '%s' for field '%s'", rowNum, fieldDef.Type, fieldName)
	}
}

func parse(fieldName, value string, rowNum int) (float64, error) {
	v, err := Number(value)
	if err != nil {
		return 0, fmt.Errorf("row %d: field '%s' must be a valid number, got '%s'", rowNum, fieldName, value)
	}
	return v, nil
}

// validatePositive validates fields that must be strictly greater than zero
func validatePositive(fieldName, value string, rowNum int) error {
	v, err := parse(fieldName, value, rowNum)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("row %d: field '%s' must be greater than 0, got %v", rowNum, fieldName, v)
	}
	return nil
}

// validatePercentage validates percentage fields in (0, 100]
func validatePercentage(fieldName, value string, rowNum int) error {
	v, err := parse(fieldName, value, rowNum)
	if err != nil {
		return err
	}
	if v <= 0 || v > 100 {
		return fmt.Errorf("row %d: field '%s' must be greater than 0 and at most 100, got %v", rowNum, fieldName, v)
	}
	return nil
}

// validateInteger validates whole-number fields with optional min/max bounds
func validateInteger(fieldName, value string, fieldDef FieldDef, rowNum int) error {
	v, err := parse(fieldName, value, rowNum)
	if err != nil {
		return err
	}
	if v != math.Trunc(v) {
		return fmt.Errorf("row %d: field '%s' must be a whole number, got %v", rowNum, fieldName, v)
	}
	return checkBounds(fieldName, v, fieldDef.Min, fieldDef.Max, rowNum)
}

// validateBounded validates numeric fields with optional min/max bounds
func validateBounded(fieldName, value string, minVal, maxVal *float64, rowNum int) error {
	v, err := parse(fieldName, value, rowNum)
	if err != nil {
		return err
	}
	return checkBounds(fieldName, v, minVal, maxVal, rowNum)
}

func checkBounds(fieldName string, v float64, minVal, maxVal *float64, rowNum int) error {
	if minVal != nil && v < *minVal {
		return fmt.Errorf("row %d: field '%s' must be >= %v, got %v", rowNum, fieldName, *minVal, v)
	}
	if maxVal != nil && v > *maxVal {
		return fmt.Errorf("row %d: field '%s' must be <= %v, got %v", rowNum, fieldName, *maxVal, v)
	}
	return nil
}

// validateIdentifier validates identifier fields (non-empty strings)
func validateIdentifier(fieldName, value string, rowNum int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("row %d: field '%s' (identifier) cannot be empty", rowNum, fieldName)
	}
	return nil
}

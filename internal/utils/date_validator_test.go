package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDateValidator_ValidateAndConvert(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		valid    bool
		standard string
		format   DateFormat
	}{
		{name: "iso date", input: "2000-01-01", valid: true, standard: "2000-01-01", format: FormatISO8601Date},
		{name: "iso datetime", input: "2000-01-01T10:00:00Z", valid: true, standard: "2000-01-01", format: FormatISO8601},
		{name: "us date", input: "07/04/1990", valid: true, standard: "1990-07-04", format: FormatUSDate},
		{name: "us short date", input: "7/4/1990", valid: true, standard: "1990-07-04", format: FormatUSShortDate},
		{name: "us dash date", input: "07-04-1990", valid: true, standard: "1990-07-04", format: FormatDashUSDate},
		{name: "month name", input: "July 4, 1990", valid: true, standard: "1990-07-04", format: FormatMonthDay},
		{name: "short month", input: "Jul 4, 1990", valid: true, standard: "1990-07-04", format: FormatShortMonth},
		{name: "padded", input: "  2000-01-01 ", valid: true, standard: "2000-01-01", format: FormatISO8601Date},
		{name: "empty", input: "", valid: false},
		{name: "garbage", input: "yesterday", valid: false},
		{name: "impossible month", input: "13/01/1990", valid: false},
	}

	validator := NewDateValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateAndConvert(tt.input)
			assert.Equal(t, tt.valid, result.IsValid)
			assert.Equal(t, tt.input, result.OriginalValue)
			if tt.valid {
				assert.Equal(t, tt.standard, result.StandardFormat)
				assert.Equal(t, tt.format, result.DetectedFormat)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "1990-07-04", NormalizeDate("07/04/1990"))
	assert.Equal(t, "not a date", NormalizeDate("not a date"))
	assert.Equal(t, "", NormalizeDate(""))
}

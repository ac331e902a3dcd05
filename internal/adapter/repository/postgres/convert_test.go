package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "0.01", "-12.34", "99999999999999999.99", "1000"} {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)
			assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d))
		})
	}

	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestTextConversion(t *testing.T) {
	assert.Nil(t, textToStringPtr(stringPtrToText(nil)))

	s := "rent"
	got := textToStringPtr(stringPtrToText(&s))
	if assert.NotNil(t, got) {
		assert.Equal(t, "rent", *got)
	}
}

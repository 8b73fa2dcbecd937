package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		code   Currency
		valid  bool
		symbol string
	}{
		{ZAR, true, "R"},
		{USD, true, "$"},
		{EUR, true, "€"},
		{GBP, true, "£"},
		{"CNY", false, "CNY"},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.code.IsValid())
			assert.Equal(t, tt.symbol, tt.code.Symbol())
		})
	}
	assert.Equal(t, ZAR, DefaultCurrency)
}

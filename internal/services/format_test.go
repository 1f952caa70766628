package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "178,437", FormatCount(178437))

	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$1,234.50", FormatCurrency(1234.5))

	assert.Equal(t, "$1,235", FormatWholeCurrency(1234.6))
	assert.Equal(t, "$50", FormatWholeCurrency(50))
}

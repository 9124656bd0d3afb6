package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

func TestFilterByText(t *testing.T) {
	portfolios := []*domain.Portfolio{
		{Name: "Retirement", Description: "Long term index funds"},
		{Name: "Crypto", Description: "High risk"},
		nil,
		{Name: "College fund"},
	}

	assert.Len(t, FilterByText(portfolios, ""), 3)
	assert.Len(t, FilterByText(portfolios, "FUND"), 2)
	assert.Len(t, FilterByText(portfolios, "  crypto "), 1)
	assert.Empty(t, FilterByText(portfolios, "real estate"))
	assert.Len(t, portfolios, 4, "input untouched")
}

package portfolio

import (
	"strings"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// FilterByText keeps the portfolios whose name or description contains term, ignoring case.
// An empty term keeps everything. The input slice is not modified.
func FilterByText(portfolios []*domain.Portfolio, term string) []*domain.Portfolio {
	term = strings.ToLower(strings.TrimSpace(term))

	filtered := make([]*domain.Portfolio, 0, len(portfolios))
	for _, p := range portfolios {
		if p == nil {
			continue
		}
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

package portfolio

import (
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// DefaultRecentTransactionsLimit is used when the caller asks for a non-positive limit
const DefaultRecentTransactionsLimit = 5

// TransactionFeedItem is a transaction annotated with the portfolio and asset it belongs to
type TransactionFeedItem struct {
	domain.Transaction
	PortfolioID   uuid.UUID
	PortfolioName string
	HoldingID     uuid.UUID
	AssetName     string
	AssetSymbol   string
	AssetType     domain.AssetType
}

// RecentTransactions flattens every transaction of every holding of the given portfolios and
// returns the newest ones first, at most limit of them.
// Transactions sharing a date keep the order in which they were encountered.
func RecentTransactions(portfolios []*domain.Portfolio, limit int) []TransactionFeedItem {
	if limit <= 0 {
		limit = DefaultRecentTransactionsLimit
	}

	feed := make([]TransactionFeedItem, 0)
	for _, p := range portfolios {
		if p == nil {
			continue
		}
		for _, h := range p.Holdings {
			for _, tx := range h.Transactions {
				item := TransactionFeedItem{
					Transaction:   tx,
					PortfolioID:   p.ID,
					PortfolioName: p.Name,
					HoldingID:     h.ID,
				}
				if h.Asset != nil {
					item.AssetName = h.Asset.Name
					item.AssetSymbol = h.Asset.Symbol
					item.AssetType = h.Asset.Type
				}
				feed = append(feed, item)
			}
		}
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].TransactionDate.After(feed[j].TransactionDate)
	})

	if len(feed) > limit {
		feed = feed[:limit]
	}

	return feed
}

package portfolio

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

func tx(txType domain.TransactionType, day int) domain.Transaction {
	return domain.Transaction{
		ID:              uuid.New(),
		Type:            txType,
		Quantity:        d("1"),
		Price:           d("10"),
		TransactionDate: time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecentTransactions_SortedNewestFirstAcrossPortfolios(t *testing.T) {
	acme := holding(asset("Acme", "ACME", domain.AssetTypeStock, "10"), "1", "10")
	acme.Transactions = []domain.Transaction{tx(domain.TransactionTypeBuy, 1), tx(domain.TransactionTypeSell, 9)}

	coin := holding(asset("Coin", "CN", domain.AssetTypeCryptocurrency, "10"), "1", "10")
	coin.Transactions = []domain.Transaction{tx(domain.TransactionTypeBuy, 5), tx(domain.TransactionTypeBuy, 12)}

	growth := &domain.Portfolio{ID: uuid.New(), Name: "Growth", Holdings: []domain.Holding{acme}}
	crypto := &domain.Portfolio{ID: uuid.New(), Name: "Crypto", Holdings: []domain.Holding{coin}}

	feed := RecentTransactions([]*domain.Portfolio{growth, nil, crypto}, 10)

	require.Len(t, feed, 4)
	for i := 1; i < len(feed); i++ {
		assert.True(t, feed[i-1].TransactionDate.After(feed[i].TransactionDate))
	}

	assert.Equal(t, 12, feed[0].TransactionDate.Day())
	assert.Equal(t, "Crypto", feed[0].PortfolioName)
	assert.Equal(t, crypto.ID, feed[0].PortfolioID)
	assert.Equal(t, "Coin", feed[0].AssetName)
	assert.Equal(t, "CN", feed[0].AssetSymbol)
	assert.Equal(t, coin.ID, feed[0].HoldingID)

	assert.Equal(t, "Growth", feed[1].PortfolioName)
	assert.Equal(t, domain.TransactionTypeSell, feed[1].Type)
}

func TestRecentTransactions_Limit(t *testing.T) {
	h := holding(asset("Acme", "ACME", domain.AssetTypeStock, "10"), "1", "10")
	for day := 1; day <= 8; day++ {
		h.Transactions = append(h.Transactions, tx(domain.TransactionTypeBuy, day))
	}
	p := &domain.Portfolio{ID: uuid.New(), Name: "Growth", Holdings: []domain.Holding{h}}

	assert.Len(t, RecentTransactions([]*domain.Portfolio{p}, 3), 3)
	assert.Len(t, RecentTransactions([]*domain.Portfolio{p}, 0), DefaultRecentTransactionsLimit)
	assert.Len(t, RecentTransactions([]*domain.Portfolio{p}, -1), DefaultRecentTransactionsLimit)

	feed := RecentTransactions([]*domain.Portfolio{p}, 3)
	assert.Equal(t, 8, feed[0].TransactionDate.Day())
	assert.Equal(t, 6, feed[2].TransactionDate.Day())
}

func TestRecentTransactions_TiesKeepInputOrder(t *testing.T) {
	first := tx(domain.TransactionTypeBuy, 3)
	second := tx(domain.TransactionTypeSell, 3)

	h := holding(asset("Acme", "ACME", domain.AssetTypeStock, "10"), "1", "10")
	h.Transactions = []domain.Transaction{first, second}
	p := &domain.Portfolio{ID: uuid.New(), Holdings: []domain.Holding{h}}

	feed := RecentTransactions([]*domain.Portfolio{p}, 5)

	require.Len(t, feed, 2)
	assert.Equal(t, first.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
}

func TestRecentTransactions_EmptyInputs(t *testing.T) {
	assert.Empty(t, RecentTransactions(nil, 5))
	assert.NotNil(t, RecentTransactions(nil, 5))

	noAsset := holding(nil, "1", "10")
	noAsset.Transactions = []domain.Transaction{tx(domain.TransactionTypeBuy, 2)}
	p := &domain.Portfolio{ID: uuid.New(), Name: "Legacy", Holdings: []domain.Holding{noAsset}}

	feed := RecentTransactions([]*domain.Portfolio{p}, 5)
	require.Len(t, feed, 1)
	assert.Equal(t, "", feed[0].AssetName)
	assert.Equal(t, "Legacy", feed[0].PortfolioName)
}

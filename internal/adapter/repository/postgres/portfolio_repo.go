package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simaogato/investtrack-backend/internal/domain"
)

// portfolioRepository implements domain.PortfolioRepository
type portfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

// List retrieves all portfolios with their holdings, assets and transactions, ordered by name
func (r *portfolioRepository) List(ctx context.Context) ([]*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		ORDER BY name, created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	portfolios := make([]*domain.Portfolio, 0)
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}

	if err := r.loadHoldings(ctx, portfolios, ""); err != nil {
		return nil, err
	}

	return portfolios, nil
}

// GetByID retrieves one portfolio with its holdings, assets and transactions
func (r *portfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	query := `
		SELECT id, name, description, created_at
		FROM portfolios
		WHERE id = $1
	`

	var p domain.Portfolio
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("portfolio %s not found: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio by ID: %w", err)
	}

	portfolios := []*domain.Portfolio{&p}
	if err := r.loadHoldings(ctx, portfolios, "WHERE h.portfolio_id = $1", id); err != nil {
		return nil, err
	}

	return &p, nil
}

// loadHoldings attaches holdings (with their asset) and then their transactions to portfolios.
// filter restricts both queries on the holdings table aliased as h.
func (r *portfolioRepository) loadHoldings(ctx context.Context, portfolios []*domain.Portfolio, filter string, args ...interface{}) error {
	if len(portfolios) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Portfolio, len(portfolios))
	for _, p := range portfolios {
		p.Holdings = make([]domain.Holding, 0)
		byID[p.ID] = p
	}

	holdingsQuery := `
		SELECT h.id, h.portfolio_id, h.quantity, h.purchase_price, h.initial_amount, h.purchase_date,
		       a.id, a.asset_type, a.name, a.symbol, a.current_price
		FROM holdings h
		LEFT JOIN assets a ON a.id = h.asset_id
		` + filter + `
		ORDER BY h.purchase_date, h.id
	`

	rows, err := r.db.QueryContext(ctx, holdingsQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		portfolioID, h, err := scanHolding(rows)
		if err != nil {
			return err
		}
		if p, ok := byID[portfolioID]; ok {
			p.Holdings = append(p.Holdings, h)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating holdings: %w", err)
	}

	// Index holdings only once every slice has stopped growing
	type position struct {
		portfolio *domain.Portfolio
		index     int
	}
	holdings := make(map[uuid.UUID]position)
	for _, p := range portfolios {
		for i := range p.Holdings {
			holdings[p.Holdings[i].ID] = position{portfolio: p, index: i}
		}
	}

	txQuery := `
		SELECT t.id, t.holding_id, t.transaction_type, t.quantity, t.price, t.transaction_date
		FROM holding_transactions t
		JOIN holdings h ON h.id = t.holding_id
		` + filter + `
		ORDER BY t.transaction_date, t.id
	`

	txRows, err := r.db.QueryContext(ctx, txQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to list holding transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var tx domain.Transaction
		var holdingID uuid.UUID
		var txType, quantityStr, priceStr string

		if err := txRows.Scan(&tx.ID, &holdingID, &txType, &quantityStr, &priceStr, &tx.TransactionDate); err != nil {
			return fmt.Errorf("failed to scan holding transaction: %w", err)
		}

		tx.Type = domain.TransactionType(txType)
		if tx.Quantity, err = parseDecimal(quantityStr, "transaction quantity"); err != nil {
			return err
		}
		if tx.Price, err = parseDecimal(priceStr, "transaction price"); err != nil {
			return err
		}

		if pos, ok := holdings[holdingID]; ok {
			h := &pos.portfolio.Holdings[pos.index]
			h.Transactions = append(h.Transactions, tx)
		}
	}
	if err := txRows.Err(); err != nil {
		return fmt.Errorf("error iterating holding transactions: %w", err)
	}

	return nil
}

// scanHolding reads one row of the holdings query. A holding whose asset row is gone keeps a
// nil Asset so the aggregator can count it as malformed.
func scanHolding(row scanner) (uuid.UUID, domain.Holding, error) {
	var h domain.Holding
	var portfolioID uuid.UUID
	var quantityStr, purchasePriceStr, initialAmountStr string
	var assetID uuid.NullUUID
	var assetType, assetName, assetSymbol, assetPrice sql.NullString

	err := row.Scan(
		&h.ID,
		&portfolioID,
		&quantityStr,
		&purchasePriceStr,
		&initialAmountStr,
		&h.PurchaseDate,
		&assetID,
		&assetType,
		&assetName,
		&assetSymbol,
		&assetPrice,
	)
	if err != nil {
		return uuid.Nil, h, fmt.Errorf("failed to scan holding: %w", err)
	}

	if h.Quantity, err = parseDecimal(quantityStr, "quantity"); err != nil {
		return uuid.Nil, h, err
	}
	if h.PurchasePrice, err = parseDecimal(purchasePriceStr, "purchase_price"); err != nil {
		return uuid.Nil, h, err
	}
	if h.InitialAmount, err = parseDecimal(initialAmountStr, "initial_amount"); err != nil {
		return uuid.Nil, h, err
	}

	if assetID.Valid {
		asset := &domain.Asset{
			ID:     assetID.UUID,
			Type:   domain.AssetType(assetType.String),
			Name:   assetName.String,
			Symbol: assetSymbol.String,
		}
		if asset.CurrentPrice, err = parseDecimal(assetPrice.String, "current_price"); err != nil {
			return uuid.Nil, h, err
		}
		h.Asset = asset
	}

	return portfolioID, h, nil
}

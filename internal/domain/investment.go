package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the asset class of a priced asset
type AssetType string

const (
	AssetTypeStock          AssetType = "STOCK"
	AssetTypeBond           AssetType = "BOND"
	AssetTypeETF            AssetType = "ETF"
	AssetTypeMutualFund     AssetType = "MUTUAL_FUND"
	AssetTypeCryptocurrency AssetType = "CRYPTOCURRENCY"
	AssetTypeRealEstate     AssetType = "REAL_ESTATE"
	AssetTypeCommodity      AssetType = "COMMODITY"
	AssetTypeCash           AssetType = "CASH"
	AssetTypeOther          AssetType = "OTHER"
)

// AssetTypes lists every known asset class
var AssetTypes = []AssetType{
	AssetTypeStock,
	AssetTypeBond,
	AssetTypeETF,
	AssetTypeMutualFund,
	AssetTypeCryptocurrency,
	AssetTypeRealEstate,
	AssetTypeCommodity,
	AssetTypeCash,
	AssetTypeOther,
}

// Valid reports whether t is one of the known asset classes
func (t AssetType) Valid() bool {
	for _, known := range AssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DisplayName turns "MUTUAL_FUND" into "Mutual Fund"
func (t AssetType) DisplayName() string {
	if t == "" {
		return "Unknown"
	}
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = w[:1] + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Asset is a priced instrument referenced by holdings
type Asset struct {
	ID           uuid.UUID
	Type         AssetType
	CurrentPrice decimal.Decimal
	Name         string
	Symbol       string
}

// Holding is a position in one asset within a portfolio.
// InitialAmount is the capital committed at creation and is never derived from Transactions.
type Holding struct {
	ID            uuid.UUID
	Asset         *Asset // nil when the record arrived without its asset
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	InitialAmount decimal.Decimal
	PurchaseDate  time.Time
	Transactions  []Transaction
}

// Validate reports ErrMalformedHolding when the holding cannot be valued
func (h *Holding) Validate() error {
	if h.Asset == nil {
		return ErrMalformedHolding
	}
	if h.Quantity.IsNegative() || h.Asset.CurrentPrice.IsNegative() {
		return ErrMalformedHolding
	}
	return nil
}

// Portfolio is a named collection of holdings owned by the remote service
type Portfolio struct {
	ID          uuid.UUID
	Name        string
	Description string
	Holdings    []Holding
	CreatedAt   time.Time
}

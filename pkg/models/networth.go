package models

import "time"

// Net worth item types.
const (
	ItemTypeAsset     = "Asset"
	ItemTypeLiability = "Liability"
)

// NetWorthItem is a single asset or liability tracked for the net worth
// summary.
type NetWorthItem struct {
	ID        int64
	ItemType  string
	Name      string
	Category  string
	Amount    float64
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAsset reports whether the item counts toward assets.
func (n *NetWorthItem) IsAsset() bool {
	return n.ItemType == ItemTypeAsset
}

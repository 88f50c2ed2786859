package model

const (
	DefaultProductCategory = "Gowns"
	DefaultProductUnit     = "Pieces"
	DefaultMinimumStock    = 5
)

// ProductKey identifies a product by owner and normalised name.
type ProductKey struct {
	OwnerID string
	Name    string
}

func KeyOf(ownerID, name string) ProductKey {
	return ProductKey{OwnerID: ownerID, Name: NameKey(name)}
}

type Product struct {
	BaseModel
	OwnerID      string `db:"owner_id" json:"owner_id"`
	Name         string `db:"name" json:"name"`
	NameKey      string `db:"name_key" json:"-"`
	ProductCode  string `db:"product_code" json:"product_code"`
	Category     string `db:"category" json:"category"`
	Unit         string `db:"unit" json:"unit"`
	OpeningStock int    `db:"opening_stock" json:"opening_stock"`
	CurrentStock int    `db:"current_stock" json:"current_stock"`
	// LedgerBalance is opening + IN - OUT without clamping; CurrentStock is
	// its non-negative projection.
	LedgerBalance int    `db:"ledger_balance" json:"ledger_balance"`
	MinimumStock  int    `db:"minimum_stock" json:"minimum_stock"`
	Location      string `db:"location" json:"location"`
	Notes         string `db:"notes" json:"notes"`
}

func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}

// SetLedger moves the running balance and derives the visible stock from it.
func (p *Product) SetLedger(balance int) {
	p.LedgerBalance = balance
	p.CurrentStock = max(0, balance)
}

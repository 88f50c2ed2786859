package dto

type Entity string

const (
	EntityPurchases Entity = "purchases"
	EntitySales     Entity = "sales"
	EntityAssets    Entity = "assets"
)

// RowError points at a spreadsheet row; Row counts the header as row 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Result struct {
	SuccessCount int        `json:"successCount"`
	ErrorCount   int        `json:"errorCount"`
	Errors       []RowError `json:"errors"`
	Preview      []RowError `json:"preview"`
	Warnings     []RowError `json:"warnings,omitempty"`
}

// Row is one data row keyed by lower-cased header name.
type Row map[string]string

package domain

// FinancialRecord is the result of joining one order-result row with at most
// one matched historical requisition row. There is exactly one record per
// distinct normalized order code; duplicates on the order-result side are
// dropped keeping the first occurrence.
type FinancialRecord struct {
	OrderCode     string  `json:"order_code"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	PurchaseType  string  `json:"purchase_type,omitempty"`
	Unit          string  `json:"unit,omitempty"`
	FinancingType string  `json:"financing_type,omitempty"`
	RequisitionID string  `json:"requisition_id,omitempty"`
	Title         string  `json:"title,omitempty"`
	Matched       bool    `json:"matched"`
}

// KPISet aggregates the reconciled amounts of one batch.
// Effectiveness is conforming/valid as a percentage, 0 when valid is 0.
type KPISet struct {
	Gross         float64 `json:"gross"`
	Valid         float64 `json:"valid"`
	Conforming    float64 `json:"conforming"`
	Effectiveness float64 `json:"effectiveness"`
}

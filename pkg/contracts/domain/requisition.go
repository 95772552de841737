package domain

// Canonical purchase procedure types used by the classification decision
// tables. Incoming datasets may carry legacy aliases; those are normalized
// before classification.
const (
	TypeCompraAgil          = "Compra Ágil"
	TypeConvenioMarco       = "Convenio Marco"
	TypeTratoDirecto        = "Trato Directo"
	TypeLicitacion          = "Licitación"
	TypeConvenioSuministros = "Convenio de Suministros Vigentes"
)

// Requisition is one purchasing request materialized from a raw dataset row.
// ID is the normalized requisition number; empty means the source cell had
// no usable identifier.
type Requisition struct {
	ID            string `json:"id"`
	PurchaseType  string `json:"purchase_type"`
	StatusRaw     string `json:"status_raw"`
	FinancingType string `json:"financing_type,omitempty"`
	Title         string `json:"title,omitempty"`
	Unit          string `json:"unit,omitempty"`
	Buyer         string `json:"buyer,omitempty"`
}

// Classification is the outcome of the decision table for one requisition.
type Classification int

const (
	Unclassified Classification = iota
	Processed
	InProcess
)

// String returns the wire representation of the classification.
func (c Classification) String() string {
	switch c {
	case Processed:
		return "processed"
	case InProcess:
		return "in_process"
	default:
		return "unclassified"
	}
}

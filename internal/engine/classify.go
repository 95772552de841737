package engine

import (
	"strings"

	"ocpulse/internal/dataset"
	"ocpulse/pkg/contracts/domain"
)

// purchaseTypeAliases maps legacy procedure names onto the canonical ones
// the decision tables know.
var purchaseTypeAliases = map[string]string{
	"Convenio de Insumos":            domain.TypeConvenioSuministros,
	"Trato Directo con Cotizaciones": domain.TypeTratoDirecto,
}

// NormalizePurchaseType resolves legacy purchase-type aliases.
func NormalizePurchaseType(t string) string {
	t = strings.TrimSpace(t)
	if canonical, ok := purchaseTypeAliases[t]; ok {
		return canonical
	}
	return t
}

// Classify applies the purchase-type decision tables to one requisition.
// The processed table is consulted first; in-process only when it did not
// hold, so a requisition is never both. Anything neither table accepts is
// Unclassified.
func Classify(purchaseType, status, id string, precompra IDSet) domain.Classification {
	purchaseType = NormalizePurchaseType(purchaseType)
	if isProcessed(purchaseType, status) {
		return domain.Processed
	}
	if isInProcess(purchaseType, status, id, precompra) {
		return domain.InProcess
	}
	return domain.Unclassified
}

func isProcessed(purchaseType, status string) bool {
	s := strings.TrimSpace(status)
	lower := strings.ToLower(s)
	if s == "" || lower == "nan" {
		return false
	}
	upper := strings.ToUpper(s)
	switch purchaseType {
	case domain.TypeCompraAgil:
		return strings.Contains(upper, "AG")
	case domain.TypeConvenioMarco:
		return strings.Contains(upper, "CM") || strings.Contains(upper, "AG")
	case domain.TypeTratoDirecto:
		return strings.Contains(upper, "TD") || strings.Contains(upper, "LEY")
	case domain.TypeLicitacion, domain.TypeConvenioSuministros:
		return lower != "xx" && !strings.HasPrefix(lower, "2332-xx-")
	}
	return false
}

func isInProcess(purchaseType, status, id string, precompra IDSet) bool {
	s := strings.TrimSpace(status)
	lower := strings.ToLower(s)
	blank := s == "" || lower == "nan"
	switch purchaseType {
	case domain.TypeCompraAgil:
		if blank {
			return true
		}
		// A quotation already committed through the pre-purchase step is no
		// longer "in process" for this batch.
		return strings.Contains(strings.ToUpper(s), "COT") && !precompra.Contains(id)
	case domain.TypeConvenioMarco, domain.TypeTratoDirecto:
		return blank || strings.HasPrefix(lower, "2332-xx-")
	case domain.TypeLicitacion, domain.TypeConvenioSuministros:
		return blank || lower == "xx" || strings.HasPrefix(lower, "2332-xx-")
	}
	return false
}

// MaterializeRequisition builds the normalized requisition entity for one
// dataset row using the detected field map. The id is normalized and the
// purchase type resolved to its canonical name; the requisition is immutable
// from here on.
func MaterializeRequisition(ds *dataset.Dataset, fm FieldMap, row int) domain.Requisition {
	req := domain.Requisition{
		ID:           NormalizeID(ds.Cell(row, fm.RequisitionNumber)),
		PurchaseType: NormalizePurchaseType(ds.Cell(row, fm.PurchaseType)),
		StatusRaw:    strings.TrimSpace(ds.Cell(row, fm.OrderStatus)),
	}
	if fm.Title != "" {
		req.Title = strings.TrimSpace(ds.Cell(row, fm.Title))
	}
	if fm.Unit != "" {
		req.Unit = strings.TrimSpace(ds.Cell(row, fm.Unit))
	}
	if fm.Buyer != "" {
		req.Buyer = strings.TrimSpace(ds.Cell(row, fm.Buyer))
	}
	if fm.HasFinancing() {
		req.FinancingType = strings.TrimSpace(ds.Cell(row, fm.FinancingType))
	}
	return req
}

// ClassificationOutcome is the engine-level result of one classification
// batch, before persistence.
type ClassificationOutcome struct {
	Processed        []domain.Requisition
	InProcess        []domain.Requisition
	Unclassified     []domain.Requisition
	GrossTotal       int
	CancelledRemoved int
	Efficiency       float64
	Fields           FieldMap
	Diagnostics      Diagnostics
}

// ClassifyDataset runs the full classification pass: detect columns, build
// the reference sets, drop cancelled requisitions, and label every survivor
// via the decision tables. The error return is fatal-to-batch (a mandatory
// column could not be detected); everything advisory lands in Diagnostics.
func ClassifyDataset(experto, cancelados, precompra *dataset.Dataset) (*ClassificationOutcome, error) {
	fm := DetectColumns(experto.Headers)
	if err := fm.RequireClassificationFields(); err != nil {
		return nil, err
	}

	out := &ClassificationOutcome{Fields: fm, GrossTotal: experto.Len()}
	out.Diagnostics.Infof("detected columns: number=%q type=%q status=%q",
		fm.RequisitionNumber, fm.PurchaseType, fm.OrderStatus)
	if !fm.HasFinancing() {
		out.Diagnostics.Infof("no financing column detected; financing omitted from outputs")
	}

	var cancelled IDSet
	if cancelados != nil {
		cancelled = BuildIDSet(cancelados.FirstColumn())
	}
	var precompraIDs IDSet
	if precompra != nil {
		precompraIDs = BuildIDSet(precompra.FirstColumn())
	}

	reqs := make([]domain.Requisition, 0, experto.Len())
	for i := 0; i < experto.Len(); i++ {
		reqs = append(reqs, MaterializeRequisition(experto, fm, i))
	}
	kept, removed := FilterCancelled(reqs, cancelled)
	out.CancelledRemoved = removed
	out.Diagnostics.Infof("gross: %d, cancelled filtered: %d, net: %d",
		len(reqs), removed, len(kept))

	for _, req := range kept {
		switch Classify(req.PurchaseType, req.StatusRaw, req.ID, precompraIDs) {
		case domain.Processed:
			out.Processed = append(out.Processed, req)
		case domain.InProcess:
			out.InProcess = append(out.InProcess, req)
		default:
			out.Unclassified = append(out.Unclassified, req)
		}
	}

	if n := len(out.Unclassified); n > 0 {
		out.Diagnostics.Warnf("%d requisitions were not classified", n)
	}
	if net := len(kept); net > 0 {
		out.Efficiency = float64(len(out.Processed)) / float64(net) * 100
	}
	return out, nil
}

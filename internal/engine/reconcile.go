package engine

import (
	"fmt"
	"strings"

	"ocpulse/internal/dataset"
	"ocpulse/pkg/contracts/domain"
)

// orderCodeKeywords locates the order-code column of the order-results
// dataset, in the same keyword style as the classification rule table.
var orderCodeKeywords = []string{"orden", "oc", "n°", "numero", "número", "compra"}

// Order statuses counted as conforming for the effectiveness KPI.
var conformingStatuses = map[string]struct{}{
	"Recepción Conforme": {},
	"Aceptada":           {},
}

// Substrings that exclude an order from the valid subset.
var excludedStatusTerms = []string{"cancelad", "rechazad", "no aceptad", "eliminad"}

// ReconcileOptions tunes one reconciliation batch.
type ReconcileOptions struct {
	// PurchaseTypeFilter restricts the merged result to one purchase type
	// before KPI computation. Applied after the join, never before.
	PurchaseTypeFilter string `json:"tipo_filtro" validate:"omitempty,max=120"`
}

// Reconciliation is the engine-level result of one reconciliation batch.
type Reconciliation struct {
	Records     []domain.FinancialRecord
	Unmatched   []string
	KPIs        domain.KPISet
	Diagnostics Diagnostics
}

// historicalRow is one expanded historical record: a single normalized order
// code plus the row it came from.
type historicalRow struct {
	code string
	row  int
}

// Reconcile joins order-result records against expanded historical records
// by normalized order code, deduplicates on the order-result code, and
// computes the batch KPIs. The error return is fatal-to-batch: the join key
// could not be detected in one of the datasets, and no partial KPIs are
// produced.
func Reconcile(orderResults, historical *dataset.Dataset, opts ReconcileOptions) (*Reconciliation, error) {
	codeCol, ok := DetectColumn(orderResults.Headers, orderCodeKeywords...)
	if !ok {
		return nil, fmt.Errorf("could not detect the order code column in %s (columns: %s)",
			orderResults.Name, strings.Join(orderResults.Headers, ", "))
	}

	histFields := DetectColumns(historical.Headers)
	if histFields.OrderStatus == "" {
		return nil, fmt.Errorf("could not detect the order status column in %s", historical.Name)
	}

	res := &Reconciliation{}

	// Expand the historical side: a row whose status cell encodes N codes
	// becomes N join candidates. First occurrence of a code wins.
	index := make(map[string]historicalRow)
	for i := 0; i < historical.Len(); i++ {
		for _, code := range ExpandOrderCodes(historical.Cell(i, histFields.OrderStatus)) {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				continue
			}
			if _, dup := index[code]; dup {
				continue
			}
			index[code] = historicalRow{code: code, row: i}
		}
	}

	amountCol, hasAmount := detectAmountColumn(orderResults.Headers)
	if !hasAmount {
		res.Diagnostics.Warnf("no total amount column detected in %s; amounts default to 0", orderResults.Name)
	}
	statusCol, hasStatus := DetectColumn(orderResults.Headers, "estado")

	seen := make(map[string]struct{})
	matched := 0
	for i := 0; i < orderResults.Len(); i++ {
		rawCode := orderResults.Cell(i, codeCol)
		code := strings.ToUpper(strings.TrimSpace(rawCode))
		if code == "" || strings.EqualFold(code, "nan") {
			continue
		}
		// Each purchase order contributes its amount exactly once.
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		rec := domain.FinancialRecord{OrderCode: code}
		if hasAmount {
			rec.Amount = ParseAmount(orderResults.Cell(i, amountCol))
		}
		if hasStatus {
			rec.Status = strings.TrimSpace(orderResults.Cell(i, statusCol))
		}

		if hit, ok := index[code]; ok {
			rec.Matched = true
			matched++
			rec.RequisitionID = NormalizeID(historical.Cell(hit.row, histFields.RequisitionNumber))
			rec.PurchaseType = NormalizePurchaseType(historical.Cell(hit.row, histFields.PurchaseType))
			if histFields.Unit != "" {
				rec.Unit = strings.TrimSpace(historical.Cell(hit.row, histFields.Unit))
			}
			if histFields.Title != "" {
				rec.Title = strings.TrimSpace(historical.Cell(hit.row, histFields.Title))
			}
			if histFields.HasFinancing() {
				rec.FinancingType = strings.TrimSpace(historical.Cell(hit.row, histFields.FinancingType))
			}
		} else {
			res.Unmatched = append(res.Unmatched, strings.TrimSpace(rawCode))
		}
		res.Records = append(res.Records, rec)
	}

	res.Diagnostics.Infof("merge completed: %d of %d order codes matched historical records",
		matched, len(res.Records))
	if n := len(res.Unmatched); n > 0 {
		res.Diagnostics.Warnf("%d order codes had no historical match", n)
	}

	if opts.PurchaseTypeFilter != "" {
		filtered := res.Records[:0:0]
		for _, rec := range res.Records {
			if rec.PurchaseType == opts.PurchaseTypeFilter {
				filtered = append(filtered, rec)
			}
		}
		res.Records = filtered
		res.Diagnostics.Infof("filtered by purchase type %q: %d records", opts.PurchaseTypeFilter, len(filtered))
	}

	res.KPIs = computeKPIs(res.Records)
	return res, nil
}

// detectAmountColumn prefers the exact "Total OC" header, falling back to the
// first header containing "total".
func detectAmountColumn(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), "total oc") {
			return h, true
		}
	}
	return DetectColumn(headers, "total")
}

func computeKPIs(records []domain.FinancialRecord) domain.KPISet {
	var k domain.KPISet
	for _, rec := range records {
		k.Gross += rec.Amount
		if isExcludedStatus(rec.Status) {
			continue
		}
		k.Valid += rec.Amount
		if _, ok := conformingStatuses[rec.Status]; ok {
			k.Conforming += rec.Amount
		}
	}
	if k.Valid > 0 {
		k.Effectiveness = k.Conforming / k.Valid * 100
	}
	return k
}

func isExcludedStatus(status string) bool {
	lower := strings.ToLower(status)
	for _, term := range excludedStatusTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

package engine

import (
	"fmt"
	"strings"
)

// Canonical semantic fields resolvable from a dataset's headers.
const (
	FieldRequisitionNumber = "requisition_number"
	FieldPurchaseType      = "purchase_type"
	FieldOrderStatus       = "order_status"
	FieldFinancingType     = "financing_type"
	FieldTitle             = "title"
	FieldUnit              = "unit"
	FieldBuyer             = "buyer"
)

// FieldMap is the result of column detection: for each canonical field, the
// originating header of the dataset, or "" when not found. Built once per
// dataset and reused for every row.
type FieldMap struct {
	RequisitionNumber string
	PurchaseType      string
	OrderStatus       string
	FinancingType     string
	Title             string
	Unit              string
	Buyer             string
}

// HasFinancing reports whether the optional financing column was detected.
// Its absence only suppresses the financing field in outputs.
func (m FieldMap) HasFinancing() bool { return m.FinancingType != "" }

// RequireClassificationFields validates that the three mandatory fields were
// resolved, returning a descriptive error naming the first missing one.
func (m FieldMap) RequireClassificationFields() error {
	switch {
	case m.RequisitionNumber == "":
		return fmt.Errorf("could not detect the requisition number column")
	case m.PurchaseType == "":
		return fmt.Errorf("could not detect the purchase type column")
	case m.OrderStatus == "":
		return fmt.Errorf("could not detect the order status column")
	}
	return nil
}

// keywordStage is one priority level of a detection rule. A header matches
// the stage when it contains every keyword of all, or any keyword of anyOf.
type keywordStage struct {
	all   []string
	anyOf []string
}

// fieldRule maps one canonical field to its priority-ordered stages. The
// first header (in original column order) matching the highest-priority
// stage with any match wins.
type fieldRule struct {
	field  string
	stages []keywordStage
}

// columnRules is the ordered rule table for column detection. Priority and
// fallback behavior is data here, not scattered branches: purchase_type and
// order_status carry a strict two-keyword stage before their broad fallback.
var columnRules = []fieldRule{
	{FieldRequisitionNumber, []keywordStage{
		{anyOf: []string{"número", "numero", "req", "requerimiento", "solicitud", "id"}},
	}},
	{FieldPurchaseType, []keywordStage{
		{all: []string{"tipo", "compra"}},
		{anyOf: []string{"tipo", "compra", "modalidad", "procedimiento"}},
	}},
	{FieldOrderStatus, []keywordStage{
		{all: []string{"orden", "compra"}},
		{anyOf: []string{"orden", "oc", "compra", "estado"}},
	}},
	{FieldFinancingType, []keywordStage{
		{anyOf: []string{"financiamiento", "fondo", "presupuesto", "fuente"}},
	}},
	{FieldTitle, []keywordStage{
		{anyOf: []string{"titulo", "título", "solicitud", "descripcion", "descripción", "nombre"}},
	}},
	{FieldUnit, []keywordStage{
		{anyOf: []string{"unidad", "solicitante", "area", "área", "departamento"}},
	}},
	{FieldBuyer, []keywordStage{
		{anyOf: []string{"comprador", "asignado", "responsable", "buyer"}},
	}},
}

// DetectColumns resolves the canonical fields of a dataset's headers via the
// ordered rule table. Detection itself never fails; callers decide which
// fields are mandatory for their operation.
func DetectColumns(headers []string) FieldMap {
	var m FieldMap
	for _, rule := range columnRules {
		header, ok := detectHeader(headers, rule.stages)
		if !ok {
			continue
		}
		switch rule.field {
		case FieldRequisitionNumber:
			m.RequisitionNumber = header
		case FieldPurchaseType:
			m.PurchaseType = header
		case FieldOrderStatus:
			m.OrderStatus = header
		case FieldFinancingType:
			m.FinancingType = header
		case FieldTitle:
			m.Title = header
		case FieldUnit:
			m.Unit = header
		case FieldBuyer:
			m.Buyer = header
		}
	}
	return m
}

// DetectColumn finds the first header containing any of the keywords.
// Used for single-field lookups such as the order-code column of the
// order-results dataset.
func DetectColumn(headers []string, keywords ...string) (string, bool) {
	return detectHeader(headers, []keywordStage{{anyOf: keywords}})
}

func detectHeader(headers []string, stages []keywordStage) (string, bool) {
	for _, stage := range stages {
		for _, h := range headers {
			if stage.matches(strings.TrimSpace(strings.ToLower(h))) {
				return h, true
			}
		}
	}
	return "", false
}

func (s keywordStage) matches(header string) bool {
	if len(s.all) > 0 {
		for _, kw := range s.all {
			if !strings.Contains(header, kw) {
				return false
			}
		}
		return true
	}
	for _, kw := range s.anyOf {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// Package engine implements the classification and reconciliation core for
// procurement exports: canonical field detection over arbitrary headers,
// identifier and amount normalization, compound order-code expansion, the
// purchase-type decision tables, cancellation filtering, and the left-join
// financial reconciliation with its KPIs.
//
// Everything here is a pure function over in-memory datasets. The engine is
// re-entrant and holds no state between batches; persistence and transport
// live in the services and store packages.
package engine

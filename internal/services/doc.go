// Package services implements the business logic layer between the HTTP
// handlers and the classification engine.
//
// # Architecture
//
// Services follow these principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Batch-boundary error containment: a batch run never panics outward
//
// Each batch service wraps one engine operation, converts its outcome into a
// result envelope with an explicit success flag and message list, persists
// the outcome through the record store, and records Prometheus metrics.
package services

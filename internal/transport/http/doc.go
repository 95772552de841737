// Package http implements the HTTP handlers of the web service. Handlers are
// a thin layer over the services: they parse multipart uploads into datasets,
// delegate to the service layer, and render JSON or CSV responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Engine/Store
//
// Handlers depend on interfaces, not concrete services, so tests can
// substitute stubs. Error responses are produced centrally by the errors
// package so every failure carries the same structured shape.
package http

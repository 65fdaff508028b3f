// Package library is a personal library service with a rule-based reading
// assistant.
//
// Usage:
//
//	import "github.com/FatjonaGashi/library-management-system/engine"
//
//	res := engine.Interpret("Who owns the most books?", books, users, viewer.ID)
//
// The engine answers a free-text question over a snapshot of books and
// users and returns either a sentence or a table of rows. The server
// package exposes it behind authenticated HTTP routes; the assistant
// package asks the server first and falls back to the same engine locally.
// The engine never calls any external service; all computation is local.
package library

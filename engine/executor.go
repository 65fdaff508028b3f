package engine

import (
	"go.uber.org/zap"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// EXECUTOR: Classify + Dispatch
// ============================================================================
// Entry point: Interpret(query, books, users, actor, opts...)
//
// Pipeline:
//   1. Lowercase the query and walk the intent table
//   2. Run the first matching handler over the snapshot
//   3. Return a Result (text or table)
//
// Interpret never fails. Blank, random, or non-ASCII queries fall through to
// the help text; empty collections produce empty aggregates.
// The same function backs the server endpoint and the client fallback.
// ============================================================================

// Interpret answers a free-text question about books.
// books and users are read, never modified; actor is the asking user.
func Interpret(query string, books []catalog.Book, users []catalog.User, actor catalog.ID, opts ...Option) Result {
	cfg := applyOptions(opts)

	intent := Classify(query)
	in := input{
		books:  books,
		users:  users,
		actor:  actor,
		now:    cfg.Now(),
		window: cfg.RecentWindow,
	}

	result := intent.handle(in)

	cfg.Logger.Debug("query interpreted",
		zap.String("intent", intent.Name),
		zap.Int("books", len(books)),
		zap.Int("users", len(users)),
		zap.String("kind", string(result.Kind)),
	)

	return result
}

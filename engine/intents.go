package engine

import (
	"strings"
	"time"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// INTENTS: Ordered rule table
// ============================================================================
// First match wins, and the substrings overlap: "average price by genre" must
// reach the price rule before the genre rule, and "summarize reading status"
// must reach the summary rule before the status rule.
// ============================================================================

// input is the immutable snapshot a handler works on.
type input struct {
	books  []catalog.Book
	users  []catalog.User
	actor  catalog.ID
	now    time.Time
	window time.Duration
}

// Intent is one recognized question category.
type Intent struct {
	Name   string
	Match  func(q string) bool
	handle func(in input) Result
}

// Intent names.
const (
	IntentMostBooks    = "most_books"
	IntentPopularBook  = "popular_book"
	IntentExpensive    = "expensive_books"
	IntentAveragePrice = "average_price_by_genre"
	IntentTopReaders   = "top_readers"
	IntentSummary      = "summarize_reading"
	IntentGenres       = "books_by_genre"
	IntentStatus       = "reading_status"
	IntentHelp         = "help"
)

var intents = []Intent{
	{
		Name: IntentMostBooks,
		Match: func(q string) bool {
			return has(q, "who") && hasAny(q, "most books", "has the most books")
		},
		handle: buildMostBooksText,
	},
	{
		Name:   IntentPopularBook,
		Match:  func(q string) bool { return hasAny(q, "popular book", "most read", "most popular") },
		handle: buildPopularText,
	},
	{
		Name:   IntentExpensive,
		Match:  func(q string) bool { return has(q, "expensive") },
		handle: buildExpensiveTable,
	},
	{
		Name: IntentAveragePrice,
		Match: func(q string) bool {
			return has(q, "average price") || (has(q, "avg price") && has(q, "genre"))
		},
		handle: buildAveragePriceTable,
	},
	{
		Name: IntentTopReaders,
		Match: func(q string) bool {
			return has(q, "top readers") || (has(q, "top") && hasAny(q, "readers", "owners"))
		},
		handle: buildTopReadersTable,
	},
	{
		Name:   IntentSummary,
		Match:  func(q string) bool { return has(q, "summarize") && has(q, "reading") },
		handle: buildSummaryText,
	},
	{
		Name:   IntentGenres,
		Match:  func(q string) bool { return hasAny(q, "genre", "category") },
		handle: buildGenreTable,
	},
	{
		Name: IntentStatus,
		Match: func(q string) bool {
			return has(q, "reading") && hasAny(q, "status", "statistics")
		},
		handle: buildStatusTable,
	},
}

var helpIntent = Intent{
	Name:   IntentHelp,
	Match:  func(string) bool { return true },
	handle: buildHelpText,
}

// Intents returns the rule names in evaluation order, help last.
func Intents() []string {
	names := make([]string, 0, len(intents)+1)
	for _, in := range intents {
		names = append(names, in.Name)
	}
	return append(names, helpIntent.Name)
}

// Classify returns the first intent matching query.
// Matching is case-insensitive substring search.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, in := range intents {
		if in.Match(q) {
			return in
		}
	}
	return helpIntent
}

func has(q, sub string) bool { return strings.Contains(q, sub) }

func hasAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}

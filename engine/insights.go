package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// INSIGHTS & RECOMMENDATIONS: Per-user summaries
// ============================================================================

// RecommendationLimit caps GenerateRecommendations.
const RecommendationLimit = 3

// EmptyLibraryInsight is the single insight for a user with no books.
const EmptyLibraryInsight = "No books in your library yet."

// GenerateInsights describes actor's own books in up to three sentences:
// favorite genre, completed/reading counts, average length (when positive).
func GenerateInsights(books []catalog.Book, actor catalog.ID) []string {
	own := catalog.BooksOwnedBy(books, actor)
	if len(own) == 0 {
		return []string{EmptyLibraryInsight}
	}

	insights := make([]string, 0, 3)

	genre, n, _ := FavoriteGenre(own)
	insights = append(insights, fmt.Sprintf("%s is your most read genre (%d books)", genre, n))

	statuses := CountByStatus(own)
	insights = append(insights, fmt.Sprintf("You've completed %d books and are currently reading %d",
		statuses.Get(string(catalog.StatusCompleted)), statuses.Get(string(catalog.StatusReading))))

	pages := 0
	for _, b := range own {
		pages += b.Pages
	}
	if avg := float64(pages) / float64(len(own)); avg > 0 {
		insights = append(insights, fmt.Sprintf("Average book length: %d pages", int(math.Round(avg))))
	}

	return insights
}

// GenerateRecommendations suggests up to RecommendationLimit books from
// other users in actor's favorite genre, priciest first. Titles actor
// already owns are skipped.
func GenerateRecommendations(books []catalog.Book, actor catalog.ID) []Recommendation {
	own := catalog.BooksOwnedBy(books, actor)
	if len(own) == 0 {
		return []Recommendation{}
	}

	favorite, _, _ := FavoriteGenre(own)

	owned := make(map[string]bool, len(own))
	for _, b := range own {
		owned[b.Title] = true
	}

	candidates := filterBooks(books, func(b catalog.Book) bool {
		return b.Genre == favorite && !b.OwnedBy(actor) && !owned[b.Title]
	})
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Price > candidates[j].Price })

	if len(candidates) > RecommendationLimit {
		candidates = candidates[:RecommendationLimit]
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, b := range candidates {
		recs = append(recs, Recommendation{
			Title:  b.Title,
			Author: b.Author,
			Genre:  b.Genre,
			Reason: fmt.Sprintf("Based on your interest in %s", favorite),
		})
	}
	return recs
}

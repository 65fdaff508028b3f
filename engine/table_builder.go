package engine

import (
	"sort"

	"github.com/FatjonaGashi/library-management-system/catalog"
)

// ============================================================================
// TABLE BUILDER: Grid answers
// ============================================================================
// Each builder emits rows whose keys are fixed for that intent, so the
// renderer can take the header from the first row.
// ============================================================================

// ExpensiveLimit is how many books the "expensive" intent lists.
const ExpensiveLimit = 5

// Column keys.
const (
	ColTitle        = "Title"
	ColAuthor       = "Author"
	ColPrice        = "Price"
	ColOwner        = "Owner"
	ColGenre        = "Genre"
	ColStatus       = "Status"
	ColCount        = "Count"
	ColAveragePrice = "AveragePrice"
	ColUserID       = "UserId"
)

func buildExpensiveTable(in input) Result {
	top := TopNByPrice(in.books, ExpensiveLimit)
	rows := make([]Row, 0, len(top))
	for _, b := range top {
		rows = append(rows, Row{
			{Key: ColTitle, Value: b.Title},
			{Key: ColAuthor, Value: b.Author},
			{Key: ColPrice, Value: FormatPrice(b.Price)},
			{Key: ColOwner, Value: ownerName(in, b.OwnerID.String())},
		})
	}
	return NewTable(rows)
}

func buildAveragePriceTable(in input) Result {
	avgs := AveragePriceByGenre(in.books)
	rows := make([]Row, 0, len(avgs))
	for _, a := range avgs {
		rows = append(rows, Row{
			{Key: ColGenre, Value: a.Key},
			{Key: ColAveragePrice, Value: FormatPrice(a.Mean)},
		})
	}
	return NewTable(rows)
}

func buildTopReadersTable(in input) Result {
	counts := RecentByOwner(in.books, in.window, in.now)
	sorted := make(Counts, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].N > sorted[j].N })

	return countTable(ColUserID, sorted)
}

func buildGenreTable(in input) Result {
	return countTable(ColGenre, CountByGenre(in.books))
}

func buildStatusTable(in input) Result {
	return countTable(ColStatus, CountByStatus(in.books))
}

func countTable(keyColumn string, counts Counts) Result {
	rows := make([]Row, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, Row{
			{Key: keyColumn, Value: c.Key},
			{Key: ColCount, Value: c.N},
		})
	}
	return NewTable(rows)
}

// ownerName resolves an owner id to a display name, or "Unknown".
func ownerName(in input, owner string) string {
	id := catalog.ID(owner)
	if id.IsZero() {
		return UnknownKey
	}
	u, ok := catalog.FindUser(in.users, id)
	if !ok || u.Name == "" {
		return UnknownKey
	}
	return u.Name
}

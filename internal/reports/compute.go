package reports

import (
	"sort"
	"time"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/entities"
)

// The functions in this file are pure derivations over a ledger snapshot.
// They back the client-side fallback when the remote store is unreachable
// and define the reference semantics the remote reports are expected to
// match.

// TotalBorrowsThisMonth counts records whose borrow date falls in the
// calendar month of now.
func TotalBorrowsThisMonth(records []entities.BorrowRecord, now time.Time) int {
	count := 0
	for _, rec := range records {
		if rec.BorrowDate.Year() == now.Year() && rec.BorrowDate.Month() == now.Month() {
			count++
		}
	}
	return count
}

// AverageBorrowDuration is the mean borrow-to-return span in whole days
// over returned records only. 0 when nothing has been returned.
func AverageBorrowDuration(records []entities.BorrowRecord) int {
	totalDays := 0
	returned := 0
	for _, rec := range records {
		if rec.ReturnDate == nil {
			continue
		}
		totalDays += rec.DurationDays()
		returned++
	}
	if returned == 0 {
		return 0
	}
	return totalDays / returned
}

// ReturnRate is the share of returned records as a percentage. 0 for an
// empty ledger; never a division error.
func ReturnRate(records []entities.BorrowRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	returned := 0
	for _, rec := range records {
		if rec.ReturnDate != nil {
			returned++
		}
	}
	return float64(returned) / float64(len(records)) * 100
}

// PopularGenres groups records by the borrowed book's genre and counts
// them, most borrowed first. Equal counts keep first-seen input order; no
// secondary key is defined upstream, so the tie-break is documented as
// implementation-defined and kept stable here.
func PopularGenres(records []entities.BorrowRecord) []api.PopularGenre {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range records {
		if rec.Book == nil || rec.Book.Genre == nil {
			continue
		}
		name := rec.Book.Genre.Name
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	genres := make([]api.PopularGenre, 0, len(order))
	for _, name := range order {
		genres = append(genres, api.PopularGenre{GenreName: name, BorrowCount: counts[name]})
	}
	sort.SliceStable(genres, func(i, j int) bool {
		return genres[i].BorrowCount > genres[j].BorrowCount
	})
	return genres
}

// OverdueRecords selects active records strictly past their due date and
// annotates each with whole days overdue. A record due exactly at now is
// not overdue.
func OverdueRecords(records []entities.BorrowRecord, now time.Time) []api.OverdueRecord {
	overdue := make([]api.OverdueRecord, 0)
	for _, rec := range records {
		if !rec.IsOverdueAt(now) {
			continue
		}
		overdue = append(overdue, api.OverdueRecord{
			BorrowRecord: rec,
			DaysOverdue:  rec.DaysOverdueAt(now),
		})
	}
	return overdue
}

// Summarize bundles the headline statistics from a ledger snapshot.
func Summarize(records []entities.BorrowRecord, now time.Time) api.ReportSummary {
	return api.ReportSummary{
		TotalBorrowsThisMonth: TotalBorrowsThisMonth(records, now),
		AverageBorrowDuration: AverageBorrowDuration(records),
		ReturnRate:            ReturnRate(records),
	}
}

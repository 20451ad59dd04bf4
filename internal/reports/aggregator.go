// Package reports derives the summary statistics of the lending ledger:
// overdue count, popular genres, average borrow duration, return rate.
// The remote store computes these server-side; the aggregator fetches and
// renders them as-is, and only recomputes from the local snapshot when the
// remote store is unreachable. Overdueness has a single source of truth:
// it is always computed from return_date, due_date and now, never read
// from a stored status field.
package reports

import (
	"context"
	"log"
	"time"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/outcome"
	"github.com/libradesk/libradesk/internal/session"
)

// Aggregator serves the reports view. Admin-only.
type Aggregator struct {
	client *api.Client
	sess   *session.Session
	cache  *snapshot.Repository
	now    func() time.Time
}

func NewAggregator(client *api.Client, sess *session.Session, cache *snapshot.Repository) *Aggregator {
	return &Aggregator{client: client, sess: sess, cache: cache, now: time.Now}
}

// Data is the complete reports payload.
type Data struct {
	Summary       api.ReportSummary   `json:"summary"`
	PopularGenres []api.PopularGenre  `json:"popularGenres"`
	Overdue       []api.OverdueRecord `json:"overdueBooks"`

	// Stale marks figures recomputed from the local snapshot because the
	// remote store could not be reached.
	Stale bool `json:"stale,omitempty"`
}

// Fetch loads all three report groups. Any remote failure switches the
// whole payload to the snapshot fallback so the figures stay mutually
// consistent rather than mixing fresh and stale sources.
func (a *Aggregator) Fetch(ctx context.Context) (*Data, error) {
	const op = "reports.fetch"
	if err := a.sess.RequireAdmin(op); err != nil {
		return nil, err
	}

	summary, err := a.client.GetReportSummary(ctx)
	if err != nil {
		return a.fallback(op, err)
	}
	genres, err := a.client.GetPopularGenres(ctx)
	if err != nil {
		return a.fallback(op, err)
	}
	overdue, err := a.client.GetOverdueRecords(ctx)
	if err != nil {
		return a.fallback(op, err)
	}

	return &Data{Summary: *summary, PopularGenres: genres, Overdue: overdue}, nil
}

func (a *Aggregator) fallback(op string, cause error) (*Data, error) {
	if outcome.ReasonOf(api.WrapOutcome(op, cause)) == outcome.ReasonUnauthenticated {
		return nil, api.WrapOutcome(op, cause)
	}

	log.Printf("reports: remote reports unavailable, recomputing from snapshot: %v", cause)
	records, err := a.cache.BorrowRecords()
	if err != nil {
		return nil, api.WrapOutcome(op, cause)
	}

	now := a.now()
	return &Data{
		Summary:       Summarize(records, now),
		PopularGenres: PopularGenres(records),
		Overdue:       OverdueRecords(records, now),
		Stale:         true,
	}, nil
}

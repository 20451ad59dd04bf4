package api

import (
	"context"

	"github.com/libradesk/libradesk/internal/entities"
)

// ReportSummary is the remote store's headline statistics.
type ReportSummary struct {
	TotalBorrowsThisMonth int     `json:"totalBorrowsThisMonth"`
	AverageBorrowDuration int     `json:"averageBorrowDuration"` // whole days
	ReturnRate            float64 `json:"returnRate"`            // percentage
}

// PopularGenre is one row of the borrow-count-per-genre report.
type PopularGenre struct {
	GenreName   string `json:"genre_name"`
	BorrowCount int    `json:"borrow_count"`
}

// OverdueRecord annotates an active past-due ledger entry with the whole
// days it has been overdue at report time.
type OverdueRecord struct {
	entities.BorrowRecord
	DaysOverdue int `json:"days_overdue"`
}

// GetReportSummary fetches the headline statistics.
func (c *Client) GetReportSummary(ctx context.Context) (*ReportSummary, error) {
	var summary ReportSummary
	if err := c.get(ctx, "/borrow-records/reports/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetPopularGenres fetches borrow counts grouped by genre, most borrowed
// first.
func (c *Client) GetPopularGenres(ctx context.Context) ([]PopularGenre, error) {
	var genres []PopularGenre
	if err := c.get(ctx, "/borrow-records/reports/popular-genres", &genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// GetOverdueRecords fetches all active ledger entries past their due date.
func (c *Client) GetOverdueRecords(ctx context.Context) ([]OverdueRecord, error) {
	var records []OverdueRecord
	if err := c.get(ctx, "/borrow-records/reports/overdue", &records); err != nil {
		return nil, err
	}
	return records, nil
}

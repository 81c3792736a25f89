package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/openshelf/internal/entities"
)

// OverdueItemLister provides read access to overdue loan items.
type OverdueItemLister interface {
	ListOverdueItems(asOf entities.Date) ([]entities.LoanItem, error)
}

// OverdueScanTask reports borrowed loan items whose due date has passed.
// The scan is read-only: it never mutates item status or return dates.
type OverdueScanTask struct {
	AsOf string `json:"as_of"` // Scan date (2006-01-02); empty means today
}

// Config returns the queue configuration for overdue scan tasks.
func (t OverdueScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_scan",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueScanProcessor creates a processor function for OverdueScanTask.
func OverdueScanProcessor(lister OverdueItemLister) backlite.QueueProcessor[OverdueScanTask] {
	return func(ctx context.Context, task OverdueScanTask) error {
		if lister == nil {
			return fmt.Errorf("overdue item lister not configured")
		}

		asOf := entities.Today()
		if task.AsOf != "" {
			parsed, err := entities.ParseDate(task.AsOf)
			if err != nil {
				return fmt.Errorf("invalid as_of date %q: %w", task.AsOf, err)
			}
			asOf = parsed
		}

		items, err := lister.ListOverdueItems(asOf)
		if err != nil {
			return fmt.Errorf("list overdue items: %w", err)
		}

		if len(items) == 0 {
			log.Printf("[TASK] Overdue scan: no overdue items as of %s", asOf)
			return nil
		}

		for _, item := range items {
			title := ""
			if item.Book != nil {
				title = item.Book.Title
			}
			log.Printf("[TASK] Overdue scan: item %d (loan %d, book %q) was due %s",
				item.ID, item.LoanID, title, item.DueDate)
		}
		log.Printf("[TASK] Overdue scan: %d overdue items as of %s", len(items), asOf)

		return nil
	}
}

// NewOverdueScanQueue creates a backlite queue for overdue scan tasks.
func NewOverdueScanQueue(lister OverdueItemLister) backlite.Queue {
	return backlite.NewQueue(OverdueScanProcessor(lister))
}

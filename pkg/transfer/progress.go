package transfer

import (
	"sync"

	"github.com/hauskeep/hauskeep/pkg/models"
)

type CategorySummary struct {
	Category     string `json:"category"`
	CreatedCount int    `json:"created_count"`
	SkippedCount int    `json:"skipped_count"`
	FailedCount  int    `json:"failed_count"`
}

// Progress is the advisory snapshot polled by the UI while a transfer runs.
// It is rebuilt from scratch on every start and lost on process restart; the
// ledger is what resumption actually relies on.
type Progress struct {
	SessionID            string            `json:"session_id"`
	OverallPercent       float64           `json:"overall_percent"`
	TotalCategories      int               `json:"total_categories"`
	CurrentCategoryIndex int               `json:"current_category_index"`
	CurrentCategory      string            `json:"current_category"`
	CurrentItemName      string            `json:"current_item_name"`
	LastItemStatus       string            `json:"last_item_status"`
	CreatedCount         int               `json:"created_count"`
	SkippedCount         int               `json:"skipped_count"`
	FailedCount          int               `json:"failed_count"`
	CompletedCategories  []CategorySummary `json:"completed_categories"`
}

// Tracker is the single-writer progress state. The background run is the
// only writer; polling handlers call Snapshot concurrently.
type Tracker struct {
	mu sync.Mutex

	hasRun       bool
	categoryOpen bool
	progress     Progress

	totalItems int
	doneItems  int
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin resets the tracker for a new run.
func (t *Tracker) Begin(sessionID string, totalCategories int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.hasRun = true
	t.categoryOpen = false
	t.progress = Progress{
		SessionID:            sessionID,
		TotalCategories:      totalCategories,
		CurrentCategoryIndex: -1,
		CompletedCategories:  []CategorySummary{},
	}
	t.totalItems = 0
	t.doneItems = 0
}

func (t *Tracker) StartCategory(category string, totalItems int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.categoryOpen = true
	t.progress.CurrentCategoryIndex++
	t.progress.CurrentCategory = category
	t.progress.CurrentItemName = ""
	t.progress.LastItemStatus = ""
	t.progress.CreatedCount = 0
	t.progress.SkippedCount = 0
	t.progress.FailedCount = 0
	t.totalItems = totalItems
	t.doneItems = 0
	t.updatePercent()
}

func (t *Tracker) ItemDone(name, status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress.CurrentItemName = name
	t.progress.LastItemStatus = status
	switch status {
	case models.TransferItemCreated:
		t.progress.CreatedCount++
	case models.TransferItemSkipped:
		t.progress.SkippedCount++
	case models.TransferItemFailed:
		t.progress.FailedCount++
	}
	t.doneItems++
	t.updatePercent()
}

// FinishCategory folds the current category's counters into the completed
// list. The orchestrator calls it after every category; a category that
// failed before it ever started leaves nothing to fold, so calling it then
// is a no-op rather than folding the previous category twice.
func (t *Tracker) FinishCategory() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.categoryOpen {
		return
	}
	t.categoryOpen = false

	t.progress.CompletedCategories = append(t.progress.CompletedCategories, CategorySummary{
		Category:     t.progress.CurrentCategory,
		CreatedCount: t.progress.CreatedCount,
		SkippedCount: t.progress.SkippedCount,
		FailedCount:  t.progress.FailedCount,
	})
	t.totalItems = 0
	t.doneItems = 0
	t.updatePercent()
}

// Complete pins the percent to 100. Only a run that finished every category
// calls it; cancelled and failed runs keep their last partial percent.
func (t *Tracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.progress.OverallPercent = 100
	t.progress.CurrentItemName = ""
}

// Snapshot returns a copy of the current progress. The second return is
// false until a transfer has started in this process.
func (t *Tracker) Snapshot() (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasRun {
		return Progress{}, false
	}
	snapshot := t.progress
	snapshot.CompletedCategories = append([]CategorySummary{}, t.progress.CompletedCategories...)
	return snapshot, true
}

// updatePercent recomputes the overall percent from completed categories
// plus the fraction of the current one. It never decreases and never
// reaches 100 on its own; Complete owns the terminal value.
func (t *Tracker) updatePercent() {
	if t.progress.TotalCategories == 0 {
		return
	}

	done := float64(len(t.progress.CompletedCategories))
	if t.totalItems > 0 {
		done += float64(t.doneItems) / float64(t.totalItems)
	}

	percent := done / float64(t.progress.TotalCategories) * 100
	if percent > 99 {
		percent = 99
	}
	if percent > t.progress.OverallPercent {
		t.progress.OverallPercent = percent
	}
}

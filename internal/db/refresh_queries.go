package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/miirko99/translation-api/internal/whitelist"
)

const maxRefreshErrorLength = 4000

// RefreshLedger records whitelist refresh attempts in refresh_runs.
type RefreshLedger struct {
	pool *Pool
}

func NewRefreshLedger(pool *Pool) *RefreshLedger {
	return &RefreshLedger{pool: pool}
}

// RecordRefresh implements whitelist.Recorder.
func (l *RefreshLedger) RecordRefresh(ctx context.Context, attempt whitelist.Attempt) error {
	if l == nil || l.pool == nil || l.pool.gdb == nil {
		return fmt.Errorf("refresh ledger is not initialized")
	}

	row := newRefreshRun(attempt)
	if err := l.pool.gdb.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert refresh run: %w", err)
	}
	return nil
}

// ListRecent returns the newest refresh runs first. An empty listKind matches both lists.
func (l *RefreshLedger) ListRecent(ctx context.Context, listKind string, limit int) ([]RefreshRun, error) {
	if l == nil || l.pool == nil || l.pool.gdb == nil {
		return nil, fmt.Errorf("refresh ledger is not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := l.pool.gdb.WithContext(ctx).Model(&RefreshRun{})
	if kind := strings.TrimSpace(strings.ToLower(listKind)); kind != "" {
		query = query.Where("list_kind = ?", kind)
	}

	var rows []RefreshRun
	if err := query.Order("started_at DESC").Order("run_id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query refresh runs: %w", err)
	}
	return rows, nil
}

func newRefreshRun(attempt whitelist.Attempt) RefreshRun {
	row := RefreshRun{
		Trigger:    string(attempt.Trigger),
		ListKind:   string(attempt.List),
		Status:     RefreshStatusSucceeded,
		ItemCount:  attempt.ItemCount,
		StartedAt:  attempt.StartedAt.UTC(),
		FinishedAt: attempt.FinishedAt.UTC(),
	}
	if attempt.Err != nil {
		msg := truncateError(attempt.Err.Error())
		row.Status = RefreshStatusFailed
		row.ItemCount = 0
		row.ErrorMessage = &msg
	}
	return row
}

func truncateError(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) <= maxRefreshErrorLength {
		return msg
	}
	return msg[:maxRefreshErrorLength]
}

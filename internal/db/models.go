package db

import "time"

// Refresh run statuses.
const (
	RefreshStatusSucceeded = "succeeded"
	RefreshStatusFailed    = "failed"
)

// RefreshRun maps refresh_runs: one row per upstream listing fetch.
type RefreshRun struct {
	RunID        int64     `gorm:"column:run_id;primaryKey;autoIncrement"`
	Trigger      string    `gorm:"column:trigger;type:text;not null"`
	ListKind     string    `gorm:"column:list_kind;type:text;not null;index:idx_refresh_runs_list_started,priority:1"`
	Status       string    `gorm:"column:status;type:text;not null"`
	ItemCount    int       `gorm:"column:item_count;type:integer;not null;default:0"`
	ErrorMessage *string   `gorm:"column:error_message;type:text"`
	StartedAt    time.Time `gorm:"column:started_at;type:timestamptz;not null;index:idx_refresh_runs_list_started,priority:2,sort:desc"`
	FinishedAt   time.Time `gorm:"column:finished_at;type:timestamptz;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (RefreshRun) TableName() string { return "refresh_runs" }

func autoMigrateModels() []any {
	return []any{
		&RefreshRun{},
	}
}

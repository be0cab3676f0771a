package domain

import "time"

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusSucceeded SyncRunStatus = "SUCCEEDED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
	SyncRunStatusCanceled  SyncRunStatus = "CANCELED"
)

// SyncRun resume uma execução completa do loop de extração
type SyncRun struct {
	ID          string        `json:"id"`
	AppID       string        `json:"app_id"`
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	Windows     int           `json:"windows"`
	Records     int           `json:"records"`
	Status      SyncRunStatus `json:"status"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

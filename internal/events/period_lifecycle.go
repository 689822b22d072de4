package events

import "time"

const PeriodLifecycleTopic = "payroll.period.lifecycle.v1"

const PeriodOpened = "period_opened"

type PeriodOpenedEvent struct {
	EventType  string    `json:"event_type"`
	PeriodID   string    `json:"period_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

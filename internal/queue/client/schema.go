package client

const JobEventsQueueName string = "lst_job_events_queue"

type EventType int

const (
	JobFinishedEventType EventType = 1
)

// JobEvent is published once per job when it reaches a terminal state.
// Amounts and ids are base-10 strings, times are RFC3339 UTC.
type JobEvent struct {
	EventType    EventType `json:"event_type"` // always 1
	JobID        string    `json:"job_id"`
	Protocol     string    `json:"protocol"`
	Kind         string    `json:"kind"`
	From         string    `json:"from"`
	Amount       string    `json:"amount,omitempty"`
	WithdrawalID string    `json:"withdrawal_id,omitempty"`
	State        string    `json:"state"`
	TxHash       string    `json:"tx_hash,omitempty"`
	Attempts     int       `json:"attempts"`
	RevertReason string    `json:"revert_reason,omitempty"`
	Error        string    `json:"error,omitempty"`
	UnlockAt     string    `json:"unlock_at,omitempty"`
	CreatedAt    string    `json:"created_at"`
	FinishedAt   string    `json:"finished_at"`
}

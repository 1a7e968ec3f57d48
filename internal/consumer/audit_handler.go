package consumer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditHandler writes consumed roster events into Postgres for auditing.
type AuditHandler struct {
	pool *pgxpool.Pool
}

// NewAuditHandler constructs a handler backed by the provided pool.
func NewAuditHandler(pool *pgxpool.Pool) *AuditHandler {
	return &AuditHandler{pool: pool}
}

// Handle appends the event to the roster_event_log table. The unique
// event_id constraint makes redelivered messages a no-op.
func (h *AuditHandler) Handle(ctx context.Context, msg Message) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx,
		`INSERT INTO roster_event_log (event_id, event_type, activity_name, email, topic, partition, record_offset, payload, occurred_at, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
         ON CONFLICT (event_id) DO NOTHING`,
		msg.EventID,
		msg.EventType,
		msg.Activity,
		msg.Email,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.OccurredAt,
		msg.Timestamp,
	)
	return err
}

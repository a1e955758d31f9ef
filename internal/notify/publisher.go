// Package notify publishes ledger activity to NATS for downstream payroll
// orchestration. Publishing is fire-and-forget: a broker outage never fails
// the originating request.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/crewledger-systems/crewledger/internal/models"
)

// Subjects published by the service.
const (
	SubjectEventAppended     = "crewledger.timeclock.event.appended"
	SubjectAttendanceCreated = "crewledger.attendance.created"
)

// Publisher sends JSON notifications over NATS. A nil Publisher is valid and
// publishes nothing.
type Publisher struct {
	conn *nats.Conn
}

// Config holds the NATS connection settings.
type Config struct {
	URL           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Connect dials NATS and returns a Publisher.
func Connect(cfg Config) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("crewledger"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}

// EventAppended announces an accepted ledger append.
func (p *Publisher) EventAppended(ctx context.Context, event *models.TimestampEvent) {
	p.publish(ctx, SubjectEventAppended, map[string]any{
		"employee_id":     event.EmployeeID,
		"timestamp":       event.Timestamp.UTC().Format(time.RFC3339),
		"timestamp_type":  event.Type,
		"sequence_number": event.SequenceNumber,
	})
}

// AttendanceCreated announces a newly derived attendance record.
func (p *Publisher) AttendanceCreated(ctx context.Context, record *models.AttendanceRecord) {
	p.publish(ctx, SubjectAttendanceCreated, map[string]any{
		"attendance_id": record.ID,
		"employee_id":   record.EmployeeID,
		"date":          record.Date,
		"total_hours":   record.TotalHours,
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, payload map[string]any) {
	if p == nil || p.conn == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal notification", slog.String("subject", subject), slog.String("error", err.Error()))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		slog.WarnContext(ctx, "failed to publish notification", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}

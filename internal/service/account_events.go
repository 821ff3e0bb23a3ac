package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// DefaultEventsSubject is the subject prefix used when none is configured.
const DefaultEventsSubject = "school.users"

// AccountEvent is broadcast after an account is created.
type AccountEvent struct {
	EventID    string      `json:"event_id"`
	Type       string      `json:"type"`
	UserID     uint        `json:"user_id"`
	Role       models.Role `json:"role"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// AccountEventPublisher broadcasts account lifecycle events.
type AccountEventPublisher interface {
	PublishRegistered(ctx context.Context, user models.User) error
}

// natsPublisher is the subset of *nats.Conn used for publishing.
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

type accountEventPublisher struct {
	conn    natsPublisher
	subject string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewAccountEventPublisher publishes to "<subject>.registered". A nil connection yields a
// publisher that drops events.
func NewAccountEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) AccountEventPublisher {
	if conn == nil {
		return newAccountEventPublisher(nil, subject, logger)
	}
	return newAccountEventPublisher(conn, subject, logger)
}

func newAccountEventPublisher(conn natsPublisher, subject string, logger zerolog.Logger) *accountEventPublisher {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = DefaultEventsSubject
	}
	return &accountEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "account_events").Logger(),
		now:     time.Now,
	}
}

func (p *accountEventPublisher) PublishRegistered(_ context.Context, user models.User) error {
	if p.conn == nil {
		return nil
	}

	event := AccountEvent{
		EventID:    uuid.NewString(),
		Type:       "registered",
		UserID:     user.ID,
		Role:       user.Role,
		OccurredAt: p.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode account event: %w", err)
	}

	subject := p.subject + ".registered"
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug().Str("subject", subject).Uint("user_id", user.ID).Msg("account event published")
	return nil
}

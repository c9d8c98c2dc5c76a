// Package notify delivers vote confirmations to voters. Delivery is
// best-effort: the ballot is final whether or not the confirmation arrives.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/config"
)

// Confirmation carries everything a confirmation message needs. It never
// includes the candidate choice; only the receipt proves participation.
type Confirmation struct {
	VoterID       uuid.UUID
	ElectionID    uuid.UUID
	PositionID    uuid.UUID
	ElectionTitle string
	PositionTitle string
	ReceiptNumber string
	CastAt        time.Time
}

// Sender delivers vote confirmations.
type Sender interface {
	SendVoteConfirmation(ctx context.Context, c Confirmation) error
}

// LogSender writes confirmations to the structured log instead of an external
// channel. It is the default delivery adapter; a mail or SMS adapter slots in
// behind the same interface.
type LogSender struct {
	log *slog.Logger
	cfg config.NotifyConfig
}

// NewLogSender creates a log-backed confirmation sender.
func NewLogSender(logger *slog.Logger, cfg config.NotifyConfig) *LogSender {
	return &LogSender{
		log: logger.With("component", "notify"),
		cfg: cfg,
	}
}

// SendVoteConfirmation logs the confirmation. Disabled senders drop silently.
func (s *LogSender) SendVoteConfirmation(ctx context.Context, c Confirmation) error {
	if !s.cfg.Enabled {
		return nil
	}

	s.log.InfoContext(ctx, "vote confirmation",
		"sender", s.cfg.SenderName,
		"voter_id", c.VoterID,
		"election", c.ElectionTitle,
		"position", c.PositionTitle,
		"receipt_number", c.ReceiptNumber,
		"cast_at", c.CastAt,
	)
	return nil
}

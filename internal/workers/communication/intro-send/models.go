package introsend

import (
	"context"
	"time"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
)

type Input struct {
	IntroID    string `json:"introId"`
	DemandTo   string `json:"demandIntroTo"`
	DemandBody string `json:"demandIntroBody"`
	SupplyTo   string `json:"supplyIntroTo"`
	SupplyBody string `json:"supplyIntroBody"`
	Subject    string `json:"subject,omitempty"`

	// Set when a previous attempt already delivered that side.
	DemandMessageID string `json:"demandMessageId,omitempty"`
	SupplyMessageID string `json:"supplyMessageId,omitempty"`
}

type Output struct {
	Sent            bool      `json:"introSent"`
	DemandMessageID string    `json:"demandMessageId,omitempty"`
	SupplyMessageID string    `json:"supplyMessageId,omitempty"`
	SentAt          time.Time `json:"sentAt,omitempty"`
}

func (o *Output) ToVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"introSent": o.Sent,
	}
	if o.DemandMessageID != "" {
		vars["demandMessageId"] = o.DemandMessageID
	}
	if o.SupplyMessageID != "" {
		vars["supplyMessageId"] = o.SupplyMessageID
	}
	if !o.SentAt.IsZero() {
		vars["sentAt"] = o.SentAt.Format(time.RFC3339)
	}
	return vars
}

// EmailSender delivers one plain-text email and returns the provider
// message ID.
type EmailSender interface {
	SendText(ctx context.Context, to, subject, body string) (string, error)
}

// Firewall re-checks composed copy before it leaves the system.
type Firewall interface {
	CheckBanned(text string) (string, bool)
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Sender   EmailSender
	Firewall Firewall
}

package introsend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/logger"
	"github.com/saadbelcaidx/connector-os-sub007/internal/common/metrics"
	"github.com/saadbelcaidx/connector-os-sub007/internal/intro/gate"
)

const (
	sideDemand = "demand"
	sideSupply = "supply"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	sender   EmailSender
	firewall Firewall
	limiter  *rate.Limiter
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger,
		sender:   deps.Sender,
		firewall: deps.Firewall,
		limiter:  rate.NewLimiter(rate.Limit(config.SendRate), 1),
	}
}

type message struct {
	side   string
	to     string
	body   string
	sentID string
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	messages := []*message{
		{side: sideDemand, to: input.DemandTo, body: input.DemandBody, sentID: input.DemandMessageID},
		{side: sideSupply, to: input.SupplyTo, body: input.SupplyBody, sentID: input.SupplyMessageID},
	}

	for _, m := range messages {
		if err := s.check(m); err != nil {
			return nil, err
		}
	}

	if !s.config.SendEnabled || s.sender == nil {
		s.logger.Info("Email sending disabled, introduction not sent", map[string]interface{}{
			"introId": input.IntroID,
		})
		return &Output{Sent: false}, nil
	}

	subject := input.Subject
	if subject == "" {
		subject = s.config.Subject
	}

	for _, m := range messages {
		if m.sentID != "" {
			s.logger.Info("Skipping side already sent", map[string]interface{}{
				"introId":   input.IntroID,
				"side":      m.side,
				"messageId": m.sentID,
			})
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, s.sendError(m.side, err, messages)
		}
		id, err := s.sender.SendText(ctx, m.to, subject, m.body)
		if err != nil {
			return nil, s.sendError(m.side, err, messages)
		}
		m.sentID = id
		metrics.IntroductionEmailsSent.WithLabelValues(m.side).Inc()

		s.logger.Info("Introduction email sent", map[string]interface{}{
			"introId":   input.IntroID,
			"side":      m.side,
			"to":        m.to,
			"messageId": id,
		})
	}

	return &Output{
		Sent:            true,
		DemandMessageID: messages[0].sentID,
		SupplyMessageID: messages[1].sentID,
		SentAt:          time.Now().UTC(),
	}, nil
}

// check re-applies the recipient and banned-phrase checks to one side.
func (s *Service) check(m *message) error {
	if !gate.ValidEmail(m.to) {
		return errors.NewValidationFailedError(fmt.Sprintf("invalid %s recipient %q", m.side, m.to))
	}
	if s.firewall != nil {
		if phrase, banned := s.firewall.CheckBanned(m.body); banned {
			return errors.NewIntroPolicyViolationError(fmt.Sprintf("%s intro contains banned phrase %q", m.side, phrase))
		}
	}
	return nil
}

// sendError attaches the IDs of sides already delivered so a retry does not
// send them twice.
func (s *Service) sendError(side string, err error, messages []*message) error {
	stdErr := errors.NewIntroSendFailedError(side, err)
	for _, m := range messages {
		if m.sentID != "" {
			stdErr.WithMetadata(m.side+"MessageId", m.sentID)
		}
	}
	return stdErr
}

package whatsapp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotConfigured = errors.New("messaging gateway credentials are not configured")

type Config struct {
	AccountSID string
	AuthToken  string
	From       string // sender number, without the whatsapp: prefix
}

// Sender delivers WhatsApp messages through Twilio. The REST client is
// built per call, matching the on-demand construction of the source.
type Sender struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Sender {
	return &Sender{cfg: cfg, log: log}
}

func (s *Sender) Send(to, body string) error {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" || s.cfg.From == "" {
		return ErrNotConfigured
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.cfg.AccountSID,
		Password: s.cfg.AuthToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(withPrefix(to))
	params.SetFrom(withPrefix(s.cfg.From))
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		s.log.Warn().Err(err).Str("to", to).Msg("failed to send WhatsApp message")
		return fmt.Errorf("failed to send WhatsApp message: %w", err)
	}

	s.log.Info().Str("to", to).Msg("WhatsApp message sent")
	return nil
}

func withPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

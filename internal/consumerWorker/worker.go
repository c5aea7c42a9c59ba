package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wb-go/wbf/zlog"

	"eventpay/internal/dto"
	"eventpay/internal/mailer"
	"eventpay/internal/model"
	"eventpay/internal/rabbit"
	"eventpay/internal/repo"
)

// EventDetailsDelaySeconds separates the payment receipt from the
// event-details email so the payer gets two short messages instead of
// one dense one.
const EventDetailsDelaySeconds = 10

// Store is the slice of the repository the worker needs.
type Store interface {
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetCurrentEvent(ctx context.Context) (*model.Event, error)
	UpdateRegistrationStatus(ctx context.Context, id int64, status string) error
}

// Sender is the mail transport seam.
type Sender interface {
	Send(to, subject, body string) error
}

// Reader consumes notification jobs from the queue and drives the
// post-payment email sequence.
type Reader struct {
	RMQ          *rabbit.Client
	store        Store
	mail         Sender
	publisher    rabbit.Publisher
	fallbackLink string
	done         chan struct{}
	cancel       context.CancelFunc
}

func NewReader(rmq *rabbit.Client, store Store, mail Sender, fallbackLink string) *Reader {
	return &Reader{
		RMQ:          rmq,
		store:        store,
		mail:         mail,
		publisher:    rmq,
		fallbackLink: fallbackLink,
		done:         make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification worker started")

	go func() {
		defer close(r.done)

		if err := r.RMQ.Consume(func(body []byte) error {
			return r.handleMessage(cctx, body)
		}); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// handleMessage dispatches one queued job. Returning an error requeues
// the delivery; mail failures are logged and swallowed so notification
// trouble never loops a job forever.
func (r *Reader) handleMessage(ctx context.Context, body []byte) error {
	var msg dto.NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		zlog.Logger.Error().Err(err).Msgf("dropping unparseable message: %s", string(body))
		return nil
	}

	zlog.Logger.Info().
		Str("kind", msg.Kind).
		Int64("registration_id", msg.RegistrationID).
		Msg("received notification job")

	switch msg.Kind {
	case dto.NotifyPaymentConfirmed:
		return r.handlePaymentConfirmed(ctx, msg)
	case dto.NotifyEventDetails:
		return r.handleEventDetails(ctx, msg)
	case dto.NotifyPaymentFailed:
		return r.handlePaymentFailed(ctx, msg)
	default:
		zlog.Logger.Warn().Str("kind", msg.Kind).Msg("dropping job of unknown kind")
		return nil
	}
}

// handlePaymentConfirmed marks the registration Paid, sends the receipt
// email and schedules the delayed event-details stage.
func (r *Reader) handlePaymentConfirmed(ctx context.Context, msg dto.NotificationMessage) error {
	if err := r.store.UpdateRegistrationStatus(ctx, msg.RegistrationID, model.StatusPaid); err != nil {
		zlog.Logger.Error().Err(err).
			Int64("registration_id", msg.RegistrationID).
			Msg("failed to mark registration paid")
		return err
	}

	reg, err := r.store.GetRegistrationByID(ctx, msg.RegistrationID)
	if err != nil {
		zlog.Logger.Error().Err(err).
			Int64("registration_id", msg.RegistrationID).
			Msg("failed to load registration for receipt email")
		return nil
	}

	subject, body := mailer.PaymentSuccessEmail(reg.FullName, reg.Amount)
	if err := r.mail.Send(reg.Email, subject, body); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to send payment receipt email")
	}

	next := dto.NotificationMessage{
		Kind:           dto.NotifyEventDetails,
		RegistrationID: msg.RegistrationID,
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := r.publisher.Publish(payload, EventDetailsDelaySeconds); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to schedule event-details email")
	}
	return nil
}

func (r *Reader) handleEventDetails(ctx context.Context, msg dto.NotificationMessage) error {
	reg, err := r.store.GetRegistrationByID(ctx, msg.RegistrationID)
	if err != nil {
		zlog.Logger.Error().Err(err).
			Int64("registration_id", msg.RegistrationID).
			Msg("failed to load registration for event-details email")
		return nil
	}

	event, err := r.store.GetCurrentEvent(ctx)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to load current event for email")
		return nil
	}

	subject, body := mailer.EventDetailsEmail(reg.FullName, event, r.fallbackLink)
	if err := r.mail.Send(reg.Email, subject, body); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to send event-details email")
	}
	return nil
}

// handlePaymentFailed resolves the registration, sends the failure email
// and resets the status to Unpaid. A vanished registration is a no-op.
func (r *Reader) handlePaymentFailed(ctx context.Context, msg dto.NotificationMessage) error {
	reg, err := r.store.GetRegistrationByID(ctx, msg.RegistrationID)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			zlog.Logger.Warn().
				Int64("registration_id", msg.RegistrationID).
				Msg("failure notification for unknown registration, skipping")
			return nil
		}
		zlog.Logger.Error().Err(err).
			Int64("registration_id", msg.RegistrationID).
			Msg("failed to load registration for failure email")
		return err
	}

	subject, body := mailer.PaymentFailureEmail(reg.FullName, msg.Reason, msg.Cancelled)
	if err := r.mail.Send(reg.Email, subject, body); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to send payment failure email")
	}

	if err := r.store.UpdateRegistrationStatus(ctx, msg.RegistrationID, model.StatusUnpaid); err != nil {
		zlog.Logger.Error().Err(err).
			Int64("registration_id", msg.RegistrationID).
			Msg("failed to reset registration to unpaid")
		return err
	}
	return nil
}

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventpay/internal/dto"
	"eventpay/internal/model"
	"eventpay/internal/rabbit"
	"eventpay/internal/repo"
	"eventpay/pkg/validator"
)

type Service interface {
	GetEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	Register(ctx *ginext.Context)
	GetRegistrations(ctx *ginext.Context)
	CreateOrder(ctx *ginext.Context)
	VerifyPayment(ctx *ginext.Context)
	AdminLogin(ctx *ginext.Context)
	SendWhatsApp(ctx *ginext.Context)
	Health(ctx *ginext.Context)
	Root(ctx *ginext.Context)
}

// Gateway is the payment-gateway seam.
type Gateway interface {
	CreateOrder(amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	PublicKey() string
}

// MessageSender is the synchronous WhatsApp seam.
type MessageSender interface {
	Send(to, body string) error
}

type service struct {
	repo    repo.Repository
	log     *zerolog.Logger
	queue   rabbit.Publisher
	gateway Gateway
	wa      MessageSender
}

func NewService(repo repo.Repository, log *zerolog.Logger, queue rabbit.Publisher, gw Gateway, wa MessageSender) Service {
	return &service{
		repo:    repo,
		log:     log,
		queue:   queue,
		gateway: gw,
		wa:      wa,
	}
}

func (s *service) Root(ctx *ginext.Context) {
	ctx.String(200, "Backend server is running!")
}

func (s *service) Health(ctx *ginext.Context) {
	connected := s.repo.Ping() == nil
	ctx.JSON(200, dto.HealthResponse{
		Status: "ok",
		DB:     dto.DBHealth{Connected: connected},
	})
}

func (s *service) GetEvent(ctx *ginext.Context) {
	event, err := s.repo.GetCurrentEvent(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load current event")
		dto.DatabaseError(ctx)
		return
	}
	ctx.JSON(200, event)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.FailResponse(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FailResponse(ctx, fmt.Sprintf("%v", verr))
		return
	}

	event := &model.Event{
		Title:          req.Title,
		ScheduledDate:  req.ScheduledDate,
		ScheduledTime:  req.ScheduledTime,
		About:          req.About,
		Features:       req.Features,
		Price:          req.Price,
		EventLink:      req.EventLink,
		TargetAudience: req.TargetAudience,
		BrandLogo:      req.BrandLogo,
		BrandName:      req.BrandName,
	}

	if err := s.repo.ReplaceCurrentEvent(ctx.Request.Context(), event); err != nil {
		s.log.Error().Err(err).Msg("failed to replace current event")
		dto.InternalError(ctx, dto.MsgDatabaseError)
		return
	}

	dto.SuccessTrue(ctx)
}

func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.FailResponse(ctx, "Please fill all required fields")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FailResponse(ctx, fmt.Sprintf("%v", verr))
		return
	}

	registration := &model.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Org:      req.Org,
		Role:     req.Role,
		Amount:   req.Amount,
		Status:   model.StatusUnpaid,
	}

	id, updated, err := s.repo.RegisterTx(ctx.Request.Context(), registration)
	if err != nil {
		if err == repo.ErrAlreadyPaid {
			dto.AlreadyPaidError(ctx)
			return
		}
		s.log.Error().Err(err).Str("email", req.Email).Msg("failed to register participant")
		dto.DatabaseError(ctx)
		return
	}

	s.log.Info().Int64("registration_id", id).Bool("updated", updated).Msg("registration stored")

	ctx.JSON(200, dto.RegisterResponse{Success: true, ID: id, Updated: updated})
}

func (s *service) GetRegistrations(ctx *ginext.Context) {
	regs, err := s.repo.GetAllRegistrations(ctx.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.DatabaseError(ctx)
		return
	}
	ctx.JSON(200, regs)
}

func (s *service) CreateOrder(ctx *ginext.Context) {
	var req dto.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.FailResponse(ctx, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FailResponse(ctx, "Amount is required and must be positive")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	}

	amountMinor := int64(math.Round(req.Amount * 100))

	orderID, err := s.gateway.CreateOrder(amountMinor, currency, receipt, req.Notes)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create gateway order")
		dto.InternalError(ctx, "Failed to create order")
		return
	}

	ctx.JSON(200, dto.CreateOrderResponse{
		ID:       orderID,
		Amount:   amountMinor,
		Currency: currency,
		Key:      s.gateway.PublicKey(),
	})
}

// VerifyPayment is the gateway callback. The branch order matters:
// explicit client-reported status first, then field presence, then the
// signature check. The success notification sequence runs through the
// queue; the response never waits for it.
func (s *service) VerifyPayment(ctx *ginext.Context) {
	var req dto.VerifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.FailResponse(ctx, "Invalid JSON format")
		return
	}

	if req.Status != "" && req.RegistrationID != 0 {
		cancelled := req.Status == "cancelled"
		reason := "Payment failed"
		if cancelled {
			reason = "Payment cancelled"
		}
		s.enqueueFailure(req.RegistrationID, reason, cancelled)

		if err := s.repo.UpdateRegistrationStatus(ctx.Request.Context(), req.RegistrationID, model.StatusUnpaid); err != nil {
			s.log.Error().Err(err).Msg("failed to reset registration after reported failure")
			dto.VerificationFailedError(ctx)
			return
		}

		dto.FailResponse(ctx, req.Status)
		return
	}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		if req.RegistrationID != 0 {
			s.enqueueFailure(req.RegistrationID, dto.MsgMissingFields, false)
		}
		dto.FailResponse(ctx, dto.MsgMissingFields)
		return
	}

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		if req.RegistrationID != 0 {
			s.enqueueFailure(req.RegistrationID, dto.MsgInvalidSignature, false)
			if err := s.repo.UpdateRegistrationStatus(ctx.Request.Context(), req.RegistrationID, model.StatusUnpaid); err != nil {
				s.log.Error().Err(err).Msg("failed to reset registration after signature mismatch")
				dto.VerificationFailedError(ctx)
				return
			}
		}
		dto.FailResponse(ctx, dto.MsgInvalidSignature)
		return
	}

	if req.RegistrationID != 0 {
		msg := dto.NotificationMessage{
			Kind:           dto.NotifyPaymentConfirmed,
			RegistrationID: req.RegistrationID,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to marshal confirmation job")
		} else if err := s.queue.Publish(payload, 0); err != nil {
			s.log.Error().Err(err).Msg("failed to enqueue confirmation job")
		}
	}

	dto.SuccessTrue(ctx)
}

// enqueueFailure is best effort: a queue fault is logged, never surfaced.
func (s *service) enqueueFailure(registrationID int64, reason string, cancelled bool) {
	msg := dto.NotificationMessage{
		Kind:           dto.NotifyPaymentFailed,
		RegistrationID: registrationID,
		Reason:         reason,
		Cancelled:      cancelled,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal failure job")
		return
	}
	if err := s.queue.Publish(payload, 0); err != nil {
		s.log.Error().Err(err).Msg("failed to enqueue failure notification")
	}
}

func (s *service) AdminLogin(ctx *ginext.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.UnauthorizedError(ctx)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.UnauthorizedError(ctx)
		return
	}

	ok, err := s.repo.CheckAdminCredentials(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to check admin credentials")
		dto.DatabaseError(ctx)
		return
	}
	if !ok {
		dto.UnauthorizedError(ctx)
		return
	}

	dto.SuccessTrue(ctx)
}

func (s *service) SendWhatsApp(ctx *ginext.Context) {
	var req dto.SendWhatsAppRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.FailResponse(ctx, dto.MsgMissingFields)
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.FailResponse(ctx, dto.MsgMissingFields)
		return
	}

	if err := s.wa.Send(req.To, req.Message); err != nil {
		s.log.Error().Err(err).Str("to", req.To).Msg("failed to send WhatsApp message")
		dto.InternalError(ctx, "Failed to send message")
		return
	}

	dto.SuccessTrue(ctx)
}

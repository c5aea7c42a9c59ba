package dto

import (
	"github.com/wb-go/wbf/ginext"
)

const (
	MsgDatabaseError      = "Database error"
	MsgVerificationFailed = "Verification failed"
	MsgMissingFields      = "Missing fields"
	MsgInvalidSignature   = "Invalid signature"
)

// Notification job kinds carried through the queue.
const (
	NotifyPaymentConfirmed = "payment_confirmed"
	NotifyEventDetails     = "event_details"
	NotifyPaymentFailed    = "payment_failed"
)

type RegisterRequest struct {
	FullName string  `json:"fullName" validate:"required,min=2,max=255"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"required"`
	Org      string  `json:"org"`
	Role     string  `json:"role"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type RegisterResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
	Updated bool  `json:"updated"`
}

type UpdateEventRequest struct {
	Title          string   `json:"title"`
	ScheduledDate  string   `json:"scheduledDate"`
	ScheduledTime  string   `json:"scheduledTime"`
	About          string   `json:"about"`
	Features       []string `json:"features"`
	Price          float64  `json:"price" validate:"gte=0"`
	EventLink      string   `json:"eventLink"`
	TargetAudience []string `json:"targetAudience"`
	BrandLogo      string   `json:"brandLogo"`
	BrandName      string   `json:"brandName"`
}

type CreateOrderRequest struct {
	Amount   float64           `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type CreateOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// RegistrationID and Status are optional; zero values mean absent.
type VerifyPaymentRequest struct {
	OrderID        string `json:"orderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
	RegistrationID int64  `json:"registrationId"`
	Status         string `json:"status"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SendWhatsAppRequest struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// NotificationMessage is the queued job handed to the consumer worker.
type NotificationMessage struct {
	Kind           string `json:"kind"`
	RegistrationID int64  `json:"registration_id"`
	Reason         string `json:"reason,omitempty"`
	Cancelled      bool   `json:"cancelled,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type AlreadyPaidResponse struct {
	Success     bool `json:"success"`
	AlreadyPaid bool `json:"alreadyPaid"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DBHealth struct {
	Connected bool `json:"connected"`
}

type HealthResponse struct {
	Status string   `json:"status"`
	DB     DBHealth `json:"db"`
}

func SuccessTrue(c *ginext.Context) {
	c.JSON(200, StatusResponse{Success: true})
}

func FailResponse(c *ginext.Context, message string) {
	c.JSON(400, StatusResponse{Success: false, Message: message})
}

func AlreadyPaidError(c *ginext.Context) {
	c.JSON(400, AlreadyPaidResponse{Success: false, AlreadyPaid: true})
}

func UnauthorizedError(c *ginext.Context) {
	c.JSON(401, StatusResponse{Success: false})
}

func DatabaseError(c *ginext.Context) {
	c.JSON(500, MessageResponse{Message: MsgDatabaseError})
}

func VerificationFailedError(c *ginext.Context) {
	c.JSON(500, MessageResponse{Message: MsgVerificationFailed})
}

func InternalError(c *ginext.Context, message string) {
	c.JSON(500, StatusResponse{Success: false, Message: message})
}

package mailer

import (
	"fmt"

	"eventpay/internal/model"
)

// PaymentSuccessEmail is the immediate receipt sent right after a
// verified payment.
func PaymentSuccessEmail(name string, amount float64) (subject, body string) {
	subject = "Payment Successful"
	body = fmt.Sprintf(
		"Hi %s,\n\nWe have received your payment of ₹%.2f.\nYour registration details will follow shortly.\n\nThank you!",
		name, amount,
	)
	return subject, body
}

// EventDetailsEmail is the delayed confirmation carrying the current
// event details. fallbackLink is used when the event has no join link.
func EventDetailsEmail(name string, ev *model.Event, fallbackLink string) (subject, body string) {
	link := ev.EventLink
	if link == "" {
		link = fallbackLink
	}

	subject = fmt.Sprintf("Registration Confirmed: %s", ev.Title)
	body = fmt.Sprintf(
		"Hi %s,\n\nYour registration for %s is confirmed.\n\nDate: %s\nTime: %s\nJoin link: %s\n\nSee you there!\n%s",
		name, ev.Title, ev.ScheduledDate, ev.ScheduledTime, link, ev.BrandName,
	)
	return subject, body
}

// PaymentFailureEmail covers cancelled and failed payments; reason is the
// client-facing failure message.
func PaymentFailureEmail(name, reason string, cancelled bool) (subject, body string) {
	if cancelled {
		subject = "Payment Cancelled"
		body = fmt.Sprintf(
			"Hi %s,\n\nYour payment was cancelled. Your registration is still reserved — you can retry the payment any time.",
			name,
		)
		return subject, body
	}

	subject = "Payment Failed"
	body = fmt.Sprintf(
		"Hi %s,\n\nYour payment could not be completed (%s). Please try again.",
		name, reason,
	)
	return subject, body
}

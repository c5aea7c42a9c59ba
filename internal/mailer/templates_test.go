package mailer

import (
	"strings"
	"testing"

	"eventpay/internal/model"
)

func TestEventDetailsEmailUsesEventLink(t *testing.T) {
	ev := &model.Event{
		Title:         "Growth Summit",
		ScheduledDate: "2026-09-12",
		ScheduledTime: "10:00 AM",
		EventLink:     "https://meet.example.com/summit",
		BrandName:     "HT",
	}

	subject, body := EventDetailsEmail("Asha", ev, "https://fallback.example.com")
	if !strings.Contains(subject, "Growth Summit") {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "https://meet.example.com/summit") {
		t.Errorf("body missing event link: %q", body)
	}
	if strings.Contains(body, "fallback.example.com") {
		t.Errorf("fallback link used despite event link: %q", body)
	}
}

func TestEventDetailsEmailFallsBackToOrigin(t *testing.T) {
	ev := &model.Event{Title: "Growth Summit"}

	_, body := EventDetailsEmail("Asha", ev, "https://fallback.example.com")
	if !strings.Contains(body, "https://fallback.example.com") {
		t.Errorf("body missing fallback link: %q", body)
	}
}

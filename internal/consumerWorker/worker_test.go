package consumerWorker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"eventpay/internal/dto"
	"eventpay/internal/model"
	"eventpay/internal/repo"
)

type mockStore struct {
	GetRegistrationByIDFunc      func(ctx context.Context, id int64) (*model.Registration, error)
	GetCurrentEventFunc          func(ctx context.Context) (*model.Event, error)
	UpdateRegistrationStatusFunc func(ctx context.Context, id int64, status string) error

	statusCalls []string
}

func (m *mockStore) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	if m.GetRegistrationByIDFunc != nil {
		return m.GetRegistrationByIDFunc(ctx, id)
	}
	return &model.Registration{ID: id, FullName: "Asha", Email: "asha@example.com", Amount: 500}, nil
}

func (m *mockStore) GetCurrentEvent(ctx context.Context) (*model.Event, error) {
	if m.GetCurrentEventFunc != nil {
		return m.GetCurrentEventFunc(ctx)
	}
	ev := &model.Event{Title: "Growth Summit", ScheduledDate: "2026-09-12", ScheduledTime: "10:00"}
	ev.ApplyDefaults()
	return ev, nil
}

func (m *mockStore) UpdateRegistrationStatus(ctx context.Context, id int64, status string) error {
	m.statusCalls = append(m.statusCalls, status)
	if m.UpdateRegistrationStatusFunc != nil {
		return m.UpdateRegistrationStatusFunc(ctx, id, status)
	}
	return nil
}

type sentMail struct {
	to, subject, body string
}

type mockSender struct {
	SendFunc func(to, subject, body string) error
	sent     []sentMail
}

func (m *mockSender) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	return nil
}

type published struct {
	body  []byte
	delay int
}

type mockPublisher struct {
	PublishFunc func(message []byte, delaySeconds int) error
	messages    []published
}

func (m *mockPublisher) Publish(message []byte, delaySeconds int) error {
	m.messages = append(m.messages, published{message, delaySeconds})
	if m.PublishFunc != nil {
		return m.PublishFunc(message, delaySeconds)
	}
	return nil
}

func newTestReader(store *mockStore, mail *mockSender, pub *mockPublisher) *Reader {
	return &Reader{
		store:        store,
		mail:         mail,
		publisher:    pub,
		fallbackLink: "https://front.example.com",
		done:         make(chan struct{}),
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestPaymentConfirmedJob(t *testing.T) {
	store := &mockStore{}
	mail := &mockSender{}
	pub := &mockPublisher{}
	r := newTestReader(store, mail, pub)

	body := mustJSON(t, dto.NotificationMessage{Kind: dto.NotifyPaymentConfirmed, RegistrationID: 7})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(store.statusCalls) != 1 || store.statusCalls[0] != model.StatusPaid {
		t.Fatalf("status calls = %v, want one Paid", store.statusCalls)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mail.sent))
	}
	if mail.sent[0].to != "asha@example.com" || mail.sent[0].subject != "Payment Successful" {
		t.Fatalf("unexpected receipt email: %+v", mail.sent[0])
	}

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	if pub.messages[0].delay != EventDetailsDelaySeconds {
		t.Fatalf("second stage delay = %d, want %d", pub.messages[0].delay, EventDetailsDelaySeconds)
	}
	var next dto.NotificationMessage
	if err := json.Unmarshal(pub.messages[0].body, &next); err != nil {
		t.Fatalf("unmarshal scheduled job: %v", err)
	}
	if next.Kind != dto.NotifyEventDetails || next.RegistrationID != 7 {
		t.Fatalf("scheduled job = %+v", next)
	}
}

func TestPaymentConfirmedRequeuesOnStoreError(t *testing.T) {
	store := &mockStore{
		UpdateRegistrationStatusFunc: func(ctx context.Context, id int64, status string) error {
			return errors.New("db down")
		},
	}
	r := newTestReader(store, &mockSender{}, &mockPublisher{})

	body := mustJSON(t, dto.NotificationMessage{Kind: dto.NotifyPaymentConfirmed, RegistrationID: 7})
	if err := r.handleMessage(context.Background(), body); err == nil {
		t.Fatal("expected an error to requeue the job")
	}
}

func TestPaymentConfirmedMailFailureIsSwallowed(t *testing.T) {
	mail := &mockSender{SendFunc: func(to, subject, body string) error {
		return errors.New("smtp down")
	}}
	pub := &mockPublisher{}
	r := newTestReader(&mockStore{}, mail, pub)

	body := mustJSON(t, dto.NotificationMessage{Kind: dto.NotifyPaymentConfirmed, RegistrationID: 7})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("mail failure leaked: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatal("second stage not scheduled after mail failure")
	}
}

func TestEventDetailsJob(t *testing.T) {
	store := &mockStore{
		GetCurrentEventFunc: func(ctx context.Context) (*model.Event, error) {
			ev := &model.Event{Title: "Growth Summit"}
			ev.ApplyDefaults()
			return ev, nil
		},
	}
	mail := &mockSender{}
	r := newTestReader(store, mail, &mockPublisher{})

	body := mustJSON(t, dto.NotificationMessage{Kind: dto.NotifyEventDetails, RegistrationID: 7})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].subject, "Growth Summit") {
		t.Fatalf("subject = %q", mail.sent[0].subject)
	}
	// the event has no join link, so the front-end origin stands in
	if !strings.Contains(mail.sent[0].body, "https://front.example.com") {
		t.Fatalf("body missing fallback link: %q", mail.sent[0].body)
	}
}

func TestPaymentFailedJob(t *testing.T) {
	store := &mockStore{}
	mail := &mockSender{}
	r := newTestReader(store, mail, &mockPublisher{})

	body := mustJSON(t, dto.NotificationMessage{
		Kind:           dto.NotifyPaymentFailed,
		RegistrationID: 7,
		Reason:         "Invalid signature",
	})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}

	if len(mail.sent) != 1 || mail.sent[0].subject != "Payment Failed" {
		t.Fatalf("failure email = %+v", mail.sent)
	}
	if len(store.statusCalls) != 1 || store.statusCalls[0] != model.StatusUnpaid {
		t.Fatalf("status calls = %v, want one Unpaid", store.statusCalls)
	}
}

func TestPaymentFailedUnknownRegistrationIsNoOp(t *testing.T) {
	store := &mockStore{
		GetRegistrationByIDFunc: func(ctx context.Context, id int64) (*model.Registration, error) {
			return nil, repo.ErrRegistrationNotFound
		},
	}
	mail := &mockSender{}
	r := newTestReader(store, mail, &mockPublisher{})

	body := mustJSON(t, dto.NotificationMessage{Kind: dto.NotifyPaymentFailed, RegistrationID: 99})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if len(mail.sent) != 0 {
		t.Fatal("email sent for unknown registration")
	}
	if len(store.statusCalls) != 0 {
		t.Fatal("status touched for unknown registration")
	}
}

func TestUnparseableAndUnknownMessagesAreDropped(t *testing.T) {
	r := newTestReader(&mockStore{}, &mockSender{}, &mockPublisher{})

	if err := r.handleMessage(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("bad json requeued: %v", err)
	}

	body := mustJSON(t, dto.NotificationMessage{Kind: "mystery", RegistrationID: 1})
	if err := r.handleMessage(context.Background(), body); err != nil {
		t.Fatalf("unknown kind requeued: %v", err)
	}
}

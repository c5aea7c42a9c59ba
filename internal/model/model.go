package model

import (
	"strings"
	"time"
)

const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

const (
	DefaultBrandLogo = "HT"
	DefaultBrandName = "Event"
)

// Event is the single mutable "current event" record. Features and
// TargetAudience are persisted as comma-joined strings.
type Event struct {
	Title          string   `db:"title" json:"title"`
	ScheduledDate  string   `db:"scheduled_date" json:"scheduledDate"`
	ScheduledTime  string   `db:"scheduled_time" json:"scheduledTime"`
	About          string   `db:"about" json:"about"`
	Features       []string `db:"-" json:"features"`
	Price          float64  `db:"price" json:"price"`
	EventLink      string   `db:"event_link" json:"eventLink"`
	TargetAudience []string `db:"-" json:"targetAudience"`
	BrandLogo      string   `db:"brand_logo" json:"brandLogo"`
	BrandName      string   `db:"brand_name" json:"brandName"`
}

type Registration struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Org       string    `db:"org" json:"org"`
	Role      string    `db:"role" json:"role"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Admin struct {
	ID       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

// JoinList encodes an ordered list as a comma-joined string.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

// SplitList decodes a comma-joined string; an empty string yields an
// empty (non-nil) list so it serializes as [] rather than null.
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// ApplyDefaults fills branding defaults and makes the list fields non-nil.
func (e *Event) ApplyDefaults() {
	if e.BrandLogo == "" {
		e.BrandLogo = DefaultBrandLogo
	}
	if e.BrandName == "" {
		e.BrandName = DefaultBrandName
	}
	if e.Features == nil {
		e.Features = []string{}
	}
	if e.TargetAudience == nil {
		e.TargetAudience = []string{}
	}
}

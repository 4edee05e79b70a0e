package model

import (
	"strings"
	"time"
)

// DonationType distinguishes the monetary and goods paths.
type DonationType string

const (
	DonationTypeMonetary DonationType = "monetary"
	DonationTypeGoods    DonationType = "goods"
)

// DonationStatusPending is assigned to every donation at creation.
const DonationStatusPending = "pending"

// Donation is a persisted donation submission.
type Donation struct {
	ID             int64
	UserID         string
	FirstName      string
	LastName       string
	Address        string
	PhoneNumber    string
	Email          string
	Amount         string
	Allocation     string
	Item           string
	Quantity       string
	ImageURL       string
	NeedPickup     string
	CanDropOff     string
	DatePickDrop   string
	DonationType   DonationType
	Status         string
	AmazonWishList string
	CreatedAt      time.Time
}

// FullName joins donor first and last name.
func (d Donation) FullName() string {
	return joinName(d.FirstName, d.LastName)
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

package entity

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

const PaymentMethodCard = "card"

// DriverEarning is created together with its ConnectedRide in the same
// transaction, never independently. Amounts are integer cents.
type DriverEarning struct {
	ID               string        `db:"id" json:"id"`
	DriverID         string        `db:"driver_id" json:"driver_id"`
	RideID           string        `db:"ride_id" json:"ride_id"`
	AmountCents      int64         `db:"amount_cents" json:"amount_cents"`
	FeeCents         int64         `db:"fee_cents" json:"fee_cents"`
	NetEarningsCents int64         `db:"net_earnings_cents" json:"net_earnings_cents"`
	Status           PaymentStatus `db:"status" json:"status"`
	PaymentDate      *time.Time    `db:"payment_date" json:"payment_date"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// PassengerPayment mirrors DriverEarning on the paying side.
type PassengerPayment struct {
	ID             string        `db:"id" json:"id"`
	PassengerID    string        `db:"passenger_id" json:"passenger_id"`
	RideID         string        `db:"ride_id" json:"ride_id"`
	AmountCents    int64         `db:"amount_cents" json:"amount_cents"`
	SurchargeCents int64         `db:"surcharge_cents" json:"surcharge_cents"`
	TotalPaidCents int64         `db:"total_paid_cents" json:"total_paid_cents"`
	Status         PaymentStatus `db:"status" json:"status"`
	PaymentMethod  string        `db:"payment_method" json:"payment_method"`
	PaidAt         *time.Time    `db:"paid_at" json:"paid_at"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

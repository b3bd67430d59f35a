package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/internal/model"
	mysqldb "negotiation-service/src/pkg/databases/mysql"
)

const mysqlDuplicateEntry = 1062

type SettlementRepository struct {
	DB mysqldb.DBInterface
}

func NewSettlementRepository(db mysqldb.DBInterface) *SettlementRepository {
	return &SettlementRepository{
		DB: db,
	}
}

// ConnectRide writes the connected ride, the driver earning, the passenger
// payment, the resolved conversation state, the ride request status and the
// notifications in one transaction. The unique constraint on
// connected_rides.ride_request_id makes a second accept fail with
// ErrDuplicateRide, so exactly one settlement survives a race.
func (r *SettlementRepository) ConnectRide(ctx context.Context, decision *model.ConnectRideDecision) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ride := decision.Ride
	_, err = tx.ExecContext(ctx, `
		INSERT INTO connected_rides
			(id, driver_id, passenger_id, ride_request_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ride.ID, ride.DriverID, ride.PassengerID, ride.RideRequestID, ride.Status, ride.CreatedAt, ride.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateRide
		}
		return err
	}

	earning := decision.Earning
	_, err = tx.ExecContext(ctx, `
		INSERT INTO driver_earnings
			(id, driver_id, ride_id, amount_cents, fee_cents, net_earnings_cents, status, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, earning.ID, earning.DriverID, earning.RideID, earning.AmountCents, earning.FeeCents,
		earning.NetEarningsCents, earning.Status, earning.PaymentDate, earning.CreatedAt)
	if err != nil {
		return err
	}

	payment := decision.Payment
	_, err = tx.ExecContext(ctx, `
		INSERT INTO passenger_payments
			(id, passenger_id, ride_id, amount_cents, surcharge_cents, total_paid_cents, status, payment_method, paid_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, payment.ID, payment.PassengerID, payment.RideID, payment.AmountCents, payment.SurchargeCents,
		payment.TotalPaidCents, payment.Status, payment.PaymentMethod, payment.PaidAt, payment.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE ride_requests SET status = ? WHERE id = ?
	`, entity.RideRequestCompleted, ride.RideRequestID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET state = ? WHERE ride_request_id = ?
	`, entity.ConversationRideResolved, ride.RideRequestID)
	if err != nil {
		return err
	}

	for _, n := range decision.Notifications {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO notifications
				(id, user_id, title, message, type, is_read, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.Metadata, n.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

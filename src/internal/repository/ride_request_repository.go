package repository

import (
	"context"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type RideRequestRepository struct {
	DB mysql.DBInterface
}

func NewRideRequestRepository(db mysql.DBInterface) *RideRequestRepository {
	return &RideRequestRepository{
		DB: db,
	}
}

func (r *RideRequestRepository) Create(ctx context.Context, rideRequest *entity.RideRequest) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ride_requests
			(id, passenger_id, price_cents, from_address, to_address, is_urgent, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		rideRequest.ID,
		rideRequest.PassengerID,
		rideRequest.PriceCents,
		rideRequest.FromAddress,
		rideRequest.ToAddress,
		rideRequest.IsUrgent,
		rideRequest.Status,
		rideRequest.CreatedAt,
	)
	return err
}

func (r *RideRequestRepository) FindByID(ctx context.Context, id string) (*entity.RideRequest, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rideRequest entity.RideRequest
	query := `
		SELECT id, passenger_id, price_cents, from_address, to_address, is_urgent, status, created_at
		FROM ride_requests
		WHERE id = ?
	`
	if err := db.GetContext(ctx, &rideRequest, query, id); err != nil {
		return nil, err
	}

	return &rideRequest, nil
}

func (r *RideRequestRepository) UpdateStatus(ctx context.Context, id string, status entity.RideRequestStatus) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE ride_requests SET status = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, status, id)
	return err
}

package repository

import (
	"context"
	"time"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type ConnectedRideRepository struct {
	DB mysql.DBInterface
}

func NewConnectedRideRepository(db mysql.DBInterface) *ConnectedRideRepository {
	return &ConnectedRideRepository{
		DB: db,
	}
}

func (r *ConnectedRideRepository) FindByID(ctx context.Context, id string) (*entity.ConnectedRide, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ride entity.ConnectedRide
	query := `
		SELECT id, driver_id, passenger_id, ride_request_id, status, created_at, updated_at
		FROM connected_rides
		WHERE id = ?
	`
	if err := db.GetContext(ctx, &ride, query, id); err != nil {
		return nil, err
	}

	return &ride, nil
}

func (r *ConnectedRideRepository) UpdateStatus(ctx context.Context, id string, status entity.ConnectedRideStatus) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	query := `UPDATE connected_rides SET status = ?, updated_at = ? WHERE id = ?`
	_, err = db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	return err
}

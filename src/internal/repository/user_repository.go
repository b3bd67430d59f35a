package repository

import (
	"context"

	"negotiation-service/src/internal/entity"
	"negotiation-service/src/pkg/databases/mysql"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var user entity.User
	query := `
		SELECT id, full_name, role, city, verified, image, created_at
		FROM users
		WHERE id = ?
	`
	if err := db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) FindDriverIDsByCity(ctx context.Context, city string) ([]string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ids []string
	query := `
		SELECT id
		FROM users
		WHERE city = ? AND role = ?
	`
	if err := db.SelectContext(ctx, &ids, query, city, entity.RoleDriver); err != nil {
		return nil, err
	}

	return ids, nil
}

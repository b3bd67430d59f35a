package entity

import (
	"database/sql"
	"time"
)

type Role string

const (
	RoleDriver    Role = "driver"
	RolePassenger Role = "passenger"
	RoleSupport   Role = "support"
	RoleAdmin     Role = "admin"
)

// User is owned by the external auth/profile service; the core only reads
// identity, role and city.
type User struct {
	ID        string         `db:"id" json:"id"`
	FullName  string         `db:"full_name" json:"full_name"`
	Role      Role           `db:"role" json:"role"`
	City      sql.NullString `db:"city" json:"city"`
	Verified  bool           `db:"verified" json:"verified"`
	Image     sql.NullString `db:"image" json:"image"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

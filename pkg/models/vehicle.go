package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles,alias:v"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `bun:",nullzero" json:"name"`
	LicensePlate *string   `json:"license_plate,omitempty"`
	Make         *string   `json:"make,omitempty"`
	Model        *string   `json:"model,omitempty"`

	Services []*VehicleService `bun:"rel:has-many,join:id=vehicle_id" json:"services,omitempty"`
}

// VehicleService is a recurring maintenance schedule for a vehicle.
type VehicleService struct {
	bun.BaseModel `bun:"table:vehicle_services,alias:vs"`

	ID           int        `bun:",pk,nullzero" json:"id"`
	VehicleID    int        `bun:",nullzero" json:"vehicle_id"`
	Name         string     `bun:",nullzero" json:"name"`
	IntervalDays *int       `json:"interval_days,omitempty"`
	LastDoneAt   *time.Time `json:"last_done_at,omitempty"`
}

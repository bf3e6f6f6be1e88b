package models

import "time"

type VehicleType string

const (
	VehicleCar        VehicleType = "car"
	VehicleMotorcycle VehicleType = "motorcycle"
)

type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
)

// Vehicle is a rentable unit. IsAvailable is operator-controlled and independent
// of reservation occupancy.
type Vehicle struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         VehicleType  `json:"type"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	PricePerDay  int64        `json:"price_per_day"`
	Description  *string      `json:"description"`
	ImageURL     *string      `json:"image_url"`
	Images       []string     `json:"images"`
	IsAvailable  bool         `json:"is_available"`
	Features     []string     `json:"features"`
	Transmission Transmission `json:"transmission"`
	Seats        *int         `json:"seats"`
	EngineCC     *int         `json:"engine_cc"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// VehiclePayload is the operator form for create/update.
type VehiclePayload struct {
	Name         string   `json:"name" form:"name" binding:"required"`
	Type         string   `json:"type" form:"type" binding:"required,oneof=car motorcycle"`
	Brand        string   `json:"brand" form:"brand" binding:"required"`
	Model        string   `json:"model" form:"model" binding:"required"`
	Year         int      `json:"year" form:"year" binding:"required,gte=2000,vehicleyear"`
	PricePerDay  int64    `json:"price_per_day" form:"price_per_day" binding:"required,gt=0"`
	Description  string   `json:"description" form:"description"`
	ImageURL     string   `json:"image_url" form:"image_url" binding:"omitempty,url"`
	Images       []string `json:"images" form:"images" binding:"omitempty,dive,url"`
	IsAvailable  *bool    `json:"is_available" form:"is_available"`
	Features     []string `json:"features" form:"features"`
	Transmission string   `json:"transmission" form:"transmission" binding:"required,oneof=manual automatic"`
	Seats        *int     `json:"seats" form:"seats" binding:"omitempty,gt=0"`
	EngineCC     *int     `json:"engine_cc" form:"engine_cc" binding:"omitempty,gt=0"`
}

// VehicleFilter narrows the public catalogue.
type VehicleFilter struct {
	Type          string
	Query         string
	AvailableOnly bool
}

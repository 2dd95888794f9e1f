package car

import (
	"time"
)

// Car is the GORM model for the cars table. Optional descriptive fields are
// nullable; spec_id links the car to its one maintenance spec (NULL until a
// spec is attached).
type Car struct {
	ID      string  `gorm:"primaryKey;size:36" json:"id"`
	Year    int     `gorm:"not null" json:"year"`
	Make    string  `gorm:"size:64;not null" json:"make"`
	Model   string  `gorm:"size:64;not null" json:"model"`
	Color   string  `gorm:"size:32;not null" json:"color"`
	VIN     *string `gorm:"column:vin;size:64" json:"vin"`
	Mileage *string `gorm:"size:32" json:"mileage"`
	Trim    *string `gorm:"size:64" json:"trim"`
	Notes   *string `gorm:"size:1024" json:"notes"`
	SpecID  *uint64 `gorm:"column:spec_id" json:"specId"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Car) TableName() string {
	return "cars"
}

// CarWithSpec is the combined view returned by the service: the car plus its
// spec, either raw (*carspec.CarSpec) or expanded (carspec.Expanded), nil
// when the car has none.
type CarWithSpec struct {
	Car
	Spec interface{} `json:"spec"`
}

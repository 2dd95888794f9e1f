package carspec

import (
	"time"
)

// CarSpec is the one-to-one maintenance specification attached to a car.
// Every *_id column points into one part-catalog table (see RefFields);
// license_plate_number is the only scalar column. All spec columns are
// nullable: a spec starts blank and is filled in field by field.
type CarSpec struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	EngineOilViscosityID        *uint64 `json:"engineOilViscosityId"`
	EngineOilQuantityID         *uint64 `json:"engineOilQuantityId"`
	EngineOilFilterID           *uint64 `json:"engineOilFilterId"`
	BrakeFluidTypeID            *uint64 `json:"brakeFluidTypeId"`
	BrakePadID                  *uint64 `json:"brakePadId"`
	BrakeRotorID                *uint64 `json:"brakeRotorId"`
	TireSizeID                  *uint64 `json:"tireSizeId"`
	TireTypeID                  *uint64 `json:"tireTypeId"`
	TransmissionFluidTypeID     *uint64 `json:"transmissionFluidTypeId"`
	TransmissionFluidQuantityID *uint64 `json:"transmissionFluidQuantityId"`
	CoolantTypeID               *uint64 `json:"coolantTypeId"`
	EngineAirFilterID           *uint64 `json:"engineAirFilterId"`
	CabinAirFilterID            *uint64 `json:"cabinAirFilterId"`
	WiperBladeSizeDriverID      *uint64 `json:"wiperBladeSizeDriverId"`
	WiperBladeSizePassengerID   *uint64 `json:"wiperBladeSizePassengerId"`
	HeadlightID                 *uint64 `json:"headlightId"`
	TaillightID                 *uint64 `json:"taillightId"`
	BrakeLightID                *uint64 `json:"brakeLightId"`
	TurnSignalLightID           *uint64 `json:"turnSignalLightId"`
	LicensePlateLightID         *uint64 `json:"licensePlateLightId"`
	BatteryID                   *uint64 `json:"batteryId"`
	SerpentineBeltID            *uint64 `json:"serpentineBeltId"`
	ThermostatID                *uint64 `json:"thermostatId"`

	LicensePlateNumber *string `gorm:"size:32" json:"licensePlateNumber"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CarSpec) TableName() string {
	return "car_specs"
}

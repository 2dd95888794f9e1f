package carspec

import (
	"strings"

	"github.com/CarTrax/CarTrax/internal/parts"
)

// RefField describes one reference column of the spec: its patch/JSON key,
// its DB column, the part table it points into and a typed getter. The list
// is fixed at startup and never mutated, so unsynchronized reads are safe.
type RefField struct {
	Name   string // JSON key, e.g. "brakePadId"
	Column string // DB column, e.g. "brake_pad_id"
	Table  parts.Table
	Get    func(*CarSpec) *uint64
}

// ExpandedKey is the key the field appears under in an expanded spec:
// the JSON key with the Id suffix stripped ("brakePadId" -> "brakePad").
func (f RefField) ExpandedKey() string {
	return strings.TrimSuffix(f.Name, "Id")
}

// RefFields enumerates every reference field of CarSpec, in column order.
// Both wiper blade fields point at the shared wiper_blade_size table.
var RefFields = []RefField{
	{"engineOilViscosityId", "engine_oil_viscosity_id", parts.TableEngineOilViscosity, func(s *CarSpec) *uint64 { return s.EngineOilViscosityID }},
	{"engineOilQuantityId", "engine_oil_quantity_id", parts.TableEngineOilQuantity, func(s *CarSpec) *uint64 { return s.EngineOilQuantityID }},
	{"engineOilFilterId", "engine_oil_filter_id", parts.TableEngineOilFilter, func(s *CarSpec) *uint64 { return s.EngineOilFilterID }},
	{"brakeFluidTypeId", "brake_fluid_type_id", parts.TableBrakeFluidType, func(s *CarSpec) *uint64 { return s.BrakeFluidTypeID }},
	{"brakePadId", "brake_pad_id", parts.TableBrakePad, func(s *CarSpec) *uint64 { return s.BrakePadID }},
	{"brakeRotorId", "brake_rotor_id", parts.TableBrakeRotor, func(s *CarSpec) *uint64 { return s.BrakeRotorID }},
	{"tireSizeId", "tire_size_id", parts.TableTireSize, func(s *CarSpec) *uint64 { return s.TireSizeID }},
	{"tireTypeId", "tire_type_id", parts.TableTireType, func(s *CarSpec) *uint64 { return s.TireTypeID }},
	{"transmissionFluidTypeId", "transmission_fluid_type_id", parts.TableTransmissionFluidType, func(s *CarSpec) *uint64 { return s.TransmissionFluidTypeID }},
	{"transmissionFluidQuantityId", "transmission_fluid_quantity_id", parts.TableTransmissionFluidQuantity, func(s *CarSpec) *uint64 { return s.TransmissionFluidQuantityID }},
	{"coolantTypeId", "coolant_type_id", parts.TableCoolantType, func(s *CarSpec) *uint64 { return s.CoolantTypeID }},
	{"engineAirFilterId", "engine_air_filter_id", parts.TableEngineAirFilter, func(s *CarSpec) *uint64 { return s.EngineAirFilterID }},
	{"cabinAirFilterId", "cabin_air_filter_id", parts.TableCabinAirFilter, func(s *CarSpec) *uint64 { return s.CabinAirFilterID }},
	{"wiperBladeSizeDriverId", "wiper_blade_size_driver_id", parts.TableWiperBladeSize, func(s *CarSpec) *uint64 { return s.WiperBladeSizeDriverID }},
	{"wiperBladeSizePassengerId", "wiper_blade_size_passenger_id", parts.TableWiperBladeSize, func(s *CarSpec) *uint64 { return s.WiperBladeSizePassengerID }},
	{"headlightId", "headlight_id", parts.TableHeadlight, func(s *CarSpec) *uint64 { return s.HeadlightID }},
	{"taillightId", "taillight_id", parts.TableTaillight, func(s *CarSpec) *uint64 { return s.TaillightID }},
	{"brakeLightId", "brake_light_id", parts.TableBrakeLight, func(s *CarSpec) *uint64 { return s.BrakeLightID }},
	{"turnSignalLightId", "turn_signal_light_id", parts.TableTurnSignalLight, func(s *CarSpec) *uint64 { return s.TurnSignalLightID }},
	{"licensePlateLightId", "license_plate_light_id", parts.TableLicensePlateLight, func(s *CarSpec) *uint64 { return s.LicensePlateLightID }},
	{"batteryId", "battery_id", parts.TableBattery, func(s *CarSpec) *uint64 { return s.BatteryID }},
	{"serpentineBeltId", "serpentine_belt_id", parts.TableSerpentineBelt, func(s *CarSpec) *uint64 { return s.SerpentineBeltID }},
	{"thermostatId", "thermostat_id", parts.TableThermostat, func(s *CarSpec) *uint64 { return s.ThermostatID }},
}

// patchColumns maps every updatable JSON key to its DB column, reference
// fields plus the scalar license plate.
var patchColumns = func() map[string]string {
	m := make(map[string]string, len(RefFields)+1)
	for _, f := range RefFields {
		m[f.Name] = f.Column
	}
	m["licensePlateNumber"] = "license_plate_number"
	return m
}()

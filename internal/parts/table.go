package parts

import "strings"

// Table is a validated part-catalog table name. Values are only produced by
// ResolveTable / ResolveLabel, so a Table in hand is always on the whitelist.
type Table string

const (
	TableBattery                   Table = "battery"
	TableBrakeFluidType            Table = "brake_fluid_type"
	TableBrakeLight                Table = "brake_light"
	TableBrakePad                  Table = "brake_pad"
	TableBrakeRotor                Table = "brake_rotor"
	TableCabinAirFilter            Table = "cabin_air_filter"
	TableCamshaftPositionSensor    Table = "camshaft_position_sensor"
	TableCoilPack                  Table = "coil_pack"
	TableCoolantType               Table = "coolant_type"
	TableCrankshaftPositionSensor  Table = "crankshaft_position_sensor"
	TableCrankshaftSprocket        Table = "crankshaft_sprocket"
	TableEngineAirFilter           Table = "engine_air_filter"
	TableEngineOilFilter           Table = "engine_oil_filter"
	TableEngineOilQuantity         Table = "engine_oil_quantity"
	TableEngineOilViscosity        Table = "engine_oil_viscosity"
	TableHeadGasket                Table = "head_gasket"
	TableHeadlight                 Table = "headlight"
	TableLicensePlateLight         Table = "license_plate_light"
	TableMafMapSensor              Table = "maf_map_sensor"
	TableSerpentineBelt            Table = "serpentine_belt"
	TableShocksStrut               Table = "shocks_strut"
	TableSparkPlug                 Table = "spark_plug"
	TableTaillight                 Table = "taillight"
	TableThermostat                Table = "thermostat"
	TableThrottlePositionSensor    Table = "throttle_position_sensor"
	TableTimingChain               Table = "timing_chain"
	TableTimingSprocket            Table = "timing_sprocket"
	TableTimingTensioner           Table = "timing_tensioner"
	TableTireSize                  Table = "tire_size"
	TableTireType                  Table = "tire_type"
	TableTransmissionFluidQuantity Table = "transmission_fluid_quantity"
	TableTransmissionFluidType     Table = "transmission_fluid_type"
	TableTurnSignalLight           Table = "turn_signal_light"
	TableValveCoverGasket          Table = "valve_cover_gasket"
	TableVvtSolenoid               Table = "vvt_solenoid"
	TableWiperBladeSize            Table = "wiper_blade_size"
)

// AllTables lists every part table, in migration order.
var AllTables = []Table{
	TableBattery,
	TableBrakeFluidType,
	TableBrakeLight,
	TableBrakePad,
	TableBrakeRotor,
	TableCabinAirFilter,
	TableCamshaftPositionSensor,
	TableCoilPack,
	TableCoolantType,
	TableCrankshaftPositionSensor,
	TableCrankshaftSprocket,
	TableEngineAirFilter,
	TableEngineOilFilter,
	TableEngineOilQuantity,
	TableEngineOilViscosity,
	TableHeadGasket,
	TableHeadlight,
	TableLicensePlateLight,
	TableMafMapSensor,
	TableSerpentineBelt,
	TableShocksStrut,
	TableSparkPlug,
	TableTaillight,
	TableThermostat,
	TableThrottlePositionSensor,
	TableTimingChain,
	TableTimingSprocket,
	TableTimingTensioner,
	TableTireSize,
	TableTireType,
	TableTransmissionFluidQuantity,
	TableTransmissionFluidType,
	TableTurnSignalLight,
	TableValveCoverGasket,
	TableVvtSolenoid,
	TableWiperBladeSize,
}

var tableSet = func() map[Table]struct{} {
	m := make(map[Table]struct{}, len(AllTables))
	for _, t := range AllTables {
		m[t] = struct{}{}
	}
	return m
}()

// labelToTable maps friendly FE labels (normalized) to table names.
// Both wiper blade spec fields share the wiper_blade_size table.
var labelToTable = map[string]Table{
	"battery":                     TableBattery,
	"brake fluid type":            TableBrakeFluidType,
	"brake light":                 TableBrakeLight,
	"brake pad":                   TableBrakePad,
	"brake rotor":                 TableBrakeRotor,
	"cabin air filter":            TableCabinAirFilter,
	"camshaft position sensor":    TableCamshaftPositionSensor,
	"coil pack":                   TableCoilPack,
	"coolant type":                TableCoolantType,
	"crankshaft position sensor":  TableCrankshaftPositionSensor,
	"crankshaft sprocket":         TableCrankshaftSprocket,
	"engine air filter":           TableEngineAirFilter,
	"engine oil filter":           TableEngineOilFilter,
	"engine oil quantity":         TableEngineOilQuantity,
	"engine oil viscosity":        TableEngineOilViscosity,
	"head gasket":                 TableHeadGasket,
	"headlight":                   TableHeadlight,
	"license plate light":         TableLicensePlateLight,
	"maf map sensor":              TableMafMapSensor,
	"serpentine belt":             TableSerpentineBelt,
	"shocks strut":                TableShocksStrut,
	"spark plug":                  TableSparkPlug,
	"taillight":                   TableTaillight,
	"thermostat":                  TableThermostat,
	"throttle position sensor":    TableThrottlePositionSensor,
	"timing chain":                TableTimingChain,
	"timing sprocket":             TableTimingSprocket,
	"timing tensioner":            TableTimingTensioner,
	"tire size":                   TableTireSize,
	"tire type":                   TableTireType,
	"transmission fluid quantity": TableTransmissionFluidQuantity,
	"transmission fluid type":     TableTransmissionFluidType,
	"turn signal light":           TableTurnSignalLight,
	"valve cover gasket":          TableValveCoverGasket,
	"vvt solenoid":                TableVvtSolenoid,
	"wiper blade size":            TableWiperBladeSize,
}

// ResolveTable validates a raw table name against the whitelist.
func ResolveTable(raw string) (Table, bool) {
	t := Table(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := tableSet[t]
	return t, ok
}

// ResolveLabel maps a friendly label ("Brake   Pad", " brake pad ") to its
// table. Normalization: trim, lowercase, collapse inner whitespace runs.
func ResolveLabel(raw string) (Table, bool) {
	t, ok := labelToTable[normalizeLabel(raw)]
	return t, ok
}

func normalizeLabel(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

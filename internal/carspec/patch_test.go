package carspec

import (
	"testing"
)

func TestFilterPatchSkipsNullishByDefault(t *testing.T) {
	p := Patch{
		"brakePadId":         "",
		"batteryId":          "null",
		"thermostatId":       nil,
		"licensePlateNumber": "",
	}
	cols := FilterPatch(p, false)
	if len(cols) != 0 {
		t.Fatalf("expected empty column set, got %v", cols)
	}
}

func TestFilterPatchWritesNullishWithAllowNull(t *testing.T) {
	p := Patch{
		"brakePadId":         nil,
		"batteryId":          "null",
		"licensePlateNumber": "",
	}
	cols := FilterPatch(p, true)
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %v", cols)
	}
	if v, ok := cols["brake_pad_id"]; !ok || v != nil {
		t.Fatalf("expected brake_pad_id NULL, got %v (present=%v)", v, ok)
	}
	// "" and "null" are written verbatim, not coerced to NULL
	if cols["battery_id"] != "null" {
		t.Fatalf("expected battery_id verbatim \"null\", got %v", cols["battery_id"])
	}
	if cols["license_plate_number"] != "" {
		t.Fatalf("expected license_plate_number verbatim \"\", got %v", cols["license_plate_number"])
	}
}

func TestFilterPatchClearTokenIgnoresAllowNull(t *testing.T) {
	for _, allowNull := range []bool{false, true} {
		cols := FilterPatch(Patch{"brakePadId": ClearValue}, allowNull)
		v, ok := cols["brake_pad_id"]
		if !ok || v != nil {
			t.Fatalf("allowNull=%v: expected brake_pad_id NULL, got %v (present=%v)", allowNull, v, ok)
		}
	}
}

func TestFilterPatchAbsentAndUnknownKeys(t *testing.T) {
	p := Patch{
		"brakePadId": float64(3),
		"bogusField": float64(9),
		"spec":       map[string]interface{}{},
	}
	cols := FilterPatch(p, false)
	if len(cols) != 1 {
		t.Fatalf("expected only brake_pad_id, got %v", cols)
	}
	if cols["brake_pad_id"] != float64(3) {
		t.Fatalf("expected value 3, got %v", cols["brake_pad_id"])
	}
}

func TestRefFieldsCoverPatchColumns(t *testing.T) {
	if len(RefFields) != 23 {
		t.Fatalf("expected 23 reference fields, got %d", len(RefFields))
	}
	if len(patchColumns) != len(RefFields)+1 {
		t.Fatalf("expected %d patch columns, got %d", len(RefFields)+1, len(patchColumns))
	}
	for _, f := range RefFields {
		if f.Get == nil {
			t.Fatalf("field %s has no getter", f.Name)
		}
		if f.Table == "" {
			t.Fatalf("field %s has no table", f.Name)
		}
	}
}

func TestExpandedKeyStripsIdSuffix(t *testing.T) {
	for _, f := range RefFields {
		key := f.ExpandedKey()
		if key == f.Name {
			t.Fatalf("expanded key of %s should differ from the field name", f.Name)
		}
		if key+"Id" != f.Name {
			t.Fatalf("expanded key %s does not round-trip to %s", key, f.Name)
		}
	}
}

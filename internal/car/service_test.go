package car

import (
	"context"
	"errors"
	"testing"

	"github.com/CarTrax/CarTrax/internal/carspec"
	"github.com/CarTrax/CarTrax/internal/parts"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&carspec.CarSpec{}, &Car{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := parts.Migrate(db); err != nil {
		t.Fatalf("migrate part tables: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *Repo, *carspec.Repo, *parts.Repo) {
	t.Helper()
	db := newTestDB(t)
	carsRepo := NewRepo(db)
	specsRepo := carspec.NewRepo(db)
	partsRepo := parts.NewRepo(db)
	svc := NewService(carsRepo, specsRepo, carspec.NewExpander(partsRepo))
	return svc, carsRepo, specsRepo, partsRepo
}

func camryBody() map[string]interface{} {
	return map[string]interface{}{
		"year":  float64(2020),
		"make":  "Toyota",
		"model": "Camry",
		"color": "blue",
	}
}

func TestCreateWithBlankSpec(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateWithBlankSpec(ctx, camryBody())
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected non-empty car id")
	}
	if created.Year != 2020 || created.Make != "Toyota" || created.Model != "Camry" || created.Color != "blue" {
		t.Fatalf("unexpected car fields: %+v", created.Car)
	}
	if created.SpecID == nil {
		t.Fatalf("expected linked spec")
	}
	sp, ok := created.Spec.(*carspec.CarSpec)
	if !ok || sp == nil {
		t.Fatalf("expected raw spec in combined view, got %T", created.Spec)
	}
	for _, f := range carspec.RefFields {
		if f.Get(sp) != nil {
			t.Fatalf("new spec field %s should be null", f.Name)
		}
	}
}

func TestCreateRejectsNonObjectPayload(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	for _, body := range []interface{}{nil, "camry", float64(5), []interface{}{"x"}} {
		if _, err := svc.CreateWithBlankSpec(ctx, body); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("body %v: expected ErrInvalidPayload, got %v", body, err)
		}
	}
}

func TestGetNotFoundIsNil(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.GetByID(ctx, uuid.NewString(), false)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing car, got %+v", got)
	}
}

func TestSpecPatchNullToleranceScenario(t *testing.T) {
	svc, _, specsRepo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateWithBlankSpec(ctx, camryBody())
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}

	// "" is an untouched form selector: no change (still null from creation)
	updated, err := svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"spec": map[string]interface{}{"brakePadId": ""},
	}, false)
	if err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}
	sp := updated.Spec.(*carspec.CarSpec)
	if sp.BrakePadID != nil {
		t.Fatalf("expected brakePadId untouched (null), got %v", *sp.BrakePadID)
	}

	// an explicit null with allowNull is a confirmed clear
	updated, err = svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"spec": map[string]interface{}{"brakePadId": nil},
	}, true)
	if err != nil {
		t.Fatalf("UpdateCarAndSpec allowNull: %v", err)
	}
	sp = updated.Spec.(*carspec.CarSpec)
	if sp.BrakePadID != nil {
		t.Fatalf("expected brakePadId null, got %v", *sp.BrakePadID)
	}

	// sanity: a real value still lands
	if _, err := svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"spec": map[string]interface{}{"brakePadId": float64(12)},
	}, false); err != nil {
		t.Fatalf("UpdateCarAndSpec set: %v", err)
	}
	stored, err := specsRepo.GetByID(ctx, *created.SpecID)
	if err != nil {
		t.Fatalf("GetByID spec: %v", err)
	}
	if stored.BrakePadID == nil || *stored.BrakePadID != 12 {
		t.Fatalf("expected brakePadId 12, got %v", stored.BrakePadID)
	}
}

func TestUpdateCarAndSpecTogether(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateWithBlankSpec(ctx, camryBody())
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}

	updated, err := svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"color": "red",
		"notes": "new brakes",
		"spec":  map[string]interface{}{"licensePlateNumber": "ABC123"},
	}, false)
	if err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}
	if updated.Color != "red" {
		t.Fatalf("expected color red, got %s", updated.Color)
	}
	if updated.Notes == nil || *updated.Notes != "new brakes" {
		t.Fatalf("expected notes set, got %v", updated.Notes)
	}
	// untouched car fields stay put
	if updated.Make != "Toyota" || updated.Year != 2020 {
		t.Fatalf("untouched fields changed: %+v", updated.Car)
	}
	sp := updated.Spec.(*carspec.CarSpec)
	if sp.LicensePlateNumber == nil || *sp.LicensePlateNumber != "ABC123" {
		t.Fatalf("expected plate ABC123, got %v", sp.LicensePlateNumber)
	}
}

func TestUpdateCreatesSpecLazily(t *testing.T) {
	svc, carsRepo, specsRepo, _ := newTestService(t)
	ctx := context.Background()

	// a car without a spec (e.g. imported data)
	c := &Car{ID: uuid.NewString(), Year: 2015, Make: "Honda", Model: "Fit", Color: "silver"}
	if err := carsRepo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.UpdateCarAndSpec(ctx, c.ID, map[string]interface{}{
		"spec": map[string]interface{}{"batteryId": float64(3)},
	}, false)
	if err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}
	if updated.SpecID == nil {
		t.Fatalf("expected spec created and linked")
	}
	stored, err := specsRepo.GetByID(ctx, *updated.SpecID)
	if err != nil {
		t.Fatalf("GetByID spec: %v", err)
	}
	if stored.BatteryID == nil || *stored.BatteryID != 3 {
		t.Fatalf("expected batteryId 3, got %v", stored.BatteryID)
	}
}

func TestUpdateNotFoundIsNil(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	got, err := svc.UpdateCarAndSpec(ctx, uuid.NewString(), map[string]interface{}{"color": "red"}, false)
	if err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing car, got %+v", got)
	}
}

func TestDeleteCascadesToSpec(t *testing.T) {
	svc, _, specsRepo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateWithBlankSpec(ctx, camryBody())
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	specID := *created.SpecID

	ok, err := svc.DeleteCarAndSpec(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteCarAndSpec: ok=%v err=%v", ok, err)
	}

	got, err := svc.GetByID(ctx, created.ID, false)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected car gone")
	}
	if _, err := specsRepo.GetByID(ctx, specID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected spec gone, got %v", err)
	}

	ok, err = svc.DeleteCarAndSpec(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteCarAndSpec again: %v", err)
	}
	if ok {
		t.Fatalf("expected not-found on second delete")
	}
}

func TestGetByVINAndLicensePlate(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	body := camryBody()
	body["vin"] = "1HGCM82633A123456"
	created, err := svc.CreateWithBlankSpec(ctx, body)
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	if _, err := svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"spec": map[string]interface{}{"licensePlateNumber": "PLT001"},
	}, false); err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}

	byVIN, err := svc.GetByVIN(ctx, "1HGCM82633A123456", false)
	if err != nil {
		t.Fatalf("GetByVIN: %v", err)
	}
	if byVIN == nil || byVIN.ID != created.ID {
		t.Fatalf("VIN lookup failed: %+v", byVIN)
	}

	byPlate, err := svc.GetByLicensePlate(ctx, "PLT001", false)
	if err != nil {
		t.Fatalf("GetByLicensePlate: %v", err)
	}
	if byPlate == nil || byPlate.ID != created.ID {
		t.Fatalf("plate lookup failed: %+v", byPlate)
	}

	missing, err := svc.GetByVIN(ctx, "nope", false)
	if err != nil {
		t.Fatalf("GetByVIN missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown vin")
	}
}

func TestGetWithExpand(t *testing.T) {
	svc, _, _, partsRepo := newTestService(t)
	ctx := context.Background()

	pad, err := partsRepo.Create(ctx, parts.TableBrakePad, "Ceramic 9012")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	created, err := svc.CreateWithBlankSpec(ctx, camryBody())
	if err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	if _, err := svc.UpdateCarAndSpec(ctx, created.ID, map[string]interface{}{
		"spec": map[string]interface{}{"brakePadId": float64(pad.ID)},
	}, false); err != nil {
		t.Fatalf("UpdateCarAndSpec: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID, true)
	if err != nil {
		t.Fatalf("GetByID expand: %v", err)
	}
	expanded, ok := got.Spec.(carspec.Expanded)
	if !ok {
		t.Fatalf("expected expanded spec, got %T", got.Spec)
	}
	ref, ok := expanded["brakePad"].(*parts.Ref)
	if !ok || ref == nil || ref.Data != "Ceramic 9012" {
		t.Fatalf("unexpected brakePad expansion: %v", expanded["brakePad"])
	}
	if expanded["battery"] != nil {
		t.Fatalf("expected nil battery expansion")
	}
}

func TestListIncludeSpec(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateWithBlankSpec(ctx, camryBody()); err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	other := camryBody()
	other["model"] = "Corolla"
	if _, err := svc.CreateWithBlankSpec(ctx, other); err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}

	rows, err := svc.List(ctx, ListOptions{IncludeSpec: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 cars, got %d", len(rows))
	}
	for _, r := range rows {
		if _, ok := r.Spec.(*carspec.CarSpec); !ok {
			t.Fatalf("expected hydrated spec, got %T", r.Spec)
		}
	}

	bare, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List bare: %v", err)
	}
	for _, r := range bare {
		if r.Spec != nil {
			t.Fatalf("expected no spec hydration, got %T", r.Spec)
		}
	}
}

func TestFilterCars(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateWithBlankSpec(ctx, camryBody()); err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}
	other := map[string]interface{}{
		"year": float64(2018), "make": "Honda", "model": "Civic", "color": "black",
	}
	if _, err := svc.CreateWithBlankSpec(ctx, other); err != nil {
		t.Fatalf("CreateWithBlankSpec: %v", err)
	}

	year := 2020
	rows, err := svc.Filter(ctx, FilterOptions{Year: &year, Make: "Toyota"}, false)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(rows) != 1 || rows[0].Model != "Camry" {
		t.Fatalf("unexpected filter result: %+v", rows)
	}

	rows, err = svc.Filter(ctx, FilterOptions{Make: "Audi"}, false)
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no Audis, got %d", len(rows))
	}
}

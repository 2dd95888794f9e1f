package car

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, c *Car) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetByVIN(ctx context.Context, vin string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	if err := db.Where("vin = ?", vin).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByLicensePlate resolves a car through its spec row, where the plate
// lives.
func (r *Repo) GetByLicensePlate(ctx context.Context, plate string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	err := db.
		Joins("JOIN car_specs ON car_specs.id = cars.spec_id").
		Where("car_specs.license_plate_number = ?", plate).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) List(ctx context.Context) ([]Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var cars []Car
	if err := db.Order("created_at desc").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Filter lists cars matching any subset of year/make/model (exact match).
func (r *Repo) Filter(ctx context.Context, year *int, make, model string) ([]Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Model(&Car{})
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	if make != "" {
		q = q.Where("make = ?", make)
	}
	if model != "" {
		q = q.Where("model = ?", model)
	}
	var cars []Car
	if err := q.Order("created_at desc").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Update writes only the given columns and bumps updated_at. An empty column
// set degrades to a fetch of the current row.
func (r *Repo) Update(ctx context.Context, id string, cols map[string]interface{}) (*Car, error) {
	if len(cols) == 0 {
		return r.GetByID(ctx, id)
	}
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	cols["updated_at"] = time.Now()
	res := db.Model(&Car{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Car{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

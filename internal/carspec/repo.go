package carspec

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

// CreateBlank inserts a spec row with every field NULL. Cars get one of
// these at creation time (or lazily on first spec patch).
func (r *Repo) CreateBlank(ctx context.Context) (*CarSpec, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	sp := &CarSpec{}
	if err := db.Create(sp).Error; err != nil {
		return nil, err
	}
	return sp, nil
}

func (r *Repo) GetByID(ctx context.Context, id uint64) (*CarSpec, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var sp CarSpec
	if err := db.Where("id = ?", id).First(&sp).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

// Update applies a filtered partial update (see FilterPatch). If nothing
// survives the filter the row is fetched instead of written, so a patch of
// untouched form fields is a pure no-op. Every real write bumps updated_at.
func (r *Repo) Update(ctx context.Context, id uint64, patch Patch, allowNull bool) (*CarSpec, error) {
	cols := FilterPatch(patch, allowNull)
	if len(cols) == 0 {
		return r.GetByID(ctx, id)
	}
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	cols["updated_at"] = time.Now()
	res := db.Model(&CarSpec{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id uint64) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&CarSpec{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

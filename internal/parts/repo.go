package parts

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repo is a generic accessor over the whitelisted part tables. Every method
// takes the target Table; the row shape is identical across tables.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) table(ctx context.Context, t Table) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx).Table(string(t))
}

func (r *Repo) List(ctx context.Context, t Table) ([]Part, error) {
	db := r.table(ctx, t)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []Part
	if err := db.Order("data asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) GetByID(ctx context.Context, t Table, id uint64) (*Part, error) {
	db := r.table(ctx, t)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var p Part
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, t Table, data string) (*Part, error) {
	db := r.table(ctx, t)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	p := Part{Data: data}
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Update changes the data column (the only updatable column). A nil data is a
// no-op that returns the current row.
func (r *Repo) Update(ctx context.Context, t Table, id uint64, data *string) (*Part, error) {
	if data == nil {
		return r.GetByID(ctx, t, id)
	}
	db := r.table(ctx, t)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	// Table() has no model schema attached, so stamp updated_at by hand.
	res := db.Where("id = ?", id).Updates(map[string]interface{}{
		"data":       *data,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, t, id)
}

func (r *Repo) Delete(ctx context.Context, t Table, id uint64) (bool, error) {
	db := r.table(ctx, t)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Part{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Migrate creates every whitelisted part table.
func Migrate(db *gorm.DB) error {
	for _, t := range AllTables {
		if err := db.Table(string(t)).AutoMigrate(&Part{}); err != nil {
			return fmt.Errorf("failed to migrate part table %s: %w", t, err)
		}
	}
	return nil
}

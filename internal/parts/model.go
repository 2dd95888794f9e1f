package parts

import (
	"time"
)

// Part is the row shape shared by every part-catalog table. The table itself
// is chosen at query time; a row id is only unique within its table.
type Part struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Data      string    `gorm:"size:255;not null" json:"data"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Ref is the expanded form of a spec reference: just the id and the
// descriptive value (e.g. {id: 3, data: "5W-30"}).
type Ref struct {
	ID   uint64 `json:"id"`
	Data string `json:"data"`
}

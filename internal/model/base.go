package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 本地题库表的公共字段。删除统一走 Unscoped 硬删除，
// slug 才能在删除后复用。
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Key 是对外暴露的题库 ID
func (b BaseModel) Key() ID {
	return UintID(b.ID)
}

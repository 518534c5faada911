package entity

import "time"

// Theme представляет тему — именованную категорию вопросов
type Theme struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Questions []Question `gorm:"foreignKey:ThemeID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Theme) TableName() string {
	return "themes"
}

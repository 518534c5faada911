package entity

import "time"

// AdminSession представляет запись сессии администратора,
// хранимую во внешнем key-value хранилище под идентификатором сессии
type AdminSession struct {
	ID        string    `json:"id"`
	AdminID   uint      `json:"admin_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

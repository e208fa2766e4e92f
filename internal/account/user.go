package account

import (
	"time"

	"github.com/you/dockside-market/internal/domain"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Phone        string
	Role         domain.Role `gorm:"index"` // fisher|buyer|admin
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

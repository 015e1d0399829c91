package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Access roles, from least to most privileged.
const (
	RolOperador      = "operador"
	RolGestor        = "gestor"
	RolAdministrador = "administrador"
)

// Usuario stores back-office users with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Ativo        bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categoria is a catalogue category referenced by name from Produto.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	Ativo     bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Categoria) TableName() string { return "categorias" }

func (c *Categoria) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

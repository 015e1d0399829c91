package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement types.
const (
	MovimentoAjusteManual = "ajuste_manual"
	MovimentoEntrada      = "entrada"
	MovimentoSaida        = "saida"
	MovimentoDevolucao    = "devolucao"
)

// MovimentoEstoque is an immutable log entry for every quantity change.
// Quantidade is the signed delta.
type MovimentoEstoque struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProdutoID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo            string    `gorm:"not null;index"`
	Quantidade      int       `gorm:"not null"`
	EstoqueAnterior int       `gorm:"not null"`
	EstoqueNovo     int       `gorm:"not null"`
	Motivo          string
	Referencia      *string // originating order or claim, if any
	UsuarioID       *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (MovimentoEstoque) TableName() string { return "movimentos_estoque" }

func (m *MovimentoEstoque) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

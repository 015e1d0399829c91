package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistoricoPreco records a price change. Rows are never updated.
type HistoricoPreco struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProdutoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustoAntes  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustoDepois decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VendaAntes  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VendaDepois decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo      string          `gorm:"not null"`
	CreatedAt   time.Time
}

func (HistoricoPreco) TableName() string { return "historico_precos" }

func (h *HistoricoPreco) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

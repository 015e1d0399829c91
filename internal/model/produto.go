package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Produto is a stock-keeping record. EhProdutoPai=true marks a parent that
// aggregates variant children; a child points at its parent through SkuPai.
type Produto struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SkuInterno      string    `gorm:"uniqueIndex;not null"`
	Nome            string    `gorm:"index;not null"`
	Descricao       *string
	CodigoBarras    *string
	Categoria       string          `gorm:"index"`
	LocalEstoque    string          `gorm:"index"`
	PrecoCusto      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecoVenda      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	QuantidadeAtual int             `gorm:"not null;default:0"`
	EstoqueMinimo   int             `gorm:"not null;default:0"`
	EstoqueMaximo   int             `gorm:"not null;default:0"`
	UnidadeMedida   string          `gorm:"not null;default:'un'"`
	EhProdutoPai    bool            `gorm:"not null;index"`
	SkuPai          *string         `gorm:"index"`
	Ativo           bool            `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Produto) TableName() string { return "produtos" }

func (p *Produto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ReferenciaPai returns the trimmed parent SKU, or "" when the product does
// not reference a parent.
func (p *Produto) ReferenciaPai() string {
	if p.SkuPai == nil {
		return ""
	}
	return strings.TrimSpace(*p.SkuPai)
}

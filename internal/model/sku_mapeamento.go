package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported marketplaces.
const (
	MarketplaceMercadoLivre = "mercadolivre"
	MarketplaceShopee       = "shopee"
	MarketplaceAmazon       = "amazon"
)

// SkuMapeamento links a marketplace listing SKU to an internal SKU. A nil
// SkuInterno marks a pending mapping. QuantidadeKit is the number of internal
// units consumed per unit sold.
type SkuMapeamento struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Marketplace    string    `gorm:"not null;uniqueIndex:idx_marketplace_sku"`
	SkuMarketplace string    `gorm:"not null;uniqueIndex:idx_marketplace_sku"`
	SkuInterno     *string   `gorm:"index"`
	QuantidadeKit  int       `gorm:"not null;default:1"`
	Observacoes    *string
	Ativo          bool `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SkuMapeamento) TableName() string { return "sku_mapeamentos" }

func (s *SkuMapeamento) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"strings"

	"reistoq/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SkuMapeamentoFilter defines filters for listing marketplace SKU mappings.
type SkuMapeamentoFilter struct {
	Marketplace string
	Busca       string
	Pendentes   bool
	Page        int
	Limit       int
}

type SkuMapeamentoRepository interface {
	Create(ctx context.Context, m *model.SkuMapeamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SkuMapeamento, error)
	FindByMarketplaceSKU(ctx context.Context, marketplace, skuMarketplace string) (*model.SkuMapeamento, error)
	List(ctx context.Context, filter SkuMapeamentoFilter) ([]model.SkuMapeamento, int64, error)
	Update(ctx context.Context, m *model.SkuMapeamento) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Upsert inserts m or updates the row with the same marketplace and
	// marketplace SKU. criado reports which of the two happened.
	Upsert(ctx context.Context, m *model.SkuMapeamento) (criado bool, err error)
}

type skuMapeamentoRepo struct{ db *gorm.DB }

func NewSkuMapeamentoRepository(db *gorm.DB) SkuMapeamentoRepository {
	return &skuMapeamentoRepo{db: db}
}

func (r *skuMapeamentoRepo) Create(ctx context.Context, m *model.SkuMapeamento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *skuMapeamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SkuMapeamento, error) {
	var m model.SkuMapeamento
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *skuMapeamentoRepo) FindByMarketplaceSKU(ctx context.Context, marketplace, skuMarketplace string) (*model.SkuMapeamento, error) {
	var m model.SkuMapeamento
	err := r.db.WithContext(ctx).
		Where("marketplace = ? AND sku_marketplace = ?", marketplace, strings.TrimSpace(skuMarketplace)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *skuMapeamentoRepo) List(ctx context.Context, filter SkuMapeamentoFilter) ([]model.SkuMapeamento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SkuMapeamento{})
	if filter.Marketplace != "" {
		q = q.Where("marketplace = ?", filter.Marketplace)
	}
	if b := strings.TrimSpace(filter.Busca); b != "" {
		like := "%" + strings.ToLower(b) + "%"
		q = q.Where("(LOWER(sku_marketplace) LIKE ? OR LOWER(sku_interno) LIKE ?)", like, like)
	}
	if filter.Pendentes {
		q = q.Where("sku_interno IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	rows := make([]model.SkuMapeamento, 0)
	err := q.Order("marketplace ASC, sku_marketplace ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *skuMapeamentoRepo) Update(ctx context.Context, m *model.SkuMapeamento) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *skuMapeamentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SkuMapeamento{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *skuMapeamentoRepo) Upsert(ctx context.Context, m *model.SkuMapeamento) (bool, error) {
	criado := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var atual model.SkuMapeamento
		err := tx.Where("marketplace = ? AND sku_marketplace = ?", m.Marketplace, m.SkuMarketplace).
			First(&atual).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			criado = true
			return tx.Create(m).Error
		case err != nil:
			return err
		}

		atual.SkuInterno = m.SkuInterno
		atual.QuantidadeKit = m.QuantidadeKit
		if m.Observacoes != nil {
			atual.Observacoes = m.Observacoes
		}
		atual.Ativo = true
		if err := tx.Save(&atual).Error; err != nil {
			return err
		}
		*m = atual
		return nil
	})
	return criado, err
}

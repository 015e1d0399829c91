package repository

import (
	"context"

	"reistoq/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistoricoPrecoRepository interface {
	CreateTx(tx *gorm.DB, h *model.HistoricoPreco) error
	ListByProduto(ctx context.Context, produtoID uuid.UUID, page, limit int) ([]model.HistoricoPreco, int64, error)
}

type historicoPrecoRepository struct{ db *gorm.DB }

func NewHistoricoPrecoRepository(db *gorm.DB) HistoricoPrecoRepository {
	return &historicoPrecoRepository{db: db}
}

func (r *historicoPrecoRepository) CreateTx(tx *gorm.DB, h *model.HistoricoPreco) error {
	return tx.Create(h).Error
}

// ListByProduto returns one page of price changes for a product, newest first.
func (r *historicoPrecoRepository) ListByProduto(
	ctx context.Context,
	produtoID uuid.UUID,
	page, limit int,
) ([]model.HistoricoPreco, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistoricoPreco{}).
		Where("produto_id = ?", produtoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]model.HistoricoPreco, 0)
	if err := r.db.WithContext(ctx).
		Where("produto_id = ?", produtoID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

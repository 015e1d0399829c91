package repository

import (
	"context"

	"reistoq/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimentoEstoqueFilter defines filters for listing stock movements.
type MovimentoEstoqueFilter struct {
	ProdutoID *uuid.UUID
	Tipo      string
	Page      int
	Limit     int
}

type MovimentoEstoqueRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error
	List(ctx context.Context, filter MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error)
}

type movimentoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentoEstoqueRepository(db *gorm.DB) MovimentoEstoqueRepository {
	return &movimentoEstoqueRepo{db: db}
}

func (r *movimentoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentoEstoqueRepo) List(ctx context.Context, filter MovimentoEstoqueFilter) ([]model.MovimentoEstoque, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimentoEstoque{})
	if filter.ProdutoID != nil {
		q = q.Where("produto_id = ?", *filter.ProdutoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	movimentos := make([]model.MovimentoEstoque, 0)
	err := q.Preload("Produto").Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimentos).Error
	return movimentos, total, err
}

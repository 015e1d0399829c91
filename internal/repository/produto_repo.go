package repository

import (
	"context"
	"strings"

	"reistoq/internal/dto"
	"reistoq/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EstoqueQuery narrows the catalogue read behind the stock views. The zero
// value returns every active product.
type EstoqueQuery struct {
	Categoria    string
	Local        string
	IncluirTodos bool // include inactive products
}

// ProdutoRepository defines the data access contract for products.
type ProdutoRepository interface {
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindBySKU(ctx context.Context, sku string) (*model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)

	// ListParaEstoque returns the flat list the grouper consumes, ordered by
	// SKU so the stock views are stable between requests.
	ListParaEstoque(ctx context.Context, q EstoqueQuery) ([]model.Produto, error)
	FindFilhos(ctx context.Context, skuPai string) ([]model.Produto, error)

	Update(ctx context.Context, p *model.Produto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance
	UpdateTx(tx *gorm.DB, p *model.Produto) error
	// FindForUpdateTx locks the row for the rest of the transaction.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error)
	AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, novaQuantidade int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindBySKU(ctx context.Context, sku string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("sku_interno = ?", strings.TrimSpace(sku)).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})

	// "false" = inativos, "all" = todos, anything else = ativos
	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = ?", false)
	case "all":
	default:
		q = q.Where("ativo = ?", true)
	}

	if b := strings.TrimSpace(filter.Busca); b != "" {
		like := "%" + strings.ToLower(b) + "%"
		q = q.Where("(LOWER(nome) LIKE ? OR LOWER(sku_interno) LIKE ?)", like, like)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Local != "" {
		q = q.Where("local_estoque = ?", filter.Local)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	err := q.Order("sku_interno ASC").Limit(limit).Offset((page - 1) * limit).Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) ListParaEstoque(ctx context.Context, eq EstoqueQuery) ([]model.Produto, error) {
	q := r.db.WithContext(ctx).Model(&model.Produto{})
	if !eq.IncluirTodos {
		q = q.Where("ativo = ?", true)
	}
	if eq.Categoria != "" {
		q = q.Where("categoria = ?", eq.Categoria)
	}
	if eq.Local != "" {
		q = q.Where("local_estoque = ?", eq.Local)
	}

	produtos := make([]model.Produto, 0)
	err := q.Order("sku_interno ASC").Find(&produtos).Error
	return produtos, err
}

func (r *produtoRepo) FindFilhos(ctx context.Context, skuPai string) ([]model.Produto, error) {
	filhos := make([]model.Produto, 0)
	err := r.db.WithContext(ctx).
		Where("sku_pai = ? AND eh_produto_pai = ?", strings.TrimSpace(skuPai), false).
		Order("sku_interno ASC").
		Find(&filhos).Error
	return filhos, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.setAtivo(ctx, id, false)
}

func (r *produtoRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	return r.setAtivo(ctx, id, true)
}

func (r *produtoRepo) setAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", ativo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *produtoRepo) UpdateTx(tx *gorm.DB, p *model.Produto) error {
	return tx.Save(p).Error
}

func (r *produtoRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	q := tx
	// SQLite has no row locks; the single writer already serialises access
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) AjustarEstoqueTx(tx *gorm.DB, id uuid.UUID, novaQuantidade int) error {
	return tx.Model(&model.Produto{}).Where("id = ?", id).Update("quantidade_atual", novaQuantidade).Error
}

func (r *produtoRepo) DB() *gorm.DB { return r.db }

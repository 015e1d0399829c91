package repository

import (
	"context"
	"strings"

	"reistoq/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria.
type CategoriaRepository interface {
	Criar(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context, incluirInativas bool) ([]model.Categoria, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ObterPorNome(ctx context.Context, nome string) (*model.Categoria, error)
	Atualizar(ctx context.Context, c *model.Categoria) error
	Desativar(ctx context.Context, id uuid.UUID) error
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Criar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context, incluirInativas bool) ([]model.Categoria, error) {
	list := make([]model.Categoria, 0)
	q := r.db.WithContext(ctx).Order("nome asc")
	if !incluirInativas {
		q = q.Where("ativo = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObterPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) ObterPorNome(ctx context.Context, nome string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Where("lower(nome) = ?", strings.ToLower(strings.TrimSpace(nome))).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Atualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Desativar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("ativo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

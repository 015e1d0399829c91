package service

import (
	"context"
	"errors"
	"strings"

	"reistoq/internal/dto"
	"reistoq/internal/model"
	"reistoq/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoriaNaoEncontrada = errors.New("categoria não encontrada")
	ErrCategoriaDuplicada     = errors.New("já existe uma categoria com esse nome")
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, incluirInativas bool) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		Descricao: c.Descricao,
		Ativo:     c.Ativo,
	}
}

func (s *categoriaService) Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error) {
	nome := strings.TrimSpace(req.Nome)
	existing, err := s.repo.ObterPorNome(ctx, nome)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, ErrCategoriaDuplicada
	}

	c := &model.Categoria{
		Nome:      nome,
		Descricao: req.Descricao,
		Ativo:     true,
	}
	if err := s.repo.Criar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, incluirInativas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx, incluirInativas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, ErrCategoriaNaoEncontrada
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nome != nil {
		nome := strings.TrimSpace(*req.Nome)
		if nome != c.Nome {
			existing, err := s.repo.ObterPorNome(ctx, nome)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoriaResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoriaResponse{}, ErrCategoriaDuplicada
			}
		}
		c.Nome = nome
	}
	if req.Descricao != nil {
		c.Descricao = req.Descricao
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}

	if err := s.repo.Atualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoriaNaoEncontrada
		}
		return err
	}
	return s.repo.Desativar(ctx, id)
}

package service

import (
	"context"
	"fmt"
	"time"

	"reistoq/internal/dto"
	"reistoq/internal/estoque"
	"reistoq/internal/infra"
	"reistoq/internal/repository"
)

// RelatorioService renders the hierarchical stock view as a file. Both
// formats take the same query as Hierarquia.
type RelatorioService interface {
	ExportarXLSX(ctx context.Context, q dto.ConsultaEstoque) ([]byte, error)
	ExportarPDF(ctx context.Context, q dto.ConsultaEstoque) ([]byte, error)
}

type relatorioService struct {
	produtos repository.ProdutoRepository
	now      func() time.Time
}

func NewRelatorioService(produtos repository.ProdutoRepository) RelatorioService {
	return &relatorioService{produtos: produtos, now: time.Now}
}

func (s *relatorioService) grupos(ctx context.Context, q dto.ConsultaEstoque) ([]estoque.Grupo, error) {
	produtos, err := carregarCatalogo(ctx, s.produtos, q)
	if err != nil {
		return nil, err
	}
	return estoque.FiltrarGrupos(estoque.Agrupar(produtos), filtroDe(q)), nil
}

func (s *relatorioService) ExportarXLSX(ctx context.Context, q dto.ConsultaEstoque) ([]byte, error) {
	grupos, err := s.grupos(ctx, q)
	if err != nil {
		return nil, err
	}
	out, err := infra.GerarRelatorioEstoqueXLSX(grupos)
	if err != nil {
		return nil, fmt.Errorf("gerar xlsx: %w", err)
	}
	return out, nil
}

func (s *relatorioService) ExportarPDF(ctx context.Context, q dto.ConsultaEstoque) ([]byte, error) {
	grupos, err := s.grupos(ctx, q)
	if err != nil {
		return nil, err
	}
	out, err := infra.GerarRelatorioEstoquePDF(grupos, estoque.Resumir(grupos), s.now())
	if err != nil {
		return nil, fmt.Errorf("gerar pdf: %w", err)
	}
	return out, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reistoq/internal/dto"
	"reistoq/internal/infra"
	"reistoq/internal/model"
	"reistoq/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMapeamentoNaoEncontrado = errors.New("mapeamento de SKU não encontrado")
	ErrMapeamentoDuplicado     = errors.New("já existe um mapeamento para esse SKU neste marketplace")
	ErrMapeamentoPendente      = errors.New("mapeamento de SKU pendente: sku_interno não informado")
)

var marketplaces = map[string]bool{
	model.MarketplaceMercadoLivre: true,
	model.MarketplaceShopee:       true,
	model.MarketplaceAmazon:       true,
}

// colunasImportacao is the expected header of the mapping spreadsheet.
var colunasImportacao = []string{"marketplace", "sku_marketplace", "sku_interno", "quantidade_kit"}

// SkuMapeamentoService manages marketplace listing SKU → internal SKU links.
type SkuMapeamentoService interface {
	Criar(ctx context.Context, req dto.CriarSkuMapeamentoRequest) (*dto.SkuMapeamentoResponse, error)
	Listar(ctx context.Context, filter dto.SkuMapeamentoFilter) (*dto.SkuMapeamentoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarSkuMapeamentoRequest) (*dto.SkuMapeamentoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	Resolver(ctx context.Context, q dto.ResolverSkuQuery) (*dto.ResolucaoSkuResponse, error)
	ImportarXLSX(ctx context.Context, r io.Reader) (*dto.ImportacaoResponse, error)
}

type skuMapeamentoService struct {
	repo     repository.SkuMapeamentoRepository
	produtos repository.ProdutoRepository
}

func NewSkuMapeamentoService(repo repository.SkuMapeamentoRepository, produtos repository.ProdutoRepository) SkuMapeamentoService {
	return &skuMapeamentoService{repo: repo, produtos: produtos}
}

// normalizarSkuInterno trims the value and maps blanks to nil (pending).
func normalizarSkuInterno(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// exigirProduto checks that a mapped internal SKU exists in the catalogue.
func (s *skuMapeamentoService) exigirProduto(ctx context.Context, sku *string) error {
	if sku == nil {
		return nil
	}
	_, err := s.produtos.FindBySKU(ctx, *sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("sku_interno %s não existe no catálogo", *sku)
	}
	return err
}

func (s *skuMapeamentoService) Criar(ctx context.Context, req dto.CriarSkuMapeamentoRequest) (*dto.SkuMapeamentoResponse, error) {
	skuMkt := strings.TrimSpace(req.SkuMarketplace)
	if _, err := s.repo.FindByMarketplaceSKU(ctx, req.Marketplace, skuMkt); err == nil {
		return nil, ErrMapeamentoDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	skuInterno := normalizarSkuInterno(req.SkuInterno)
	if err := s.exigirProduto(ctx, skuInterno); err != nil {
		return nil, err
	}

	m := &model.SkuMapeamento{
		Marketplace:    req.Marketplace,
		SkuMarketplace: skuMkt,
		SkuInterno:     skuInterno,
		QuantidadeKit:  max(req.QuantidadeKit, 1),
		Observacoes:    req.Observacoes,
		Ativo:          true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	resp := skuMapeamentoToResponse(m)
	return &resp, nil
}

func (s *skuMapeamentoService) Listar(ctx context.Context, filter dto.SkuMapeamentoFilter) (*dto.SkuMapeamentoListResponse, error) {
	f := repository.SkuMapeamentoFilter{
		Marketplace: filter.Marketplace,
		Busca:       filter.Busca,
		Pendentes:   filter.Pendentes,
		Page:        max(filter.Page, 1),
		Limit:       filter.Limit,
	}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 50
	}

	rows, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SkuMapeamentoResponse, len(rows))
	for i := range rows {
		data[i] = skuMapeamentoToResponse(&rows[i])
	}
	return &dto.SkuMapeamentoListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *skuMapeamentoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarSkuMapeamentoRequest) (*dto.SkuMapeamentoResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMapeamentoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}

	if req.SkuInterno != nil {
		skuInterno := normalizarSkuInterno(req.SkuInterno)
		if err := s.exigirProduto(ctx, skuInterno); err != nil {
			return nil, err
		}
		m.SkuInterno = skuInterno
	}
	if req.QuantidadeKit != nil {
		m.QuantidadeKit = *req.QuantidadeKit
	}
	if req.Observacoes != nil {
		m.Observacoes = req.Observacoes
	}
	if req.Ativo != nil {
		m.Ativo = *req.Ativo
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	resp := skuMapeamentoToResponse(m)
	return &resp, nil
}

func (s *skuMapeamentoService) Excluir(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMapeamentoNaoEncontrado
	}
	return err
}

// Resolver translates a marketplace listing SKU into the catalogue product
// and the number of units one sale consumes.
func (s *skuMapeamentoService) Resolver(ctx context.Context, q dto.ResolverSkuQuery) (*dto.ResolucaoSkuResponse, error) {
	m, err := s.repo.FindByMarketplaceSKU(ctx, q.Marketplace, strings.TrimSpace(q.SkuMarketplace))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !m.Ativo) {
		return nil, ErrMapeamentoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if m.SkuInterno == nil {
		return nil, ErrMapeamentoPendente
	}

	p, err := s.produtos.FindBySKU(ctx, *m.SkuInterno)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sku_interno %s mapeado não existe no catálogo", *m.SkuInterno)
	}
	if err != nil {
		return nil, err
	}

	return &dto.ResolucaoSkuResponse{
		Mapeamento:    skuMapeamentoToResponse(m),
		Produto:       produtoToResponse(p),
		QuantidadeKit: m.QuantidadeKit,
	}, nil
}

// ImportarXLSX upserts one mapping per spreadsheet row. Rows that fail
// validation are reported and skipped; the rest are applied.
func (s *skuMapeamentoService) ImportarXLSX(ctx context.Context, r io.Reader) (*dto.ImportacaoResponse, error) {
	linhas, err := infra.LerLinhasXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("planilha inválida: %w", err)
	}
	if len(linhas) == 0 {
		return nil, errors.New("planilha vazia")
	}
	if err := validarCabecalho(linhas[0]); err != nil {
		return nil, err
	}

	resp := &dto.ImportacaoResponse{Erros: []dto.ImportacaoErro{}}
	falhar := func(linha int, err error) {
		resp.Falhas++
		resp.Erros = append(resp.Erros, dto.ImportacaoErro{Linha: linha, Erro: err.Error()})
	}

	for i, cols := range linhas[1:] {
		linha := i + 2
		m, err := linhaParaMapeamento(cols)
		if err != nil {
			falhar(linha, err)
			continue
		}
		if err := s.exigirProduto(ctx, m.SkuInterno); err != nil {
			falhar(linha, err)
			continue
		}
		criado, err := s.repo.Upsert(ctx, m)
		if err != nil {
			falhar(linha, err)
			continue
		}
		if criado {
			resp.Criados++
		} else {
			resp.Atualizados++
		}
	}
	return resp, nil
}

func validarCabecalho(cab []string) error {
	if len(cab) < len(colunasImportacao) {
		return fmt.Errorf("cabeçalho esperado: %s", strings.Join(colunasImportacao, " | "))
	}
	for i, c := range colunasImportacao {
		if strings.ToLower(cab[i]) != c {
			return fmt.Errorf("coluna %d deveria ser %q, recebido %q", i+1, c, cab[i])
		}
	}
	return nil
}

func linhaParaMapeamento(cols []string) (*model.SkuMapeamento, error) {
	col := func(i int) string {
		if i < len(cols) {
			return cols[i]
		}
		return ""
	}

	marketplace := strings.ToLower(col(0))
	if !marketplaces[marketplace] {
		return nil, fmt.Errorf("marketplace inválido: %q", col(0))
	}
	skuMkt := col(1)
	if skuMkt == "" {
		return nil, errors.New("sku_marketplace é obrigatório")
	}

	kit := 1
	if v := col(3); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("quantidade_kit inválida: %q", v)
		}
		kit = n
	}

	skuInterno := col(2)
	return &model.SkuMapeamento{
		Marketplace:    marketplace,
		SkuMarketplace: skuMkt,
		SkuInterno:     normalizarSkuInterno(&skuInterno),
		QuantidadeKit:  kit,
		Ativo:          true,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"reistoq/internal/dto"
	"reistoq/internal/infra"
	"reistoq/internal/model"
	"reistoq/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// prefixoCacheEstoque namespaces every cached stock view; any catalogue
// write drops the whole prefix.
const prefixoCacheEstoque = "estoque:"

var (
	ErrProdutoNaoEncontrado = errors.New("produto não encontrado")
	ErrSkuDuplicado         = errors.New("já existe um produto com esse SKU")
)

// ProdutoService defines the business logic contract for products.
type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	ObterPorSKU(ctx context.Context, sku string) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
	ListarHistoricoPrecos(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistoricoPrecoListResponse, error)
}

type produtoService struct {
	repo      repository.ProdutoRepository
	historico repository.HistoricoPrecoRepository
	cache     *infra.Cache
}

func NewProdutoService(repo repository.ProdutoRepository, historico repository.HistoricoPrecoRepository, cache *infra.Cache) ProdutoService {
	return &produtoService{repo: repo, historico: historico, cache: cache}
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	sku := strings.TrimSpace(req.SkuInterno)
	if sku == "" {
		return nil, errors.New("sku_interno é obrigatório")
	}
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, ErrSkuDuplicado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var skuPai *string
	if req.SkuPai != nil && strings.TrimSpace(*req.SkuPai) != "" {
		ref := strings.TrimSpace(*req.SkuPai)
		if req.EhProdutoPai {
			return nil, errors.New("um produto pai não pode ter sku_pai")
		}
		if err := s.validarPai(ctx, sku, ref); err != nil {
			return nil, err
		}
		skuPai = &ref
	}

	unidade := req.UnidadeMedida
	if unidade == "" {
		unidade = "un"
	}
	p := &model.Produto{
		SkuInterno:      sku,
		Nome:            strings.TrimSpace(req.Nome),
		Descricao:       req.Descricao,
		CodigoBarras:    req.CodigoBarras,
		Categoria:       req.Categoria,
		LocalEstoque:    req.LocalEstoque,
		PrecoCusto:      req.PrecoCusto,
		PrecoVenda:      req.PrecoVenda,
		QuantidadeAtual: req.QuantidadeAtual,
		EstoqueMinimo:   req.EstoqueMinimo,
		EstoqueMaximo:   req.EstoqueMaximo,
		UnidadeMedida:   unidade,
		EhProdutoPai:    req.EhProdutoPai,
		SkuPai:          skuPai,
		Ativo:           true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidar(ctx)

	resp := produtoToResponse(p)
	return &resp, nil
}

// validarPai checks that ref names an existing product flagged as parent.
func (s *produtoService) validarPai(ctx context.Context, sku, ref string) error {
	if ref == sku {
		return errors.New("um produto não pode ser pai de si mesmo")
	}
	pai, err := s.repo.FindBySKU(ctx, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("produto pai %s não encontrado", ref)
	}
	if err != nil {
		return err
	}
	if !pai.EhProdutoPai {
		return fmt.Errorf("produto %s não está marcado como pai", ref)
	}
	return nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) ObterPorSKU(ctx context.Context, sku string) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindBySKU(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProdutoResponse, len(rows))
	for i := range rows {
		data[i] = produtoToResponse(&rows[i])
	}
	return &dto.ProdutoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Atualizar applies a partial update. Price changes are written together
// with a HistoricoPreco row in one transaction.
func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.EhProdutoPai != nil && *req.EhProdutoPai != p.EhProdutoPai {
		if *req.EhProdutoPai && p.ReferenciaPai() != "" {
			return nil, errors.New("desvincule o produto do pai antes de marcá-lo como pai")
		}
		if !*req.EhProdutoPai {
			filhos, err := s.repo.FindFilhos(ctx, p.SkuInterno)
			if err != nil {
				return nil, err
			}
			if len(filhos) > 0 {
				return nil, fmt.Errorf("produto possui %d filhos vinculados", len(filhos))
			}
		}
		p.EhProdutoPai = *req.EhProdutoPai
	}

	if req.Nome != nil {
		p.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.LocalEstoque != nil {
		p.LocalEstoque = *req.LocalEstoque
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.EstoqueMaximo != nil {
		p.EstoqueMaximo = *req.EstoqueMaximo
	}
	if req.UnidadeMedida != nil {
		p.UnidadeMedida = *req.UnidadeMedida
	}

	hist := &model.HistoricoPreco{
		ProdutoID:   p.ID,
		CustoAntes:  p.PrecoCusto,
		CustoDepois: p.PrecoCusto,
		VendaAntes:  p.PrecoVenda,
		VendaDepois: p.PrecoVenda,
		Motivo:      req.MotivoPreco,
	}
	if req.PrecoCusto != nil {
		hist.CustoDepois = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		hist.VendaDepois = *req.PrecoVenda
	}
	mudouPreco := !hist.CustoAntes.Equal(hist.CustoDepois) || !hist.VendaAntes.Equal(hist.VendaDepois)
	if hist.Motivo == "" {
		hist.Motivo = "atualização manual"
	}
	p.PrecoCusto, p.PrecoVenda = hist.CustoDepois, hist.VendaDepois

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return err
		}
		if mudouPreco {
			return s.historico.CreateTx(tx, hist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(ctx)

	resp := produtoToResponse(p)
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProdutoNaoEncontrado
		}
		return err
	}
	s.invalidar(ctx)
	return nil
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reativar(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProdutoNaoEncontrado
		}
		return err
	}
	s.invalidar(ctx)
	return nil
}

func (s *produtoService) ListarHistoricoPrecos(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistoricoPrecoListResponse, error) {
	if _, err := s.buscar(ctx, id); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, total, err := s.historico.ListByProduto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistoricoPrecoItem, len(rows))
	for i, h := range rows {
		data[i] = dto.HistoricoPrecoItem{
			ID:          h.ID.String(),
			ProdutoID:   h.ProdutoID.String(),
			CustoAntes:  h.CustoAntes,
			CustoDepois: h.CustoDepois,
			VendaAntes:  h.VendaAntes,
			VendaDepois: h.VendaDepois,
			Motivo:      h.Motivo,
			CreatedAt:   h.CreatedAt.Format(time.RFC3339),
		}
	}
	return &dto.HistoricoPrecoListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func (s *produtoService) buscar(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	return p, err
}

func (s *produtoService) invalidar(ctx context.Context) {
	s.cache.DeletePrefix(ctx, prefixoCacheEstoque)
}

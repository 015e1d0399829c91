package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"reistoq/internal/dto"
	"reistoq/internal/estoque"
	"reistoq/internal/infra"
	"reistoq/internal/model"
	"reistoq/internal/repository"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrEstoqueInsuficiente = errors.New("estoque insuficiente para a saída solicitada")

// maxMemos bounds the per-view memo table; past it the table is reset.
const maxMemos = 64

// AlertaNotifier queues low-stock notifications. The worker Dispatcher
// satisfies it; a nil notifier disables alerts.
type AlertaNotifier interface {
	EnqueueAlertaEstoque(ctx context.Context, job dto.AlertaEstoqueJob) error
}

// EstoqueService serves the hierarchical stock views and owns every
// quantity change.
type EstoqueService interface {
	Hierarquia(ctx context.Context, q dto.ConsultaEstoque) (*dto.HierarquiaResponse, error)
	Pagina(ctx context.Context, q dto.ConsultaEstoque) (*dto.PaginaEstoqueResponse, error)
	Alertas(ctx context.Context, q dto.ConsultaEstoque) ([]dto.GrupoResponse, error)
	AjustarEstoque(ctx context.Context, produtoID uuid.UUID, usuarioID *uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.MovimentoResponse, error)
	ListarMovimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error)
	Vincular(ctx context.Context, req dto.VincularRequest) (*dto.ProdutoResponse, error)
	Desvincular(ctx context.Context, skuFilho string) (*dto.ProdutoResponse, error)
}

type EstoqueConfig struct {
	TamanhoPagina int
	Destinatarios []string
}

type estoqueService struct {
	produtos   repository.ProdutoRepository
	movimentos repository.MovimentoEstoqueRepository
	cache      *infra.Cache
	notifier   AlertaNotifier
	cfg        EstoqueConfig

	mu    sync.Mutex
	memos map[string]*estoque.Memo
}

func NewEstoqueService(
	produtos repository.ProdutoRepository,
	movimentos repository.MovimentoEstoqueRepository,
	cache *infra.Cache,
	notifier AlertaNotifier,
	cfg EstoqueConfig,
) EstoqueService {
	if cfg.TamanhoPagina < 1 {
		cfg.TamanhoPagina = estoque.TamanhoPaginaPadrao
	}
	return &estoqueService{
		produtos:   produtos,
		movimentos: movimentos,
		cache:      cache,
		notifier:   notifier,
		cfg:        cfg,
		memos:      make(map[string]*estoque.Memo),
	}
}

// chaveConsulta identifies a stock view; it keys the Redis cache.
func chaveConsulta(q dto.ConsultaEstoque) string {
	return strings.Join([]string{
		chaveCatalogo(q),
		strings.ToLower(strings.TrimSpace(q.Busca)), q.Status, q.Tipo,
	}, "|")
}

// chaveCatalogo identifies the database read behind a view; it keys the
// memo table, since grouping runs before the in-memory filter.
func chaveCatalogo(q dto.ConsultaEstoque) string {
	return strings.Join([]string{q.Categoria, q.Local, strconv.FormatBool(q.IncluirTodos)}, "|")
}

func chaveCache(visao string, q dto.ConsultaEstoque, extra ...string) string {
	k := chaveConsulta(q) + "|" + strings.Join(extra, "|")
	return prefixoCacheEstoque + visao + ":" + strconv.FormatUint(xxhash.Sum64String(k), 16)
}

func filtroDe(q dto.ConsultaEstoque) estoque.Filtro {
	return estoque.Filtro{Busca: q.Busca, Status: q.Status, Tipo: q.Tipo}
}

// carregarCatalogo reads the catalogue slice selected by q. Busca, Status
// and Tipo are applied later, against the whole slice.
func carregarCatalogo(ctx context.Context, repo repository.ProdutoRepository, q dto.ConsultaEstoque) ([]model.Produto, error) {
	return repo.ListParaEstoque(ctx, repository.EstoqueQuery{
		Categoria:    q.Categoria,
		Local:        q.Local,
		IncluirTodos: q.IncluirTodos,
	})
}

func (s *estoqueService) memo(chave string) *estoque.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memos[chave]
	if !ok {
		if len(s.memos) >= maxMemos {
			s.memos = make(map[string]*estoque.Memo)
		}
		m = &estoque.Memo{}
		s.memos[chave] = m
	}
	return m
}

// agrupar groups the whole catalogue slice and then keeps the groups with a
// member matching the filter, so totals and classes never depend on it.
func (s *estoqueService) agrupar(ctx context.Context, q dto.ConsultaEstoque) ([]estoque.Grupo, error) {
	produtos, err := carregarCatalogo(ctx, s.produtos, q)
	if err != nil {
		return nil, err
	}
	grupos := s.memo(chaveCatalogo(q)).Agrupar(produtos)
	return estoque.FiltrarGrupos(grupos, filtroDe(q)), nil
}

func (s *estoqueService) Hierarquia(ctx context.Context, q dto.ConsultaEstoque) (*dto.HierarquiaResponse, error) {
	chave := chaveCache("hierarquia", q)
	var cached dto.HierarquiaResponse
	if s.cache.GetJSON(ctx, chave, &cached) {
		return &cached, nil
	}

	grupos, err := s.agrupar(ctx, q)
	if err != nil {
		return nil, err
	}
	resp := &dto.HierarquiaResponse{
		Grupos: gruposToResponse(grupos),
		Resumo: resumoToResponse(estoque.Resumir(grupos)),
	}
	s.cache.SetJSON(ctx, chave, resp)
	return resp, nil
}

func (s *estoqueService) Pagina(ctx context.Context, q dto.ConsultaEstoque) (*dto.PaginaEstoqueResponse, error) {
	tamanho := q.Limit
	if tamanho < 1 {
		tamanho = s.cfg.TamanhoPagina
	}
	numero := max(q.Page, 1)

	chave := chaveCache("pagina", q, strconv.Itoa(numero), strconv.Itoa(tamanho))
	var cached dto.PaginaEstoqueResponse
	if s.cache.GetJSON(ctx, chave, &cached) {
		return &cached, nil
	}

	produtos, err := carregarCatalogo(ctx, s.produtos, q)
	if err != nil {
		return nil, err
	}
	resp := paginaToResponse(estoque.Paginar(estoque.AplicarFiltro(produtos, filtroDe(q)), numero, tamanho))
	s.cache.SetJSON(ctx, chave, resp)
	return &resp, nil
}

func (s *estoqueService) Alertas(ctx context.Context, q dto.ConsultaEstoque) ([]dto.GrupoResponse, error) {
	grupos, err := s.agrupar(ctx, q)
	if err != nil {
		return nil, err
	}
	return gruposToResponse(estoque.Alertas(grupos)), nil
}

// AjustarEstoque applies a signed delta under a row lock and records the
// movement. A group that crosses into low stock triggers an alert job.
func (s *estoqueService) AjustarEstoque(ctx context.Context, produtoID uuid.UUID, usuarioID *uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.MovimentoResponse, error) {
	if req.Delta == 0 {
		return nil, errors.New("delta deve ser diferente de zero")
	}
	tipo := req.Tipo
	if tipo == "" {
		tipo = model.MovimentoAjusteManual
	}

	alvo, err := s.produtos.FindByID(ctx, produtoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if alvo.EhProdutoPai {
		filhos, err := s.produtos.FindFilhos(ctx, alvo.SkuInterno)
		if err != nil {
			return nil, err
		}
		if len(filhos) > 0 {
			return nil, errors.New("o estoque de um produto pai com filhos é a soma dos filhos; ajuste um filho")
		}
	}

	var mov model.MovimentoEstoque
	var produto *model.Produto
	err = runTx(ctx, s.produtos.DB(), func(tx *gorm.DB) error {
		p, err := s.produtos.FindForUpdateTx(tx, produtoID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProdutoNaoEncontrado
		}
		if err != nil {
			return err
		}

		novo := p.QuantidadeAtual + req.Delta
		if novo < 0 {
			return ErrEstoqueInsuficiente
		}
		if err := s.produtos.AjustarEstoqueTx(tx, p.ID, novo); err != nil {
			return err
		}

		mov = model.MovimentoEstoque{
			ProdutoID:       p.ID,
			Tipo:            tipo,
			Quantidade:      req.Delta,
			EstoqueAnterior: p.QuantidadeAtual,
			EstoqueNovo:     novo,
			Motivo:          req.Motivo,
			Referencia:      req.Referencia,
			UsuarioID:       usuarioID,
		}
		if err := s.movimentos.CreateTx(tx, &mov); err != nil {
			return err
		}
		p.QuantidadeAtual = novo
		produto = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.DeletePrefix(ctx, prefixoCacheEstoque)

	s.verificarAlerta(ctx, produto, mov.EstoqueAnterior)

	mov.Produto = produto
	resp := movimentoToResponse(&mov)
	return &resp, nil
}

// verificarAlerta rebuilds the adjusted product's group before and after the
// change and queues an alert when it just became low.
func (s *estoqueService) verificarAlerta(ctx context.Context, p *model.Produto, anterior int) {
	if s.notifier == nil || len(s.cfg.Destinatarios) == 0 {
		return
	}

	membros := []model.Produto{*p}
	if ref := p.ReferenciaPai(); ref != "" {
		pai, err := s.produtos.FindBySKU(ctx, ref)
		if err == nil && pai.EhProdutoPai {
			filhos, err := s.produtos.FindFilhos(ctx, ref)
			if err != nil {
				log.Warn().Err(err).Str("sku", ref).Msg("estoque: alert check skipped")
				return
			}
			membros = append([]model.Produto{*pai}, filhos...)
		}
	}

	depois := grupoDe(membros, p.SkuInterno)
	for i := range membros {
		if membros[i].ID == p.ID {
			membros[i].QuantidadeAtual = anterior
		}
	}
	antes := grupoDe(membros, p.SkuInterno)
	if depois == nil || antes == nil || !depois.EstoqueBaixo || antes.EstoqueBaixo {
		return
	}

	job := dto.AlertaEstoqueJob{
		Destinatarios: s.cfg.Destinatarios,
		Origem:        dto.OrigemAjuste,
		Itens: []dto.AlertaEstoqueItem{{
			SkuGrupo:      depois.SkuGrupo,
			Nome:          depois.Principal.Nome,
			EstoqueTotal:  depois.EstoqueTotal,
			EstoqueMinimo: depois.EstoqueMinimo,
		}},
	}
	if err := s.notifier.EnqueueAlertaEstoque(ctx, job); err != nil {
		log.Error().Err(err).Str("sku_grupo", depois.SkuGrupo).Msg("estoque: failed to enqueue low-stock alert")
	}
}

// grupoDe returns the group containing sku.
func grupoDe(membros []model.Produto, sku string) *estoque.Grupo {
	for _, g := range estoque.Agrupar(membros) {
		for _, m := range g.Membros() {
			if m.SkuInterno == sku {
				return &g
			}
		}
	}
	return nil
}

func (s *estoqueService) ListarMovimentos(ctx context.Context, filter dto.MovimentoFilter) (*dto.MovimentoListResponse, error) {
	f := repository.MovimentoEstoqueFilter{Tipo: filter.Tipo, Page: max(filter.Page, 1), Limit: filter.Limit}
	if f.Limit < 1 || f.Limit > 500 {
		f.Limit = 50
	}
	if filter.ProdutoID != "" {
		id, err := uuid.Parse(filter.ProdutoID)
		if err != nil {
			return nil, errors.New("produto_id inválido")
		}
		f.ProdutoID = &id
	}

	rows, total, err := s.movimentos.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimentoResponse, len(rows))
	for i := range rows {
		data[i] = movimentoToResponse(&rows[i])
	}
	return &dto.MovimentoListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Vincular makes skuFilho a child of skuPai.
func (s *estoqueService) Vincular(ctx context.Context, req dto.VincularRequest) (*dto.ProdutoResponse, error) {
	skuFilho, skuPai := strings.TrimSpace(req.SkuFilho), strings.TrimSpace(req.SkuPai)
	if skuFilho == skuPai {
		return nil, errors.New("um produto não pode ser pai de si mesmo")
	}

	filho, err := s.produtos.FindBySKU(ctx, skuFilho)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProdutoNaoEncontrado, skuFilho)
	}
	if err != nil {
		return nil, err
	}
	pai, err := s.produtos.FindBySKU(ctx, skuPai)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: pai %s", ErrProdutoNaoEncontrado, skuPai)
	}
	if err != nil {
		return nil, err
	}

	if !pai.EhProdutoPai {
		return nil, fmt.Errorf("produto %s não está marcado como pai", skuPai)
	}
	if filho.EhProdutoPai {
		return nil, errors.New("um produto pai não pode ser vinculado como filho")
	}

	filho.SkuPai = &pai.SkuInterno
	if err := s.produtos.Update(ctx, filho); err != nil {
		return nil, err
	}
	s.cache.DeletePrefix(ctx, prefixoCacheEstoque)

	resp := produtoToResponse(filho)
	return &resp, nil
}

func (s *estoqueService) Desvincular(ctx context.Context, skuFilho string) (*dto.ProdutoResponse, error) {
	filho, err := s.produtos.FindBySKU(ctx, skuFilho)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProdutoNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	if filho.ReferenciaPai() == "" {
		return nil, errors.New("produto não possui vínculo com pai")
	}

	filho.SkuPai = nil
	if err := s.produtos.Update(ctx, filho); err != nil {
		return nil, err
	}
	s.cache.DeletePrefix(ctx, prefixoCacheEstoque)

	resp := produtoToResponse(filho)
	return &resp, nil
}

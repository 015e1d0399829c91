package dto

import "github.com/shopspring/decimal"

// ─── Query ───────────────────────────────────────────────────────────────────

// ConsultaEstoque is the query string of the stock views. Categoria, Local
// and IncluirTodos narrow the database read; Busca, Status and Tipo filter
// in memory, after classes and group totals are computed.
type ConsultaEstoque struct {
	Categoria    string `form:"categoria"`
	Local        string `form:"local"`
	IncluirTodos bool   `form:"incluir_todos"`
	Busca        string `form:"busca"`
	Status       string `form:"status" validate:"omitempty,oneof=todos em_estoque estoque_baixo sem_estoque excesso"`
	Tipo         string `form:"tipo"   validate:"omitempty,oneof=todos pai filho avulso orfao"`
	Page         int    `form:"page,default=1" validate:"min=1,max=1000000"`
	Limit        int    `form:"limit"          validate:"min=0,max=500"`
}

// ─── Requests ────────────────────────────────────────────────────────────────

type AjustarEstoqueRequest struct {
	Delta      int     `json:"delta"      validate:"required,ne=0"`
	Tipo       string  `json:"tipo"       validate:"omitempty,oneof=ajuste_manual entrada saida devolucao"`
	Motivo     string  `json:"motivo"     validate:"required,min=3,max=200"`
	Referencia *string `json:"referencia" validate:"omitempty,max=100"`
}

type VincularRequest struct {
	SkuFilho string `json:"sku_filho" validate:"required"`
	SkuPai   string `json:"sku_pai"   validate:"required"`
}

type MovimentoFilter struct {
	ProdutoID string `form:"produto_id" validate:"omitempty,uuid"`
	Tipo      string `form:"tipo"`
	Page      int    `form:"page,default=1"   validate:"min=1,max=1000000"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

// ─── Responses ───────────────────────────────────────────────────────────────

type GrupoResponse struct {
	SkuGrupo         string            `json:"sku_grupo"`
	Classe           string            `json:"classe"`
	ProdutoPrincipal ProdutoResponse   `json:"produto_principal"`
	Filhos           []ProdutoResponse `json:"filhos"`
	EstoqueTotal     int               `json:"estoque_total"`
	EstoqueMinimo    int               `json:"estoque_minimo"`
	EstoqueBaixo     bool              `json:"estoque_baixo"`
	ValorCusto       decimal.Decimal   `json:"valor_custo"`
}

type ResumoResponse struct {
	TotalProdutos      int             `json:"total_produtos"`
	TotalGrupos        int             `json:"total_grupos"`
	Pais               int             `json:"pais"`
	Filhos             int             `json:"filhos"`
	Avulsos            int             `json:"avulsos"`
	Orfaos             int             `json:"orfaos"`
	GruposEstoqueBaixo int             `json:"grupos_estoque_baixo"`
	EstoqueTotal       int             `json:"estoque_total"`
	ValorCusto         decimal.Decimal `json:"valor_custo"`
}

type HierarquiaResponse struct {
	Grupos []GrupoResponse `json:"grupos"`
	Resumo ResumoResponse  `json:"resumo"`
}

type ItemPaginaResponse struct {
	Produto    ProdutoResponse `json:"produto"`
	Classe     string          `json:"classe"`
	SkuGrupo   string          `json:"sku_grupo"`
	Nivel      int             `json:"nivel"`
	Transbordo bool            `json:"transbordo"`
}

type PaginaEstoqueResponse struct {
	Data       []ItemPaginaResponse `json:"data"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"total_pages"`
	Transbordo int                  `json:"transbordo"`
}

type MovimentoResponse struct {
	ID              string  `json:"id"`
	ProdutoID       string  `json:"produto_id"`
	SkuInterno      string  `json:"sku_interno,omitempty"`
	Tipo            string  `json:"tipo"`
	Quantidade      int     `json:"quantidade"`
	EstoqueAnterior int     `json:"estoque_anterior"`
	EstoqueNovo     int     `json:"estoque_novo"`
	Motivo          string  `json:"motivo"`
	Referencia      *string `json:"referencia"`
	UsuarioID       *string `json:"usuario_id"`
	CreatedAt       string  `json:"created_at"`
}

type MovimentoListResponse struct {
	Data  []MovimentoResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

// AlertaEstoqueItem is one low-stock group inside an alert job.
type AlertaEstoqueItem struct {
	SkuGrupo      string `json:"sku_grupo"`
	Nome          string `json:"nome"`
	EstoqueTotal  int    `json:"estoque_total"`
	EstoqueMinimo int    `json:"estoque_minimo"`
}

const (
	OrigemAjuste    = "ajuste"
	OrigemVarredura = "varredura"
)

// AlertaEstoqueJob is the payload of the low-stock email queue.
type AlertaEstoqueJob struct {
	Destinatarios []string            `json:"destinatarios"`
	Origem        string              `json:"origem"`
	Itens         []AlertaEstoqueItem `json:"itens"`
}

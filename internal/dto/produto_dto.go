package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	SkuInterno      string          `json:"sku_interno"      validate:"required,min=1,max=60"`
	Nome            string          `json:"nome"             validate:"required,min=2,max=200"`
	Descricao       *string         `json:"descricao"`
	CodigoBarras    *string         `json:"codigo_barras"    validate:"omitempty,min=8,max=18"`
	Categoria       string          `json:"categoria"        validate:"max=100"`
	LocalEstoque    string          `json:"local_estoque"    validate:"max=100"`
	PrecoCusto      decimal.Decimal `json:"preco_custo"      validate:"gte=0"`
	PrecoVenda      decimal.Decimal `json:"preco_venda"      validate:"gte=0"`
	QuantidadeAtual int             `json:"quantidade_atual" validate:"min=0"`
	EstoqueMinimo   int             `json:"estoque_minimo"   validate:"min=0"`
	EstoqueMaximo   int             `json:"estoque_maximo"   validate:"min=0"`
	UnidadeMedida   string          `json:"unidade_medida"   validate:"max=10"`
	EhProdutoPai    bool            `json:"eh_produto_pai"`
	SkuPai          *string         `json:"sku_pai"          validate:"omitempty,max=60"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2,max=200"`
	Descricao     *string          `json:"descricao"`
	CodigoBarras  *string          `json:"codigo_barras"  validate:"omitempty,min=8,max=18"`
	Categoria     *string          `json:"categoria"      validate:"omitempty,max=100"`
	LocalEstoque  *string          `json:"local_estoque"  validate:"omitempty,max=100"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"    validate:"omitempty,gte=0"`
	PrecoVenda    *decimal.Decimal `json:"preco_venda"    validate:"omitempty,gte=0"`
	EstoqueMinimo *int             `json:"estoque_minimo" validate:"omitempty,min=0"`
	EstoqueMaximo *int             `json:"estoque_maximo" validate:"omitempty,min=0"`
	UnidadeMedida *string          `json:"unidade_medida" validate:"omitempty,max=10"`
	EhProdutoPai  *bool            `json:"eh_produto_pai"`
	MotivoPreco   string           `json:"motivo_preco"   validate:"max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProdutoFilter struct {
	Busca     string `form:"busca"`
	Categoria string `form:"categoria"`
	Local     string `form:"local"`
	Ativo     string `form:"ativo"` // "false" = inativos, "all" = todos, default ativos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProdutoResponse struct {
	ID              string          `json:"id"`
	SkuInterno      string          `json:"sku_interno"`
	Nome            string          `json:"nome"`
	Descricao       *string         `json:"descricao"`
	CodigoBarras    *string         `json:"codigo_barras"`
	Categoria       string          `json:"categoria"`
	LocalEstoque    string          `json:"local_estoque"`
	PrecoCusto      decimal.Decimal `json:"preco_custo"`
	PrecoVenda      decimal.Decimal `json:"preco_venda"`
	MargemPct       decimal.Decimal `json:"margem_pct"`
	QuantidadeAtual int             `json:"quantidade_atual"`
	EstoqueMinimo   int             `json:"estoque_minimo"`
	EstoqueMaximo   int             `json:"estoque_maximo"`
	UnidadeMedida   string          `json:"unidade_medida"`
	EhProdutoPai    bool            `json:"eh_produto_pai"`
	SkuPai          *string         `json:"sku_pai"`
	Ativo           bool            `json:"ativo"`
	UpdatedAt       string          `json:"updated_at"`
}

type ProdutoListResponse struct {
	Data       []ProdutoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// HistoricoPrecoItem is one row in the price-history list.
type HistoricoPrecoItem struct {
	ID          string          `json:"id"`
	ProdutoID   string          `json:"produto_id"`
	CustoAntes  decimal.Decimal `json:"custo_antes"`
	CustoDepois decimal.Decimal `json:"custo_depois"`
	VendaAntes  decimal.Decimal `json:"venda_antes"`
	VendaDepois decimal.Decimal `json:"venda_depois"`
	Motivo      string          `json:"motivo"`
	CreatedAt   string          `json:"created_at"`
}

type HistoricoPrecoListResponse struct {
	Data  []HistoricoPrecoItem `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

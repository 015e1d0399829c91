package dto

type CriarSkuMapeamentoRequest struct {
	Marketplace    string  `json:"marketplace"     validate:"required,oneof=mercadolivre shopee amazon"`
	SkuMarketplace string  `json:"sku_marketplace" validate:"required,max=100"`
	SkuInterno     *string `json:"sku_interno"     validate:"omitempty,max=60"`
	QuantidadeKit  int     `json:"quantidade_kit"  validate:"omitempty,min=1,max=1000"`
	Observacoes    *string `json:"observacoes"     validate:"omitempty,max=500"`
}

type AtualizarSkuMapeamentoRequest struct {
	SkuInterno    *string `json:"sku_interno"    validate:"omitempty,max=60"`
	QuantidadeKit *int    `json:"quantidade_kit" validate:"omitempty,min=1,max=1000"`
	Observacoes   *string `json:"observacoes"    validate:"omitempty,max=500"`
	Ativo         *bool   `json:"ativo"`
}

type SkuMapeamentoFilter struct {
	Marketplace string `form:"marketplace" validate:"omitempty,oneof=mercadolivre shopee amazon"`
	Busca       string `form:"busca"`
	Pendentes   bool   `form:"pendentes"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type ResolverSkuQuery struct {
	Marketplace    string `form:"marketplace"     validate:"required,oneof=mercadolivre shopee amazon"`
	SkuMarketplace string `form:"sku_marketplace" validate:"required"`
}

type SkuMapeamentoResponse struct {
	ID             string  `json:"id"`
	Marketplace    string  `json:"marketplace"`
	SkuMarketplace string  `json:"sku_marketplace"`
	SkuInterno     *string `json:"sku_interno"`
	QuantidadeKit  int     `json:"quantidade_kit"`
	Observacoes    *string `json:"observacoes"`
	Pendente       bool    `json:"pendente"`
	Ativo          bool    `json:"ativo"`
}

type SkuMapeamentoListResponse struct {
	Data  []SkuMapeamentoResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type ResolucaoSkuResponse struct {
	Mapeamento    SkuMapeamentoResponse `json:"mapeamento"`
	Produto       ProdutoResponse       `json:"produto"`
	QuantidadeKit int                   `json:"quantidade_kit"`
}

type ImportacaoErro struct {
	Linha int    `json:"linha"`
	Erro  string `json:"erro"`
}

type ImportacaoResponse struct {
	Criados     int              `json:"criados"`
	Atualizados int              `json:"atualizados"`
	Falhas      int              `json:"falhas"`
	Erros       []ImportacaoErro `json:"erros"`
}

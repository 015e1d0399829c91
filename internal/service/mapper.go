package service

import (
	"context"
	"time"

	"reistoq/internal/dto"
	"reistoq/internal/estoque"
	"reistoq/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

var cem = decimal.NewFromInt(100)

// margem returns the markup over cost in percent, zero when cost is zero.
func margem(custo, venda decimal.Decimal) decimal.Decimal {
	if custo.IsZero() {
		return decimal.Zero
	}
	return venda.Sub(custo).Div(custo).Mul(cem).Round(2)
}

func produtoToResponse(p *model.Produto) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:              p.ID.String(),
		SkuInterno:      p.SkuInterno,
		Nome:            p.Nome,
		Descricao:       p.Descricao,
		CodigoBarras:    p.CodigoBarras,
		Categoria:       p.Categoria,
		LocalEstoque:    p.LocalEstoque,
		PrecoCusto:      p.PrecoCusto,
		PrecoVenda:      p.PrecoVenda,
		MargemPct:       margem(p.PrecoCusto, p.PrecoVenda),
		QuantidadeAtual: p.QuantidadeAtual,
		EstoqueMinimo:   p.EstoqueMinimo,
		EstoqueMaximo:   p.EstoqueMaximo,
		UnidadeMedida:   p.UnidadeMedida,
		EhProdutoPai:    p.EhProdutoPai,
		SkuPai:          p.SkuPai,
		Ativo:           p.Ativo,
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

func grupoToResponse(g estoque.Grupo) dto.GrupoResponse {
	filhos := make([]dto.ProdutoResponse, len(g.Filhos))
	for i := range g.Filhos {
		filhos[i] = produtoToResponse(&g.Filhos[i])
	}
	return dto.GrupoResponse{
		SkuGrupo:         g.SkuGrupo,
		Classe:           string(g.Classe),
		ProdutoPrincipal: produtoToResponse(g.Principal),
		Filhos:           filhos,
		EstoqueTotal:     g.EstoqueTotal,
		EstoqueMinimo:    g.EstoqueMinimo,
		EstoqueBaixo:     g.EstoqueBaixo,
		ValorCusto:       g.ValorCusto,
	}
}

func gruposToResponse(grupos []estoque.Grupo) []dto.GrupoResponse {
	out := make([]dto.GrupoResponse, len(grupos))
	for i, g := range grupos {
		out[i] = grupoToResponse(g)
	}
	return out
}

func resumoToResponse(r estoque.Resumo) dto.ResumoResponse {
	return dto.ResumoResponse{
		TotalProdutos:      r.TotalProdutos,
		TotalGrupos:        r.TotalGrupos,
		Pais:               r.Pais,
		Filhos:             r.Filhos,
		Avulsos:            r.Avulsos,
		Orfaos:             r.Orfaos,
		GruposEstoqueBaixo: r.GruposEstoqueBaixo,
		EstoqueTotal:       r.EstoqueTotal,
		ValorCusto:         r.ValorCusto,
	}
}

func paginaToResponse(pg estoque.Pagina) dto.PaginaEstoqueResponse {
	itens := make([]dto.ItemPaginaResponse, len(pg.Itens))
	for i, it := range pg.Itens {
		itens[i] = dto.ItemPaginaResponse{
			Produto:    produtoToResponse(&it.Produto),
			Classe:     string(it.Classe),
			SkuGrupo:   it.SkuGrupo,
			Nivel:      it.Nivel,
			Transbordo: it.Transbordo,
		}
	}
	return dto.PaginaEstoqueResponse{
		Data:       itens,
		Page:       pg.Numero,
		Limit:      pg.Tamanho,
		Total:      pg.TotalItens,
		TotalPages: pg.TotalPaginas,
		Transbordo: pg.Transbordo,
	}
}

func movimentoToResponse(m *model.MovimentoEstoque) dto.MovimentoResponse {
	r := dto.MovimentoResponse{
		ID:              m.ID.String(),
		ProdutoID:       m.ProdutoID.String(),
		Tipo:            m.Tipo,
		Quantidade:      m.Quantidade,
		EstoqueAnterior: m.EstoqueAnterior,
		EstoqueNovo:     m.EstoqueNovo,
		Motivo:          m.Motivo,
		Referencia:      m.Referencia,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	if m.Produto != nil {
		r.SkuInterno = m.Produto.SkuInterno
	}
	if m.UsuarioID != nil {
		s := m.UsuarioID.String()
		r.UsuarioID = &s
	}
	return r
}

func skuMapeamentoToResponse(m *model.SkuMapeamento) dto.SkuMapeamentoResponse {
	return dto.SkuMapeamentoResponse{
		ID:             m.ID.String(),
		Marketplace:    m.Marketplace,
		SkuMarketplace: m.SkuMarketplace,
		SkuInterno:     m.SkuInterno,
		QuantidadeKit:  m.QuantidadeKit,
		Observacoes:    m.Observacoes,
		Pendente:       m.SkuInterno == nil,
		Ativo:          m.Ativo,
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nome:     u.Nome,
		Email:    u.Email,
		Rol:      u.Rol,
		Ativo:    u.Ativo,
	}
}

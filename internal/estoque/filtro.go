package estoque

import (
	"strconv"
	"strings"

	"reistoq/internal/model"
)

// Status values accepted by Filtro.Status.
const (
	StatusTodos        = "todos"
	StatusEmEstoque    = "em_estoque"
	StatusEstoqueBaixo = "estoque_baixo"
	StatusSemEstoque   = "sem_estoque"
	StatusExcesso      = "excesso"
)

// TipoTodos disables the class filter; any Classe value selects that class.
const TipoTodos = "todos"

// Filtro is the view state of the stock table: free-text search, stock
// status and product class. The zero value keeps everything.
//
// estoque_baixo uses the same rule as Grupo.EstoqueBaixo (quantity at or
// below the minimum), so it also matches rows that sem_estoque matches.
type Filtro struct {
	Busca  string
	Status string
	Tipo   string
}

func (f Filtro) vazio() bool {
	return strings.TrimSpace(f.Busca) == "" &&
		(f.Status == "" || f.Status == StatusTodos) &&
		(f.Tipo == "" || f.Tipo == TipoTodos)
}

// combina tests one row. busca must already be lower-cased and trimmed.
// qtd and minimo are the row's effective figures: a parent with children
// passes its group total and effective minimum.
func (f Filtro) combina(busca string, p *model.Produto, c Classe, qtd, minimo int) bool {
	if f.Tipo != "" && f.Tipo != TipoTodos && Classe(f.Tipo) != c {
		return false
	}
	if busca != "" &&
		!strings.Contains(strings.ToLower(p.SkuInterno), busca) &&
		!strings.Contains(strings.ToLower(p.Nome), busca) {
		return false
	}
	return statusCombina(f.Status, qtd, minimo, p.EstoqueMaximo)
}

func normalizarBusca(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Selecao is a filtered slice of a catalogue. Classes is index-aligned with
// Produtos and holds each product's class in the whole catalogue, so a child
// whose parent was filtered out is still a child and not an orphan.
type Selecao struct {
	Produtos []model.Produto
	Classes  []Classe

	// chaves ties each row to its catalogue group: the parent SKU for a
	// parent and its children, the catalogue position for anything else.
	chaves []string
}

// Selecionar wraps a whole catalogue with nothing filtered out.
func Selecionar(produtos []model.Produto) Selecao {
	return AplicarFiltro(produtos, Filtro{})
}

// completa fills Classes and chaves when the Selecao was built by hand,
// treating Produtos as the whole catalogue.
func (s Selecao) completa() Selecao {
	if len(s.Classes) == len(s.Produtos) && len(s.chaves) == len(s.Produtos) {
		return s
	}
	return Selecionar(s.Produtos)
}

func chaveGrupo(produtos []model.Produto, i int, c Classe, pais map[string]int) string {
	switch {
	case c == ClasseFilho:
		return "p:" + produtos[i].ReferenciaPai()
	case c == ClassePai && pais[produtos[i].SkuInterno] == i:
		return "p:" + produtos[i].SkuInterno
	default:
		return "i:" + strconv.Itoa(i)
	}
}

// AplicarFiltro keeps the products matching f, preserving input order.
// Classes and parent totals are computed against the full input, so a parent
// with children is judged by its group total and a child keeps its class
// even when its parent does not match.
func AplicarFiltro(produtos []model.Produto, f Filtro) Selecao {
	busca := normalizarBusca(f.Busca)
	pais := indicePais(produtos)

	classes := make([]Classe, len(produtos))
	totais := make(map[string]int, len(pais))
	minimos := make(map[string]int, len(pais))
	comFilhos := make(map[string]bool, len(pais))
	for i := range produtos {
		classes[i] = classe(produtos, i, pais)
		if classes[i] != ClasseFilho {
			continue
		}
		ref := produtos[i].ReferenciaPai()
		totais[ref] += produtos[i].QuantidadeAtual
		minimos[ref] += produtos[i].EstoqueMinimo
		comFilhos[ref] = true
	}

	out := Selecao{
		Produtos: make([]model.Produto, 0, len(produtos)),
		Classes:  make([]Classe, 0, len(produtos)),
		chaves:   make([]string, 0, len(produtos)),
	}
	for i := range produtos {
		p := &produtos[i]
		c := classes[i]

		qtd, minimo := p.QuantidadeAtual, p.EstoqueMinimo
		if c == ClassePai && pais[p.SkuInterno] == i && comFilhos[p.SkuInterno] {
			qtd = totais[p.SkuInterno]
			if minimo == 0 {
				minimo = minimos[p.SkuInterno]
			}
		}
		if !f.combina(busca, p, c, qtd, minimo) {
			continue
		}
		out.Produtos = append(out.Produtos, *p)
		out.Classes = append(out.Classes, c)
		out.chaves = append(out.chaves, chaveGrupo(produtos, i, c, pais))
	}
	return out
}

// FiltrarGrupos keeps every group with at least one member matching f. Kept
// groups stay whole, so their totals and classes are the catalogue's. The
// principal of a parent group is judged by the group total, children by
// their own stock. Order is preserved; the input is not modified.
func FiltrarGrupos(grupos []Grupo, f Filtro) []Grupo {
	out := make([]Grupo, 0, len(grupos))
	if f.vazio() {
		return append(out, grupos...)
	}
	busca := normalizarBusca(f.Busca)
	for _, g := range grupos {
		if grupoCombina(g, f, busca) {
			out = append(out, g)
		}
	}
	return out
}

func grupoCombina(g Grupo, f Filtro, busca string) bool {
	if g.Principal != nil {
		qtd, minimo := g.Principal.QuantidadeAtual, g.Principal.EstoqueMinimo
		if len(g.Filhos) > 0 {
			qtd, minimo = g.EstoqueTotal, g.EstoqueMinimo
		}
		if f.combina(busca, g.Principal, g.Classe, qtd, minimo) {
			return true
		}
	}
	for i := range g.Filhos {
		p := &g.Filhos[i]
		if f.combina(busca, p, ClasseFilho, p.QuantidadeAtual, p.EstoqueMinimo) {
			return true
		}
	}
	return false
}

func statusCombina(status string, qtd, minimo, maximo int) bool {
	switch status {
	case "", StatusTodos:
		return true
	case StatusSemEstoque:
		return qtd <= 0
	case StatusEstoqueBaixo:
		return qtd <= minimo
	case StatusEmEstoque:
		return qtd > 0 && qtd > minimo
	case StatusExcesso:
		return maximo > 0 && qtd > maximo
	default:
		return true
	}
}

package estoque

import (
	"sort"

	"reistoq/internal/model"
)

// TamanhoPaginaPadrao is used when a non-positive page size is requested.
const TamanhoPaginaPadrao = 20

// ItemPagina is one rendered row. Nivel is 0 for a group's principal and 1
// for a child. Transbordo marks rows pulled in from outside the nominal slice
// to keep their group whole.
type ItemPagina struct {
	Produto    model.Produto
	Classe     Classe
	SkuGrupo   string
	Nivel      int
	Transbordo bool
}

// Pagina is a page of the filtered stock list. len(Itens) may exceed Tamanho
// when groups spill over, and may fall short of it when the groups starting
// in the nominal slice were already rendered on an earlier page.
type Pagina struct {
	Itens        []ItemPagina
	Numero       int
	Tamanho      int
	TotalItens   int
	TotalPaginas int
	Transbordo   int
}

// layout precomputes, for a selection, the group head of every position,
// the members of each group in sequence order and the first position at
// which each group appears. The head is the parent when it was selected,
// otherwise the group's first selected member.
type layout struct {
	produtos []model.Produto
	classes  []Classe
	cabeca   []int
	membros  map[int][]int
	primeiro map[int]int
}

func novoLayout(sel Selecao) layout {
	l := layout{
		produtos: sel.Produtos,
		classes:  sel.Classes,
		cabeca:   make([]int, len(sel.Produtos)),
		membros:  make(map[int][]int),
		primeiro: make(map[int]int),
	}

	cabecaDe := make(map[string]int)
	for i, c := range sel.Classes {
		if c == ClassePai {
			if _, ok := cabecaDe[sel.chaves[i]]; !ok {
				cabecaDe[sel.chaves[i]] = i
			}
		}
	}
	for i := range sel.Produtos {
		h, ok := cabecaDe[sel.chaves[i]]
		if !ok {
			h = i
			cabecaDe[sel.chaves[i]] = i
		}
		l.cabeca[i] = h
		l.membros[h] = append(l.membros[h], i)
		if _, ok := l.primeiro[h]; !ok {
			l.primeiro[h] = i
		}
	}
	return l
}

func totalPaginas(n, tamanho int) int {
	total := n / tamanho
	if n%tamanho != 0 {
		total++
	}
	return total
}

// Paginar returns page numero of the selection.
//
// The nominal slice is [(numero-1)*tamanho, numero*tamanho). Every group with
// a member in that slice is rendered whole, head first and the other members
// sorted by SKU, unless the group already started on an earlier page, in which
// case it belongs to that page. Groups keep the relative order of their first
// appearance in the selection. Across all pages each product is rendered
// once. Classes come from the catalogue the selection was taken from.
func Paginar(sel Selecao, numero, tamanho int) Pagina {
	if tamanho < 1 {
		tamanho = TamanhoPaginaPadrao
	}
	if numero < 1 {
		numero = 1
	}
	sel = sel.completa()
	n := len(sel.Produtos)
	pg := Pagina{
		Itens:        []ItemPagina{},
		Numero:       numero,
		Tamanho:      tamanho,
		TotalItens:   n,
		TotalPaginas: totalPaginas(n, tamanho),
	}
	if numero > pg.TotalPaginas {
		return pg
	}

	inicio := (numero - 1) * tamanho
	fim := n
	if n-inicio > tamanho {
		fim = inicio + tamanho
	}

	l := novoLayout(sel)
	vistos := make(map[int]bool)
	for i := inicio; i < fim; i++ {
		h := l.cabeca[i]
		if vistos[h] || l.primeiro[h] < inicio {
			continue
		}
		vistos[h] = true
		pg.Itens = append(pg.Itens, l.renderizar(h, inicio, fim)...)
	}

	for _, it := range pg.Itens {
		if it.Transbordo {
			pg.Transbordo++
		}
	}
	return pg
}

// renderizar emits group h: the parent, then the children ordered by SKU.
// When the parent was not selected every member is a child.
func (l layout) renderizar(h, inicio, fim int) []ItemPagina {
	sku := l.produtos[h].SkuInterno
	ordem := make([]int, 0, len(l.membros[h]))
	if l.classes[h] == ClasseFilho {
		sku = l.produtos[h].ReferenciaPai()
	} else {
		ordem = append(ordem, h)
	}
	desde := len(ordem)
	for _, i := range l.membros[h] {
		if i != h || l.classes[h] == ClasseFilho {
			ordem = append(ordem, i)
		}
	}
	resto := ordem[desde:]
	sort.SliceStable(resto, func(a, b int) bool {
		return l.produtos[resto[a]].SkuInterno < l.produtos[resto[b]].SkuInterno
	})

	out := make([]ItemPagina, 0, len(ordem))
	for _, i := range ordem {
		out = append(out, l.item(i, sku, inicio, fim))
	}
	return out
}

func (l layout) item(i int, sku string, inicio, fim int) ItemPagina {
	nivel := 0
	if l.classes[i] == ClasseFilho {
		nivel = 1
	}
	return ItemPagina{
		Produto:    l.produtos[i],
		Classe:     l.classes[i],
		SkuGrupo:   sku,
		Nivel:      nivel,
		Transbordo: i < inicio || i >= fim,
	}
}

// PaginarTodas returns every page of the selection.
func PaginarTodas(sel Selecao, tamanho int) []Pagina {
	if tamanho < 1 {
		tamanho = TamanhoPaginaPadrao
	}
	sel = sel.completa()
	total := totalPaginas(len(sel.Produtos), tamanho)
	paginas := make([]Pagina, 0, total)
	for n := 1; n <= total; n++ {
		paginas = append(paginas, Paginar(sel, n, tamanho))
	}
	return paginas
}

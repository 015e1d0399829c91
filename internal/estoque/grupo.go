// Package estoque turns a flat product list into parent/child groups and
// pages that never split a group. Everything here is pure: no I/O, no
// shared state except the explicit Memo.
package estoque

import (
	"reistoq/internal/model"

	"github.com/shopspring/decimal"
)

// Classe is the role a product plays inside a given product set.
type Classe string

const (
	ClassePai    Classe = "pai"
	ClasseFilho  Classe = "filho"
	ClasseAvulso Classe = "avulso"
	ClasseOrfao  Classe = "orfao"
)

// Grupo is one row of the hierarchical stock view.
//
// Principal is the parent for parent groups and the product itself for
// standalone and orphan groups, so every member is reachable from the group.
type Grupo struct {
	SkuGrupo      string
	Principal     *model.Produto
	Filhos        []model.Produto
	Classe        Classe
	EstoqueTotal  int
	EstoqueMinimo int
	EstoqueBaixo  bool
	ValorCusto    decimal.Decimal
}

// Membros returns the principal followed by the children.
func (g Grupo) Membros() []model.Produto {
	out := make([]model.Produto, 0, len(g.Filhos)+1)
	if g.Principal != nil {
		out = append(out, *g.Principal)
	}
	return append(out, g.Filhos...)
}

// Orfao reports whether the group holds a child whose parent is missing.
func (g Grupo) Orfao() bool { return g.Classe == ClasseOrfao }

// indicePais maps each parent SKU to the position of the first product
// flagged as parent with that SKU. Later duplicates do not receive children.
func indicePais(produtos []model.Produto) map[string]int {
	pais := make(map[string]int)
	for i := range produtos {
		if !produtos[i].EhProdutoPai {
			continue
		}
		if _, ok := pais[produtos[i].SkuInterno]; !ok {
			pais[produtos[i].SkuInterno] = i
		}
	}
	return pais
}

// classe resolves the class of produtos[i]. The parent flag wins over a
// non-empty sku_pai.
func classe(produtos []model.Produto, i int, pais map[string]int) Classe {
	p := &produtos[i]
	if p.EhProdutoPai {
		return ClassePai
	}
	ref := p.ReferenciaPai()
	if ref == "" {
		return ClasseAvulso
	}
	if _, ok := pais[ref]; ok {
		return ClasseFilho
	}
	return ClasseOrfao
}

// Classificar returns the class of every product, index-aligned with the input.
func Classificar(produtos []model.Produto) []Classe {
	pais := indicePais(produtos)
	out := make([]Classe, len(produtos))
	for i := range produtos {
		out[i] = classe(produtos, i, pais)
	}
	return out
}

// Agrupar partitions produtos into groups keyed by parent SKU. Groups come
// out in the order their principal product appears in the input; children
// keep their input order. Every product lands in exactly one group.
func Agrupar(produtos []model.Produto) []Grupo {
	pais := indicePais(produtos)
	grupos := make([]Grupo, 0, len(produtos))
	grupoDoPai := make(map[int]int, len(pais))

	for i := range produtos {
		c := classe(produtos, i, pais)
		if c == ClasseFilho {
			continue
		}
		if c == ClassePai && pais[produtos[i].SkuInterno] == i {
			grupoDoPai[i] = len(grupos)
		}
		principal := produtos[i]
		grupos = append(grupos, Grupo{
			SkuGrupo:  principal.SkuInterno,
			Principal: &principal,
			Classe:    c,
		})
	}

	for i := range produtos {
		if classe(produtos, i, pais) != ClasseFilho {
			continue
		}
		g := grupoDoPai[pais[produtos[i].ReferenciaPai()]]
		grupos[g].Filhos = append(grupos[g].Filhos, produtos[i])
	}

	for i := range grupos {
		agregar(&grupos[i])
	}
	return grupos
}

// agregar fills the stock aggregates. A parent with children reports the sum
// of its children; any other group reports its principal's own quantity.
// The effective minimum is the principal's minimum, falling back to the sum
// of the children's minimums when the parent has none configured.
func agregar(g *Grupo) {
	valor := decimal.Zero
	if g.Principal != nil {
		valor = valor.Add(g.Principal.PrecoCusto.Mul(decimal.NewFromInt(int64(g.Principal.QuantidadeAtual))))
	}

	if len(g.Filhos) == 0 {
		g.EstoqueTotal = g.Principal.QuantidadeAtual
		g.EstoqueMinimo = g.Principal.EstoqueMinimo
	} else {
		total, minimos := 0, 0
		for _, f := range g.Filhos {
			total += f.QuantidadeAtual
			minimos += f.EstoqueMinimo
			valor = valor.Add(f.PrecoCusto.Mul(decimal.NewFromInt(int64(f.QuantidadeAtual))))
		}
		g.EstoqueTotal = total
		g.EstoqueMinimo = g.Principal.EstoqueMinimo
		if g.EstoqueMinimo == 0 {
			g.EstoqueMinimo = minimos
		}
	}

	g.EstoqueBaixo = g.EstoqueTotal <= g.EstoqueMinimo
	g.ValorCusto = valor
}

// Alertas returns the groups whose stock is at or below their minimum.
func Alertas(grupos []Grupo) []Grupo {
	out := make([]Grupo, 0)
	for _, g := range grupos {
		if g.EstoqueBaixo {
			out = append(out, g)
		}
	}
	return out
}

// Resumo is the dashboard header of the stock view.
type Resumo struct {
	TotalProdutos      int
	TotalGrupos        int
	Pais               int
	Filhos             int
	Avulsos            int
	Orfaos             int
	GruposEstoqueBaixo int
	EstoqueTotal       int
	ValorCusto         decimal.Decimal
}

func Resumir(grupos []Grupo) Resumo {
	r := Resumo{TotalGrupos: len(grupos), ValorCusto: decimal.Zero}
	for _, g := range grupos {
		switch g.Classe {
		case ClassePai:
			r.Pais++
		case ClasseAvulso:
			r.Avulsos++
		case ClasseOrfao:
			r.Orfaos++
		}
		r.Filhos += len(g.Filhos)
		r.TotalProdutos += len(g.Filhos) + 1
		r.EstoqueTotal += g.EstoqueTotal
		r.ValorCusto = r.ValorCusto.Add(g.ValorCusto)
		if g.EstoqueBaixo {
			r.GruposEstoqueBaixo++
		}
	}
	return r
}

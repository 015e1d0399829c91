package estoque

import (
	"fmt"
	"math"
	"testing"

	"reistoq/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itensSkus(pg Pagina) []string {
	out := make([]string, len(pg.Itens))
	for i, it := range pg.Itens {
		out[i] = it.Produto.SkuInterno
	}
	return out
}

func TestPaginarTransbordoMantemGrupo(t *testing.T) {
	lista := []model.Produto{pai("A"), filho("A-1", "A", 5), filho("A-2", "A", 3)}

	pg := Paginar(Selecionar(lista), 1, 1)

	assert.Equal(t, []string{"A", "A-1", "A-2"}, itensSkus(pg))
	assert.Equal(t, 2, pg.Transbordo)
	assert.Equal(t, 3, pg.TotalPaginas)
	assert.False(t, pg.Itens[0].Transbordo)
	assert.True(t, pg.Itens[1].Transbordo)
	assert.Equal(t, 0, pg.Itens[0].Nivel)
	assert.Equal(t, 1, pg.Itens[2].Nivel)
}

func TestPaginarGrupoJaRenderizadoNaoRepete(t *testing.T) {
	lista := []model.Produto{pai("A"), filho("A-1", "A", 5), filho("A-2", "A", 3)}

	assert.Empty(t, Paginar(Selecionar(lista), 2, 1).Itens)
	assert.Empty(t, Paginar(Selecionar(lista), 3, 1).Itens)
}

func TestPaginarPuxaPaiDePaginaPosterior(t *testing.T) {
	lista := []model.Produto{
		novoProduto("S1", 1),
		filho("A-2", "A", 1),
		novoProduto("S2", 1),
		pai("A"),
		filho("A-1", "A", 1),
	}

	pg := Paginar(Selecionar(lista), 1, 2)
	assert.Equal(t, []string{"S1", "A", "A-1", "A-2"}, itensSkus(pg))

	pg2 := Paginar(Selecionar(lista), 2, 2)
	assert.Equal(t, []string{"S2"}, itensSkus(pg2))
	assert.Empty(t, Paginar(Selecionar(lista), 3, 2).Itens)
}

func TestPaginarFilhosOrdenadosPorSku(t *testing.T) {
	lista := []model.Produto{pai("A"), filho("A-3", "A", 1), filho("A-1", "A", 1), filho("A-2", "A", 1)}

	pg := Paginar(Selecionar(lista), 1, 10)
	assert.Equal(t, []string{"A", "A-1", "A-2", "A-3"}, itensSkus(pg))
	assert.Zero(t, pg.Transbordo)
}

func TestPaginarPreservaOrdemRelativa(t *testing.T) {
	lista := []model.Produto{
		novoProduto("Z", 1),
		pai("B"),
		novoProduto("A", 1),
		filho("B-1", "B", 1),
	}

	pg := Paginar(Selecionar(lista), 1, 3)
	assert.Equal(t, []string{"Z", "B", "B-1", "A"}, itensSkus(pg))
}

func TestPaginarEntradaVazia(t *testing.T) {
	pg := Paginar(Selecao{}, 1, 10)
	assert.Empty(t, pg.Itens)
	assert.Zero(t, pg.TotalPaginas)
}

func TestPaginarNormalizaParametros(t *testing.T) {
	lista := []model.Produto{novoProduto("A", 1)}
	pg := Paginar(Selecionar(lista), 0, 0)
	assert.Equal(t, 1, pg.Numero)
	assert.Equal(t, TamanhoPaginaPadrao, pg.Tamanho)
	assert.Len(t, pg.Itens, 1)
}

func TestPaginarOrfaoFicaSozinho(t *testing.T) {
	lista := []model.Produto{filho("X-1", "X", 1), novoProduto("Y", 1)}
	pg := Paginar(Selecionar(lista), 1, 1)
	require.Len(t, pg.Itens, 1)
	assert.Equal(t, ClasseOrfao, pg.Itens[0].Classe)
}

// catalogo builds a mixed list with interleaved parents, children,
// standalone and orphan products.
func catalogo() []model.Produto {
	var out []model.Produto
	for g := 0; g < 6; g++ {
		sku := fmt.Sprintf("P%d", g)
		out = append(out, filho(sku+"-b", sku, g))
		out = append(out, novoProduto(fmt.Sprintf("S%d", g), g))
		out = append(out, pai(sku))
		if g%2 == 0 {
			out = append(out, filho(fmt.Sprintf("O%d", g), "AUSENTE", 1))
		}
		out = append(out, filho(sku+"-a", sku, g+1))
	}
	return out
}

func TestPaginarTodasCompletudeESemGruposDivididos(t *testing.T) {
	lista := catalogo()

	for _, tamanho := range []int{1, 2, 3, 5, 7, 50} {
		t.Run(fmt.Sprintf("tamanho_%d", tamanho), func(t *testing.T) {
			paginaDe := make(map[string]int)
			for _, pg := range PaginarTodas(Selecionar(lista), tamanho) {
				for _, it := range pg.Itens {
					_, repetido := paginaDe[it.Produto.SkuInterno]
					require.False(t, repetido, "%s rendered twice", it.Produto.SkuInterno)
					paginaDe[it.Produto.SkuInterno] = pg.Numero
				}
			}
			require.Len(t, paginaDe, len(lista))

			for _, p := range lista {
				ref := p.ReferenciaPai()
				if ref == "" {
					continue
				}
				if pagPai, ok := paginaDe[ref]; ok {
					assert.Equal(t, pagPai, paginaDe[p.SkuInterno], "%s split from %s", p.SkuInterno, ref)
				}
			}
		})
	}
}

func TestPaginarComFiltro(t *testing.T) {
	lista := []model.Produto{
		pai("A"), filho("A-1", "A", 5), novoProduto("B", 0), filho("A-2", "A", 0),
	}
	sel := AplicarFiltro(lista, Filtro{Status: StatusSemEstoque})
	assert.Equal(t, []string{"B", "A-2"}, skus(sel.Produtos))

	pg := Paginar(sel, 1, 1)
	assert.Equal(t, []string{"B"}, itensSkus(pg))

	// A-2 lost its parent to the filter but is still A's child
	pg = Paginar(sel, 2, 1)
	require.Len(t, pg.Itens, 1)
	assert.Equal(t, ClasseFilho, pg.Itens[0].Classe)
	assert.Equal(t, "A", pg.Itens[0].SkuGrupo)
	assert.Equal(t, 1, pg.Itens[0].Nivel)
}

func TestPaginarFilhosSemPaiNaSelecao(t *testing.T) {
	lista := []model.Produto{
		pai("A"), filho("A-2", "A", 1), novoProduto("S", 1), filho("A-1", "A", 1), filho("O-1", "SUMIU", 1),
	}
	sel := AplicarFiltro(lista, Filtro{Tipo: "filho"})

	pg := Paginar(sel, 1, 1)
	assert.Equal(t, []string{"A-1", "A-2"}, itensSkus(pg), "siblings stay together")
	for _, it := range pg.Itens {
		assert.Equal(t, ClasseFilho, it.Classe)
		assert.Equal(t, "A", it.SkuGrupo)
	}
	assert.Empty(t, Paginar(sel, 2, 1).Itens)

	pg = Paginar(AplicarFiltro(lista, Filtro{Busca: "o-1"}), 1, 10)
	require.Len(t, pg.Itens, 1)
	assert.Equal(t, ClasseOrfao, pg.Itens[0].Classe)
}

func TestPaginarPaginaForaDoIntervalo(t *testing.T) {
	sel := Selecionar([]model.Produto{novoProduto("A", 1), novoProduto("B", 1), novoProduto("C", 1)})

	for _, numero := range []int{3, math.MaxInt/2 + 2, math.MaxInt} {
		pg := Paginar(sel, numero, 2)
		assert.Empty(t, pg.Itens, "page %d", numero)
		assert.Equal(t, 2, pg.TotalPaginas)
		assert.Equal(t, numero, pg.Numero)
	}

	pg := Paginar(sel, 1, math.MaxInt)
	assert.Equal(t, []string{"A", "B", "C"}, itensSkus(pg))
	assert.Equal(t, 1, pg.TotalPaginas)
	assert.Empty(t, Paginar(sel, 2, math.MaxInt).Itens)
}

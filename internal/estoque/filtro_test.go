package estoque

import (
	"testing"

	"reistoq/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestAplicarFiltro(t *testing.T) {
	baixo := novoProduto("BAIXO-1", 2)
	baixo.EstoqueMinimo = 5
	excesso := novoProduto("CHEIO", 50)
	excesso.EstoqueMaximo = 10
	camiseta := pai("CAM")
	camiseta.Nome = "Camiseta Básica"

	lista := []model.Produto{
		camiseta,
		filho("CAM-P", "CAM", 3),
		filho("CAM-M", "CAM", 0),
		baixo,
		excesso,
		novoProduto("ZERO", 0),
		filho("ORF-1", "SUMIU", 4),
	}

	casos := []struct {
		nome   string
		filtro Filtro
		espera []string
	}{
		{"zero value keeps all", Filtro{}, []string{"CAM", "CAM-P", "CAM-M", "BAIXO-1", "CHEIO", "ZERO", "ORF-1"}},
		{"busca por nome", Filtro{Busca: "camiseta"}, []string{"CAM"}},
		{"busca por sku", Filtro{Busca: " cam-"}, []string{"CAM-P", "CAM-M"}},
		{"tipo pai", Filtro{Tipo: "pai"}, []string{"CAM"}},
		{"tipo filho", Filtro{Tipo: "filho"}, []string{"CAM-P", "CAM-M"}},
		{"tipo avulso", Filtro{Tipo: "avulso"}, []string{"BAIXO-1", "CHEIO", "ZERO"}},
		{"tipo orfao", Filtro{Tipo: "orfao"}, []string{"ORF-1"}},
		{"sem estoque", Filtro{Status: StatusSemEstoque}, []string{"CAM-M", "ZERO"}},
		{"estoque baixo includes empty rows", Filtro{Status: StatusEstoqueBaixo}, []string{"CAM-M", "BAIXO-1", "ZERO"}},
		{"em estoque uses parent total", Filtro{Status: StatusEmEstoque}, []string{"CAM", "CAM-P", "CHEIO", "ORF-1"}},
		{"excesso", Filtro{Status: StatusExcesso}, []string{"CHEIO"}},
		{"combinado", Filtro{Tipo: "filho", Status: StatusEmEstoque}, []string{"CAM-P"}},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			assert.Equal(t, c.espera, skus(AplicarFiltro(lista, c.filtro).Produtos))
		})
	}
}

func TestAplicarFiltroMantemClasseDoCatalogo(t *testing.T) {
	lista := []model.Produto{pai("A"), filho("A-1", "A", 5), filho("O-1", "SUMIU", 1)}

	sel := AplicarFiltro(lista, Filtro{Tipo: "filho"})
	assert.Equal(t, []string{"A-1"}, skus(sel.Produtos))
	assert.Equal(t, []Classe{ClasseFilho}, sel.Classes)

	sel = AplicarFiltro(lista, Filtro{Busca: "-1"})
	assert.Equal(t, []string{"A-1", "O-1"}, skus(sel.Produtos))
	assert.Equal(t, []Classe{ClasseFilho, ClasseOrfao}, sel.Classes)
}

func TestFiltrarGrupos(t *testing.T) {
	a := pai("A")
	a.EstoqueMinimo = 10
	b := pai("B")
	cheio := novoProduto("CHEIO", 50)
	cheio.EstoqueMinimo = 5
	orfao := filho("O-1", "SUMIU", 2)
	orfao.EstoqueMinimo = 3

	grupos := Agrupar([]model.Produto{
		a, filho("A-1", "A", 5), filho("A-2", "A", 3),
		b, filho("B-1", "B", 7), filho("B-2", "B", 0),
		cheio,
		orfao,
	})

	casos := []struct {
		nome   string
		filtro Filtro
		espera []string
		totais []int
	}{
		{"zero value keeps all", Filtro{}, []string{"A", "B", "CHEIO", "O-1"}, []int{8, 7, 50, 2}},
		{"estoque baixo keeps whole group", Filtro{Status: StatusEstoqueBaixo}, []string{"A", "B", "O-1"}, []int{8, 7, 2}},
		{"sem estoque through a child", Filtro{Status: StatusSemEstoque}, []string{"B"}, []int{7}},
		{"tipo filho keeps parent groups", Filtro{Tipo: "filho"}, []string{"A", "B"}, []int{8, 7}},
		{"tipo orfao", Filtro{Tipo: "orfao"}, []string{"O-1"}, []int{2}},
		{"busca matches one child", Filtro{Busca: "b-2"}, []string{"B"}, []int{7}},
		{"em estoque", Filtro{Status: StatusEmEstoque, Tipo: "avulso"}, []string{"CHEIO"}, []int{50}},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			out := FiltrarGrupos(grupos, c.filtro)
			got, totais := make([]string, len(out)), make([]int, len(out))
			for i, g := range out {
				got[i], totais[i] = g.SkuGrupo, g.EstoqueTotal
			}
			assert.Equal(t, c.espera, got)
			assert.Equal(t, c.totais, totais)
		})
	}

	// kept groups are never trimmed
	out := FiltrarGrupos(grupos, Filtro{Busca: "a-2"})
	assert.Len(t, out, 1)
	assert.Len(t, out[0].Filhos, 2)
	assert.Equal(t, ClassePai, out[0].Classe)
}

func TestFiltrarGruposConcordaComAlertas(t *testing.T) {
	grupos := Agrupar([]model.Produto{
		novoProduto("ZERO", 0),
		novoProduto("UM", 1),
		pai("V"), filho("V-1", "V", 0),
	})

	var alertas, filtrados []string
	for _, g := range Alertas(grupos) {
		alertas = append(alertas, g.SkuGrupo)
	}
	for _, g := range FiltrarGrupos(grupos, Filtro{Status: StatusEstoqueBaixo, Tipo: "avulso"}) {
		filtrados = append(filtrados, g.SkuGrupo)
	}
	for _, g := range FiltrarGrupos(grupos, Filtro{Status: StatusEstoqueBaixo, Tipo: "pai"}) {
		filtrados = append(filtrados, g.SkuGrupo)
	}
	assert.Equal(t, []string{"ZERO", "V"}, alertas)
	assert.Equal(t, []string{"ZERO", "V"}, filtrados)
}

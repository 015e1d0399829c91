package infra

// pdf.go renders the hierarchical stock report with go-pdf/fpdf:
//   - title and generation timestamp
//   - summary line (groups, products, low-stock groups, value at cost)
//   - one bold row per group followed by its indented children
//   - low-stock groups flagged in the last column

import (
	"bytes"
	"fmt"
	"time"

	"reistoq/internal/estoque"

	"github.com/go-pdf/fpdf"
)

// GerarRelatorioEstoquePDF renders grupos as an A4 landscape PDF and returns
// the document bytes.
func GerarRelatorioEstoquePDF(grupos []estoque.Grupo, resumo estoque.Resumo, geradoEm time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	cols := []struct {
		titulo string
		w      float64
		align  string
	}{
		{"SKU", contentW * 0.16, "L"},
		{"Produto", contentW * 0.36, "L"},
		{"Tipo", contentW * 0.08, "C"},
		{"Estoque", contentW * 0.10, "R"},
		{"Mínimo", contentW * 0.10, "R"},
		{"Valor custo", contentW * 0.12, "R"},
		{"Alerta", contentW * 0.08, "C"},
	}

	cabecalho := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.w, 6, tr(c.titulo), "1", ln, "C", true, 0, "")
		}
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			cabecalho()
		}
	})

	pdf.AddPage()

	// ── Title ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Relatório de Estoque"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, geradoEm.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf(
		"%d grupos · %d produtos · %d com estoque baixo · valor em custo R$ %s",
		resumo.TotalGrupos, resumo.TotalProdutos, resumo.GruposEstoqueBaixo, resumo.ValorCusto.StringFixed(2),
	)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	cabecalho()

	linha := func(sku, nome, tipo string, qtd, minimo int, valor string, alerta bool, bold bool) {
		estilo := ""
		if bold {
			estilo = "B"
		}
		pdf.SetFont("Helvetica", estilo, 8)
		marca := ""
		if alerta {
			marca = "BAIXO"
		}
		vals := []string{sku, nome, tipo, fmt.Sprint(qtd), fmt.Sprint(minimo), valor, marca}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.w, 5, tr(truncar(vals[i], int(c.w/1.6))), "1", ln, c.align, false, 0, "")
		}
	}

	// ── Groups ───────────────────────────────────────────────────────────────
	for _, g := range grupos {
		p := g.Principal
		linha(p.SkuInterno, p.Nome, string(g.Classe), g.EstoqueTotal, g.EstoqueMinimo,
			g.ValorCusto.StringFixed(2), g.EstoqueBaixo, true)
		for _, f := range g.Filhos {
			valor := f.PrecoCusto.Mul(decimalInt(f.QuantidadeAtual)).StringFixed(2)
			linha("  "+f.SkuInterno, "  "+f.Nome, string(estoque.ClasseFilho), f.QuantidadeAtual, f.EstoqueMinimo,
				valor, false, false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func truncar(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

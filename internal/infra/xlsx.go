package infra

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"reistoq/internal/estoque"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const abaEstoque = "Estoque"

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// GerarRelatorioEstoqueXLSX writes one row per product, the group head first
// and its children indented below, with an autofilter on the header row.
func GerarRelatorioEstoqueXLSX(grupos []estoque.Grupo) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", abaEstoque); err != nil {
		return nil, err
	}

	cabecalhoID, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#305496"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	grupoID, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	baixoID, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#C00000"},
	})

	cabecalho := []string{"Grupo", "SKU", "Produto", "Tipo", "Categoria", "Local", "Estoque", "Mínimo", "Máximo", "Custo unit.", "Valor custo", "Alerta"}
	for i, h := range cabecalho {
		cel, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(abaEstoque, cel, h)
	}
	_ = f.SetCellStyle(abaEstoque, "A1", "L1", cabecalhoID)

	linha := 2
	escrever := func(valores []any, estilo int) {
		for i, v := range valores {
			cel, _ := excelize.CoordinatesToCellName(i+1, linha)
			_ = f.SetCellValue(abaEstoque, cel, v)
		}
		if estilo != 0 {
			_ = f.SetCellStyle(abaEstoque, "A"+strconv.Itoa(linha), "L"+strconv.Itoa(linha), estilo)
		}
		linha++
	}

	for _, g := range grupos {
		p := g.Principal
		alerta := ""
		estilo := grupoID
		if g.EstoqueBaixo {
			alerta = "BAIXO"
			estilo = baixoID
		}
		escrever([]any{
			g.SkuGrupo, p.SkuInterno, p.Nome, string(g.Classe), p.Categoria, p.LocalEstoque,
			g.EstoqueTotal, g.EstoqueMinimo, p.EstoqueMaximo,
			p.PrecoCusto.InexactFloat64(), g.ValorCusto.InexactFloat64(), alerta,
		}, estilo)
		for _, fi := range g.Filhos {
			escrever([]any{
				g.SkuGrupo, fi.SkuInterno, "    " + fi.Nome, string(estoque.ClasseFilho), fi.Categoria, fi.LocalEstoque,
				fi.QuantidadeAtual, fi.EstoqueMinimo, fi.EstoqueMaximo,
				fi.PrecoCusto.InexactFloat64(), fi.PrecoCusto.Mul(decimalInt(fi.QuantidadeAtual)).InexactFloat64(), "",
			}, 0)
		}
	}

	_ = f.SetColWidth(abaEstoque, "A", "B", 16)
	_ = f.SetColWidth(abaEstoque, "C", "C", 40)
	_ = f.SetColWidth(abaEstoque, "D", "L", 12)
	if err := f.AutoFilter(abaEstoque, fmt.Sprintf("A1:L%d", max(linha-1, 1)), nil); err != nil {
		return nil, err
	}
	_ = f.SetPanes(abaEstoque, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: write: %w", err)
	}
	return buf.Bytes(), nil
}

// LerLinhasXLSX returns the trimmed cells of the first sheet, header included.
// Rows that are entirely blank are dropped.
func LerLinhasXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open: %w", err)
	}
	defer f.Close()

	aba := f.GetSheetName(0)
	if aba == "" {
		return nil, fmt.Errorf("xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(aba)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read rows: %w", err)
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		vazia := true
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
			if row[i] != "" {
				vazia = false
			}
		}
		if !vazia {
			out = append(out, row)
		}
	}
	return out, nil
}

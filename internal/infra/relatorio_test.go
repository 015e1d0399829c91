package infra

import (
	"bytes"
	"testing"
	"time"

	"reistoq/internal/estoque"
	"reistoq/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func gruposExemplo() []estoque.Grupo {
	skuPai := "CAM"
	produtos := []model.Produto{
		{ID: uuid.New(), SkuInterno: "CAM", Nome: "Camiseta Básica", EhProdutoPai: true, PrecoCusto: decimal.NewFromInt(20)},
		{ID: uuid.New(), SkuInterno: "CAM-P", Nome: "Camiseta P", SkuPai: &skuPai, QuantidadeAtual: 3, PrecoCusto: decimal.NewFromInt(20)},
		{ID: uuid.New(), SkuInterno: "CAM-M", Nome: "Camiseta M", SkuPai: &skuPai, QuantidadeAtual: 1, PrecoCusto: decimal.NewFromInt(20)},
		{ID: uuid.New(), SkuInterno: "CAN", Nome: "Caneca", QuantidadeAtual: 0, EstoqueMinimo: 2, PrecoCusto: decimal.NewFromInt(8)},
	}
	return estoque.Agrupar(produtos)
}

func TestGerarRelatorioEstoqueXLSX(t *testing.T) {
	b, err := GerarRelatorioEstoqueXLSX(gruposExemplo())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(abaEstoque)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "SKU", rows[0][1])
	assert.Equal(t, []string{"CAM", "CAM-P", "CAM-M", "CAN"}, []string{rows[1][1], rows[2][1], rows[3][1], rows[4][1]})
	assert.Equal(t, "4", rows[1][6])
	assert.Equal(t, "BAIXO", rows[4][11])
}

func TestLerLinhasXLSXIgnoraLinhasVazias(t *testing.T) {
	f := excelize.NewFile()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"marketplace", "sku_marketplace", "sku_interno"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{" mercadolivre ", "MLB1", "CAM-P"})
	_ = f.SetSheetRow("Sheet1", "A4", &[]any{"shopee", "SH9", ""})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := LerLinhasXLSX(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "mercadolivre", rows[1][0])
	assert.Equal(t, "SH9", rows[2][1])
}

func TestLerLinhasXLSXArquivoInvalido(t *testing.T) {
	_, err := LerLinhasXLSX(bytes.NewReader([]byte("isto não é xlsx")))
	assert.Error(t, err)
}

func TestGerarRelatorioEstoquePDF(t *testing.T) {
	grupos := gruposExemplo()
	b, err := GerarRelatorioEstoquePDF(grupos, estoque.Resumir(grupos), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

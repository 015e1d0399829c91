package repository_test

import (
	"context"
	"errors"
	"testing"

	"reistoq/internal/dto"
	"reistoq/internal/model"
	"reistoq/internal/repository"
	"reistoq/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func novoProduto(sku string, qtd int) *model.Produto {
	return &model.Produto{
		SkuInterno:      sku,
		Nome:            "Produto " + sku,
		Categoria:       "geral",
		LocalEstoque:    "A1",
		PrecoCusto:      decimal.RequireFromString("10.50"),
		PrecoVenda:      decimal.RequireFromString("19.90"),
		QuantidadeAtual: qtd,
		UnidadeMedida:   "un",
		Ativo:           true,
	}
}

func comPai(p *model.Produto, skuPai string) *model.Produto {
	p.SkuPai = &skuPai
	return p
}

func TestProdutoRepoCreateFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))

	p := novoProduto("CAM-P", 4)
	require.NoError(t, repo.Create(ctx, p))
	assert.NotEqual(t, uuid.Nil, p.ID)

	porID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "CAM-P", porID.SkuInterno)
	assert.True(t, decimal.RequireFromString("10.5").Equal(porID.PrecoCusto))

	porSKU, err := repo.FindBySKU(ctx, " CAM-P ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, porSKU.ID)

	_, err = repo.FindBySKU(ctx, "NADA")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProdutoRepoSkuUnico(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))

	require.NoError(t, repo.Create(ctx, novoProduto("DUP", 1)))
	assert.Error(t, repo.Create(ctx, novoProduto("DUP", 1)))
}

func TestProdutoRepoList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))

	caneca := novoProduto("CAN-01", 3)
	caneca.Nome = "Caneca Azul"
	caneca.Categoria = "cozinha"
	inativo := novoProduto("VEL-01", 1)
	for _, p := range []*model.Produto{novoProduto("CAM-01", 1), caneca, novoProduto("CAM-02", 2), inativo} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.NoError(t, repo.SoftDelete(ctx, inativo.ID))

	rows, total, err := repo.List(ctx, dto.ProdutoFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "CAM-01", rows[0].SkuInterno)

	rows, _, err = repo.List(ctx, dto.ProdutoFilter{Busca: "azul", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAN-01", rows[0].SkuInterno)

	rows, _, err = repo.List(ctx, dto.ProdutoFilter{Busca: "cam-", Categoria: "geral", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, dto.ProdutoFilter{Ativo: "false", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "VEL-01", rows[0].SkuInterno)

	_, total, err = repo.List(ctx, dto.ProdutoFilter{Ativo: "all", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestProdutoRepoListParaEstoque(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))

	pai := novoProduto("CAM", 0)
	pai.EhProdutoPai = true
	outroLocal := novoProduto("CAM-G", 1)
	outroLocal.LocalEstoque = "B2"
	inativo := comPai(novoProduto("CAM-M", 2), "CAM")

	for _, p := range []*model.Produto{comPai(novoProduto("CAM-P", 1), "CAM"), pai, outroLocal, inativo} {
		require.NoError(t, repo.Create(ctx, p))
	}
	require.NoError(t, repo.SoftDelete(ctx, inativo.ID))

	todos, err := repo.ListParaEstoque(ctx, repository.EstoqueQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM", "CAM-G", "CAM-P"}, skusDe(todos))

	locais, err := repo.ListParaEstoque(ctx, repository.EstoqueQuery{Local: "A1", IncluirTodos: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM", "CAM-M", "CAM-P"}, skusDe(locais))

	filhos, err := repo.FindFilhos(ctx, "CAM")
	require.NoError(t, err)
	assert.Equal(t, []string{"CAM-M", "CAM-P"}, skusDe(filhos))
}

func TestProdutoRepoReativarInexistente(t *testing.T) {
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))
	err := repo.Reativar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProdutoRepoAjustarEstoqueTx(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProdutoRepository(testutil.NewSQLiteDB(t))
	p := novoProduto("AJ-1", 5)
	require.NoError(t, repo.Create(ctx, p))

	err := repo.DB().Transaction(func(tx *gorm.DB) error {
		atual, err := repo.FindForUpdateTx(tx, p.ID)
		if err != nil {
			return err
		}
		return repo.AjustarEstoqueTx(tx, p.ID, atual.QuantidadeAtual+7)
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.QuantidadeAtual)
}

func skusDe(produtos []model.Produto) []string {
	out := make([]string, len(produtos))
	for i, p := range produtos {
		out[i] = p.SkuInterno
	}
	return out
}

package repository_test

import (
	"context"
	"testing"

	"reistoq/internal/model"
	"reistoq/internal/repository"
	"reistoq/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

func TestSkuMapeamentoRepoUpsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSkuMapeamentoRepository(testutil.NewSQLiteDB(t))

	m := &model.SkuMapeamento{Marketplace: model.MarketplaceShopee, SkuMarketplace: "SH-1", QuantidadeKit: 1, Ativo: true}
	criado, err := repo.Upsert(ctx, m)
	require.NoError(t, err)
	assert.True(t, criado)

	de := &model.SkuMapeamento{Marketplace: model.MarketplaceShopee, SkuMarketplace: "SH-1", SkuInterno: ptr("CAN-01"), QuantidadeKit: 2}
	criado, err = repo.Upsert(ctx, de)
	require.NoError(t, err)
	assert.False(t, criado)
	assert.Equal(t, m.ID, de.ID)

	got, err := repo.FindByMarketplaceSKU(ctx, model.MarketplaceShopee, "SH-1")
	require.NoError(t, err)
	require.NotNil(t, got.SkuInterno)
	assert.Equal(t, "CAN-01", *got.SkuInterno)
	assert.Equal(t, 2, got.QuantidadeKit)
}

func TestSkuMapeamentoRepoListPendentes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSkuMapeamentoRepository(testutil.NewSQLiteDB(t))

	for _, m := range []*model.SkuMapeamento{
		{Marketplace: model.MarketplaceMercadoLivre, SkuMarketplace: "MLB-2", SkuInterno: ptr("CAM-P"), QuantidadeKit: 1, Ativo: true},
		{Marketplace: model.MarketplaceMercadoLivre, SkuMarketplace: "MLB-1", QuantidadeKit: 1, Ativo: true},
		{Marketplace: model.MarketplaceAmazon, SkuMarketplace: "AMZ-1", QuantidadeKit: 1, Ativo: true},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	rows, total, err := repo.List(ctx, repository.SkuMapeamentoFilter{Marketplace: model.MarketplaceMercadoLivre})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "MLB-1", rows[0].SkuMarketplace)

	_, total, err = repo.List(ctx, repository.SkuMapeamentoFilter{Pendentes: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, _, err = repo.List(ctx, repository.SkuMapeamentoFilter{Busca: "cam"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MLB-2", rows[0].SkuMarketplace)
}

func TestSkuMapeamentoRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSkuMapeamentoRepository(testutil.NewSQLiteDB(t))

	m := &model.SkuMapeamento{Marketplace: model.MarketplaceAmazon, SkuMarketplace: "X", QuantidadeKit: 1, Ativo: true}
	require.NoError(t, repo.Create(ctx, m))
	require.NoError(t, repo.Delete(ctx, m.ID))
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), gorm.ErrRecordNotFound)
}

package service_test

import (
	"context"
	"testing"

	"reistoq/internal/dto"
	"reistoq/internal/repository"
	"reistoq/internal/service"
	"reistoq/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriaCRUD(t *testing.T) {
	svc := service.NewCategoriaService(repository.NewCategoriaRepository(testutil.NewSQLiteDB(t)))
	ctx := context.Background()

	cozinha, err := svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: "Cozinha"})
	require.NoError(t, err)
	assert.True(t, cozinha.Ativo)

	_, err = svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: " cozinha "})
	assert.ErrorIs(t, err, service.ErrCategoriaDuplicada)

	vestuario, err := svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: "Vestuário"})
	require.NoError(t, err)

	nome := "Cozinha"
	_, err = svc.Atualizar(ctx, vestuario.ID, dto.AtualizarCategoriaRequest{Nome: &nome})
	assert.ErrorIs(t, err, service.ErrCategoriaDuplicada)

	nome = "Roupas"
	atualizada, err := svc.Atualizar(ctx, vestuario.ID, dto.AtualizarCategoriaRequest{Nome: &nome})
	require.NoError(t, err)
	assert.Equal(t, "Roupas", atualizada.Nome)

	require.NoError(t, svc.Desativar(ctx, cozinha.ID))
	ativas, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	require.Len(t, ativas, 1)
	assert.Equal(t, "Roupas", ativas[0].Nome)

	todas, err := svc.Listar(ctx, true)
	require.NoError(t, err)
	assert.Len(t, todas, 2)

	assert.ErrorIs(t, svc.Desativar(ctx, uuid.New()), service.ErrCategoriaNaoEncontrada)
}

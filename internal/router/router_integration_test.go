//go:build integration

// End-to-end tests against real Postgres and Redis containers.
// Run with: go test -tags integration ./internal/router/... -v
package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reistoq/internal/config"
	"reistoq/internal/dto"
	"reistoq/internal/infra"
	"reistoq/internal/model"
	"reistoq/internal/router"
	"reistoq/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // administrador JWT
	cfg    *config.Config
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("reistoq_test"),
		tcpostgres.WithUsername("reistoq"),
		tcpostgres.WithPassword("reistoq"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                8000,
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTExpirationHours:  8,
		JWTRefreshHours:     24,
		DatabaseURL:         pgURL,
		RedisURL:            rdURL,
		WorkerPoolSize:      1,
		CacheTTLSegundos:    60,
		PaginaTamanhoPadrao: 20,
		RateLimitPorMinuto:  10000,
		AlertaEmailDestino:  "estoque@example.com",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("reistoq2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username: "admin", Nome: "Admin E2E", PasswordHash: string(hash),
		Rol: model.RolAdministrador, Ativo: true,
	}).Error)

	r := router.New(cfg, db, rdb, router.NewEstoqueService(cfg, db, rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv, cfg: cfg}
	resp := env.do(t, http.MethodPost, "/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "reistoq2026"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decodeJSON(t, resp, &login)
	require.NotEmpty(t, login.AccessToken)
	env.token = login.AccessToken
	return env
}

func (e *testEnv) criarProduto(t *testing.T, body map[string]any) dto.ProdutoResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/v1/produtos", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProdutoResponse
	decodeJSON(t, resp, &p)
	return p
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Parent group flow: create, view, adjust a child into low stock, check the
// alert job landed on the Redis queue and the cached view was invalidated.
func TestE2E_HierarquiaEAjuste(t *testing.T) {
	env := setupTestEnv(t)

	env.criarProduto(t, map[string]any{
		"sku_interno": "CAM", "nome": "Camiseta", "preco_custo": "20", "preco_venda": "45",
		"eh_produto_pai": true, "estoque_minimo": 5,
	})
	filho := env.criarProduto(t, map[string]any{
		"sku_interno": "CAM-P", "nome": "Camiseta P", "preco_custo": "20", "preco_venda": "45",
		"quantidade_atual": 6, "sku_pai": "CAM",
	})

	var hier dto.HierarquiaResponse
	decodeJSON(t, env.do(t, http.MethodGet, "/v1/estoque/hierarquia", nil), &hier)
	require.Len(t, hier.Grupos, 1)
	assert.False(t, hier.Grupos[0].EstoqueBaixo)

	resp := env.do(t, http.MethodPatch, "/v1/produtos/"+filho.ID+"/estoque",
		dto.AjustarEstoqueRequest{Delta: -2, Motivo: "pedido 123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	decodeJSON(t, env.do(t, http.MethodGet, "/v1/estoque/hierarquia", nil), &hier)
	assert.True(t, hier.Grupos[0].EstoqueBaixo, "cache invalidated after adjustment")
	assert.Equal(t, 4, hier.Grupos[0].EstoqueTotal)

	rdb, err := infra.NewRedis(env.cfg.RedisURL)
	require.NoError(t, err)
	defer rdb.Close()
	n, err := rdb.LLen(context.Background(), worker.QueueAlertaEstoque).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestE2E_RotasProtegidas(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	env.token = ""
	resp = env.do(t, http.MethodGet, "/v1/estoque/hierarquia", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

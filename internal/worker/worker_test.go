package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"reistoq/internal/dto"
	"reistoq/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type envio struct {
	to      []string
	subject string
	body    string
	anexos  []infra.Anexo
}

type fakeMailer struct {
	envios []envio
	err    error
}

func (m *fakeMailer) EnviarAlerta(to []string, subject, body string, anexos ...infra.Anexo) error {
	if m.err != nil {
		return m.err
	}
	m.envios = append(m.envios, envio{to, subject, body, anexos})
	return nil
}

var _ EnviadorAlerta = (*fakeMailer)(nil)

type fakeFonte struct {
	grupos []dto.GrupoResponse
	err    error
}

func (f fakeFonte) Alertas(context.Context, dto.ConsultaEstoque) ([]dto.GrupoResponse, error) {
	return f.grupos, f.err
}

type fakeNotificador struct{ jobs []dto.AlertaEstoqueJob }

func (n *fakeNotificador) EnqueueAlertaEstoque(_ context.Context, job dto.AlertaEstoqueJob) error {
	n.jobs = append(n.jobs, job)
	return nil
}

func payload(t *testing.T, job dto.AlertaEstoqueJob) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

func item(sku string, total, minimo int) dto.AlertaEstoqueItem {
	return dto.AlertaEstoqueItem{SkuGrupo: sku, Nome: "Produto " + sku, EstoqueTotal: total, EstoqueMinimo: minimo}
}

// ── AlertaWorker ─────────────────────────────────────────────────────────────

func TestAlertaWorkerAjuste(t *testing.T) {
	m := &fakeMailer{}
	w := NewAlertaWorker(m, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	err := w.Process(context.Background(), payload(t, dto.AlertaEstoqueJob{
		Destinatarios: []string{"estoque@example.com"},
		Origem:        dto.OrigemAjuste,
		Itens:         []dto.AlertaEstoqueItem{item("CAM", 4, 5)},
	}))
	require.NoError(t, err)
	require.Len(t, m.envios, 1)
	assert.Equal(t, "[ReiStoq] Estoque baixo: CAM", m.envios[0].subject)
	assert.Contains(t, m.envios[0].body, "CAM (Produto CAM): 4 em estoque, mínimo 5")
	assert.Empty(t, m.envios[0].anexos)
}

func TestAlertaWorkerVarreduraAnexaPlanilha(t *testing.T) {
	m := &fakeMailer{}
	w := NewAlertaWorker(m, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	err := w.Process(context.Background(), payload(t, dto.AlertaEstoqueJob{
		Destinatarios: []string{"estoque@example.com"},
		Origem:        dto.OrigemVarredura,
		Itens:         []dto.AlertaEstoqueItem{item("CAM", 4, 5), item("CAN", 0, 2)},
	}))
	require.NoError(t, err)
	require.Len(t, m.envios, 1)
	assert.Equal(t, "[ReiStoq] 2 grupos com estoque baixo", m.envios[0].subject)
	require.Len(t, m.envios[0].anexos, 1)

	f, err := excelize.OpenReader(bytes.NewReader(m.envios[0].anexos[0].Conteudo))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"CAN", "Produto CAN", "0", "2"}, rows[2])
}

func TestAlertaWorkerFalhaAbreCircuito(t *testing.T) {
	m := &fakeMailer{err: errors.New("connection refused")}
	cfg := infra.DefaultCBConfig("smtp")
	cfg.FailureThreshold = 2
	w := NewAlertaWorker(m, infra.NewCircuitBreaker(cfg))
	raw := payload(t, dto.AlertaEstoqueJob{Destinatarios: []string{"a@example.com"}, Itens: []dto.AlertaEstoqueItem{item("CAN", 0, 1)}})

	assert.Error(t, w.Process(context.Background(), raw))
	assert.Error(t, w.Process(context.Background(), raw))
	assert.ErrorIs(t, w.Process(context.Background(), raw), infra.ErrCircuitOpen)
}

func TestAlertaWorkerDescartaPayloadInvalido(t *testing.T) {
	m := &fakeMailer{}
	w := NewAlertaWorker(m, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")))

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"itens":`)))
	assert.NoError(t, w.Process(context.Background(), payload(t, dto.AlertaEstoqueJob{})))
	assert.Empty(t, m.envios)
}

// ── Pool ─────────────────────────────────────────────────────────────────────

func TestDecidir(t *testing.T) {
	falha := errors.New("x")
	assert.Equal(t, concluido, decidir(nil, 1))
	assert.Equal(t, reenfileirar, decidir(falha, 1))
	assert.Equal(t, reenfileirar, decidir(falha, MaxTentativas-1))
	assert.Equal(t, descartar, decidir(falha, MaxTentativas))
}

func TestDispatcherSemRedis(t *testing.T) {
	d := NewDispatcher(nil)
	assert.Error(t, d.EnqueueAlertaEstoque(context.Background(), dto.AlertaEstoqueJob{}))
}

func TestWorkerHandlersParaFila(t *testing.T) {
	w := NewAlertaWorker(&fakeMailer{}, nil)
	h := &WorkerHandlers{AlertaEstoque: w}
	assert.Equal(t, JobHandler(w), h.paraFila(QueueAlertaEstoque))
	assert.Nil(t, h.paraFila("jobs:outra"))

	var vazio *WorkerHandlers
	assert.Nil(t, vazio.paraFila(QueueAlertaEstoque))
}

func TestNovaEntradaDLQ(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	e := novaEntradaDLQ(QueueAlertaEstoque, "alerta_estoque", json.RawMessage(`{}`), "smtp down", 3, at)
	assert.Equal(t, "2026-03-01T15:00:00Z", e.FailedAt)
	assert.Equal(t, 3, e.Attempts)
}

// ── Cron ─────────────────────────────────────────────────────────────────────

func grupo(sku string, total, minimo int) dto.GrupoResponse {
	return dto.GrupoResponse{
		SkuGrupo:         sku,
		ProdutoPrincipal: dto.ProdutoResponse{Nome: "Produto " + sku},
		EstoqueTotal:     total,
		EstoqueMinimo:    minimo,
		EstoqueBaixo:     true,
	}
}

func TestMontarDigest(t *testing.T) {
	_, ok := montarDigest(nil, []string{"a@example.com"})
	assert.False(t, ok)

	job, ok := montarDigest([]dto.GrupoResponse{grupo("VEL", 1, 2), grupo("CAM", 4, 5)}, []string{"a@example.com"})
	require.True(t, ok)
	assert.Equal(t, dto.OrigemVarredura, job.Origem)
	assert.Equal(t, []dto.AlertaEstoqueItem{item("CAM", 4, 5), item("VEL", 1, 2)}, job.Itens)
}

func TestChaveDigest(t *testing.T) {
	a := chaveDigest([]dto.AlertaEstoqueItem{item("CAM", 4, 5), item("VEL", 1, 2)})
	b := chaveDigest([]dto.AlertaEstoqueItem{item("CAM", 4, 5), item("VEL", 1, 2)})
	c := chaveDigest([]dto.AlertaEstoqueItem{item("CAM", 3, 5), item("VEL", 1, 2)})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, len(a) > len(digestPrefix))
}

func TestVarrerSemRedis(t *testing.T) {
	n := &fakeNotificador{}
	cfg := AlertaCronConfig{
		Estoque:       fakeFonte{grupos: []dto.GrupoResponse{grupo("CAN", 0, 1)}},
		Notificador:   n,
		Destinatarios: []string{"a@example.com"},
	}

	require.NoError(t, varrer(context.Background(), cfg))
	require.Len(t, n.jobs, 1)
	assert.Equal(t, []string{"a@example.com"}, n.jobs[0].Destinatarios)

	cfg.Estoque = fakeFonte{}
	require.NoError(t, varrer(context.Background(), cfg))
	assert.Len(t, n.jobs, 1)

	cfg.Estoque = fakeFonte{err: errors.New("db down")}
	assert.Error(t, varrer(context.Background(), cfg))
}

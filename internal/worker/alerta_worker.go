package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"reistoq/internal/dto"
	"reistoq/internal/infra"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// EnviadorAlerta is the slice of infra.Mailer the worker needs.
type EnviadorAlerta interface {
	EnviarAlerta(to []string, subject, body string, anexos ...infra.Anexo) error
}

// AlertaWorker processes low-stock email jobs from QueueAlertaEstoque.
// SMTP calls run through the circuit breaker so a dead relay fails fast and
// the job is retried later instead of blocking a worker.
type AlertaWorker struct {
	mailer EnviadorAlerta
	cb     *infra.CircuitBreaker
}

func NewAlertaWorker(mailer EnviadorAlerta, cb *infra.CircuitBreaker) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, cb: cb}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job dto.AlertaEstoqueJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// A malformed payload will never succeed; drop it.
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return nil
	}
	if len(job.Destinatarios) == 0 || len(job.Itens) == 0 {
		log.Warn().Msg("alerta_worker: empty job, skipping")
		return nil
	}

	assunto, corpo := montarEmail(job)
	var anexos []infra.Anexo
	if job.Origem == dto.OrigemVarredura {
		data, err := planilhaAlerta(job.Itens)
		if err != nil {
			log.Warn().Err(err).Msg("alerta_worker: attachment skipped")
		} else {
			anexos = append(anexos, infra.Anexo{
				Nome:        "estoque-baixo.xlsx",
				ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				Conteudo:    data,
			})
		}
	}

	err := w.cb.Execute(func() error {
		return w.mailer.EnviarAlerta(job.Destinatarios, assunto, corpo, anexos...)
	})
	if err != nil {
		return fmt.Errorf("alerta_worker: %w", err)
	}
	log.Info().Int("itens", len(job.Itens)).Str("origem", job.Origem).Msg("alerta_worker: low-stock alert sent")
	return nil
}

func montarEmail(job dto.AlertaEstoqueJob) (assunto, corpo string) {
	if len(job.Itens) == 1 {
		assunto = fmt.Sprintf("[ReiStoq] Estoque baixo: %s", job.Itens[0].SkuGrupo)
	} else {
		assunto = fmt.Sprintf("[ReiStoq] %d grupos com estoque baixo", len(job.Itens))
	}

	var b strings.Builder
	b.WriteString("Os seguintes grupos estão no estoque mínimo ou abaixo dele:\n\n")
	for _, it := range job.Itens {
		fmt.Fprintf(&b, "- %s (%s): %d em estoque, mínimo %d\n", it.SkuGrupo, it.Nome, it.EstoqueTotal, it.EstoqueMinimo)
	}
	return assunto, b.String()
}

func planilhaAlerta(itens []dto.AlertaEstoqueItem) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const aba = "Sheet1"
	header := []any{"SKU grupo", "Nome", "Estoque total", "Estoque mínimo"}
	if err := f.SetSheetRow(aba, "A1", &header); err != nil {
		return nil, err
	}
	for i, it := range itens {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{it.SkuGrupo, it.Nome, it.EstoqueTotal, it.EstoqueMinimo}
		if err := f.SetSheetRow(aba, cell, &row); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

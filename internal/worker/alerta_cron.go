package worker

// Periodic low-stock scan over the whole active catalogue. Every group at or
// below its minimum goes out in a single digest job; a digest identical to
// one already sent in the last 24h is skipped.

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"reistoq/internal/dto"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	digestPrefix = "alerta:digest:"
	digestTTL    = 24 * time.Hour
)

// FonteAlertas lists the low-stock groups. service.EstoqueService satisfies it.
type FonteAlertas interface {
	Alertas(ctx context.Context, q dto.ConsultaEstoque) ([]dto.GrupoResponse, error)
}

// Notificador enqueues alert jobs. *Dispatcher satisfies it.
type Notificador interface {
	EnqueueAlertaEstoque(ctx context.Context, job dto.AlertaEstoqueJob) error
}

// AlertaCronConfig holds all dependencies for the scan goroutine.
type AlertaCronConfig struct {
	Estoque       FonteAlertas
	Notificador   Notificador
	RDB           *redis.Client
	Destinatarios []string
	Intervalo     time.Duration
}

// StartAlertaCron launches a goroutine that scans the catalogue every
// cfg.Intervalo until ctx is cancelled.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	if len(cfg.Destinatarios) == 0 || cfg.Notificador == nil || cfg.Intervalo <= 0 {
		log.Info().Msg("alerta_cron: disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("alerta_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				if err := varrer(ctx, cfg); err != nil {
					log.Error().Err(err).Msg("alerta_cron: scan failed")
				}
			}
		}
	}()
}

func varrer(ctx context.Context, cfg AlertaCronConfig) error {
	grupos, err := cfg.Estoque.Alertas(ctx, dto.ConsultaEstoque{})
	if err != nil {
		return err
	}
	job, ok := montarDigest(grupos, cfg.Destinatarios)
	if !ok {
		log.Debug().Msg("alerta_cron: no low-stock groups")
		return nil
	}

	if cfg.RDB != nil {
		novo, err := cfg.RDB.SetNX(ctx, chaveDigest(job.Itens), time.Now().Unix(), digestTTL).Result()
		if err != nil {
			return err
		}
		if !novo {
			log.Debug().Int("itens", len(job.Itens)).Msg("alerta_cron: digest already sent")
			return nil
		}
	}

	log.Info().Int("itens", len(job.Itens)).Msg("alerta_cron: enqueueing digest")
	return cfg.Notificador.EnqueueAlertaEstoque(ctx, job)
}

// montarDigest turns the low-stock groups into one job, sorted by SKU.
func montarDigest(grupos []dto.GrupoResponse, destinatarios []string) (dto.AlertaEstoqueJob, bool) {
	if len(grupos) == 0 {
		return dto.AlertaEstoqueJob{}, false
	}
	itens := make([]dto.AlertaEstoqueItem, 0, len(grupos))
	for _, g := range grupos {
		itens = append(itens, dto.AlertaEstoqueItem{
			SkuGrupo:      g.SkuGrupo,
			Nome:          g.ProdutoPrincipal.Nome,
			EstoqueTotal:  g.EstoqueTotal,
			EstoqueMinimo: g.EstoqueMinimo,
		})
	}
	sort.Slice(itens, func(i, j int) bool { return itens[i].SkuGrupo < itens[j].SkuGrupo })
	return dto.AlertaEstoqueJob{
		Destinatarios: destinatarios,
		Origem:        dto.OrigemVarredura,
		Itens:         itens,
	}, true
}

// chaveDigest hashes the (sku, total) pairs, so a digest is only resent when
// some group's stock actually moved.
func chaveDigest(itens []dto.AlertaEstoqueItem) string {
	var b strings.Builder
	for _, it := range itens {
		b.WriteString(it.SkuGrupo)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(it.EstoqueTotal))
		b.WriteByte(';')
	}
	return digestPrefix + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

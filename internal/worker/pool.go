package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"reistoq/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlertaEstoque = "jobs:alerta_estoque"

	// MaxTentativas is how many times a job runs before it lands in the DLQ.
	MaxTentativas = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
}

// JobHandler processes one decoded payload. A returned error schedules a
// retry.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// WorkerHandlers maps each queue to its handler.
type WorkerHandlers struct {
	AlertaEstoque JobHandler
}

func (h *WorkerHandlers) paraFila(queue string) JobHandler {
	if h == nil {
		return nil
	}
	switch queue {
	case QueueAlertaEstoque:
		return h.AlertaEstoque
	}
	return nil
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAlertaEstoque pushes a low-stock email job to Redis.
func (d *Dispatcher) EnqueueAlertaEstoque(ctx context.Context, job dto.AlertaEstoqueJob) error {
	return d.enqueue(ctx, QueueAlertaEstoque, "alerta_estoque", job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	if d == nil || d.rdb == nil {
		return fmt.Errorf("worker: redis disabled, dropping %s job", jobType)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming every queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	if rdb == nil {
		log.Warn().Msg("worker pool disabled: redis not configured")
		return
	}
	for i := range numWorkers {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueAlertaEstoque}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// desfecho is what happens to a job after a handler run.
type desfecho int

const (
	concluido desfecho = iota
	reenfileirar
	descartar
)

// decidir maps a handler result and the attempts already made (including
// this one) to the job's next step.
func decidir(err error, tentativas int) desfecho {
	switch {
	case err == nil:
		return concluido
	case tentativas < MaxTentativas:
		return reenfileirar
	default:
		return descartar
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "desconhecido", json.RawMessage(raw), "invalid envelope: "+err.Error(), 0)
		return
	}

	h := handlers.paraFila(queue)
	if h == nil {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler registered for queue")
		return
	}

	job.Tentativas++
	err := h.Process(ctx, job.Payload)
	switch decidir(err, job.Tentativas) {
	case concluido:
		log.Debug().Str("type", job.Type).Int("tentativas", job.Tentativas).Msg("job done")
	case reenfileirar:
		log.Warn().Err(err).Str("type", job.Type).Int("tentativas", job.Tentativas).Msg("job failed, re-enqueueing")
		if perr := push(ctx, rdb, queue, job); perr != nil {
			log.Error().Err(perr).Str("queue", queue).Msg("failed to re-enqueue job")
		}
	case descartar:
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload,
			fmt.Sprintf("max attempts (%d) exceeded: %v", MaxTentativas, err), job.Tentativas)
	}
}

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// Options parámetros del worker de push.
type Options struct {
	Interval    time.Duration // intervalo base entre ciclos
	MaxInterval time.Duration // tope del backoff exponencial
	PushTimeout time.Duration // timeout por intento contra el remoto
	BatchSize   int           // máximo de registros por ciclo
}

func (o *Options) defaults() {
	if o.Interval <= 0 {
		o.Interval = 15 * time.Second
	}
	if o.MaxInterval < o.Interval {
		o.MaxInterval = 5 * time.Minute
	}
	if o.PushTimeout <= 0 {
		o.PushTimeout = 10 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
}

// Pusher drena los registros locales marcados pending_sync hacia el espejo
// remoto. Entrega at-least-once: un push repetido del mismo estado es inocuo
// porque el remoto hace upsert. Los fallos se reintentan con backoff
// exponencial y nunca se propagan al llamador de la transición original.
type Pusher struct {
	local  repository.QuoteLocalRepository
	remote repository.QuoteRemoteRepository
	log    *logger.Logger
	opts   Options
	kick   chan struct{}
}

// NewPusher construye el worker.
func NewPusher(local repository.QuoteLocalRepository, remote repository.QuoteRemoteRepository, log *logger.Logger, opts Options) *Pusher {
	opts.defaults()
	return &Pusher{
		local:  local,
		remote: remote,
		log:    log,
		opts:   opts,
		kick:   make(chan struct{}, 1),
	}
}

// Schedule despierta al worker sin bloquear. Implementa quotes.SyncScheduler.
func (p *Pusher) Schedule(string) {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Run ejecuta el ciclo de push hasta que el contexto se cancele. Pensado para
// correr en su propia goroutine.
func (p *Pusher) Run(ctx context.Context) {
	wait := p.opts.Interval
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.kick:
		case <-timer.C:
		}

		pushed, failed := p.Flush(ctx)
		if failed > 0 {
			// Backoff exponencial mientras el remoto siga fallando.
			wait *= 2
			if wait > p.opts.MaxInterval {
				wait = p.opts.MaxInterval
			}
		} else {
			wait = p.opts.Interval
		}
		if pushed > 0 || failed > 0 {
			p.log.Debug().Int("pushed", pushed).Int("failed", failed).Dur("next", wait).Msg("ciclo de sincronización")
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)
	}
}

// Flush empuja un lote de pendientes de forma síncrona y devuelve cuántos
// registros se sincronizaron y cuántos fallaron. Lo usa el worker en cada
// ciclo y la CLI de diagnóstico bajo demanda.
func (p *Pusher) Flush(ctx context.Context) (pushed, failed int) {
	pendientes, err := p.local.ListPendingSync(ctx, p.opts.BatchSize)
	if err != nil {
		p.log.Error().Err(err).Msg("listar pendientes de sincronización")
		return 0, 0
	}
	for _, q := range pendientes {
		if err := p.pushOne(ctx, q.ID); err != nil {
			failed++
			p.log.Warn().Err(err).Str("quote_id", q.ID).Msg("push remoto fallido, se reintentará")
			continue
		}
		pushed++
	}
	return pushed, failed
}

// pushOne empuja un registro con timeout propio. Un timeout de red se
// convierte en ErrSyncFailure reintentable, nunca en un fallo de transición.
func (p *Pusher) pushOne(ctx context.Context, id string) error {
	q, err := p.local.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return nil // borrada entre el listado y el push
	}

	pushCtx, cancel := context.WithTimeout(ctx, p.opts.PushTimeout)
	defer cancel()

	if err := p.remote.Upsert(pushCtx, q); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSyncFailure, err)
	}
	return p.local.MarkSynced(ctx, q.ID, time.Now())
}

// Package sync mantiene convergentes el almacén local y el espejo remoto:
// un worker empuja las escrituras locales pendientes (at-least-once, con
// backoff) y el reconciliador produce un informe estructurado de divergencias.
package sync

import (
	"context"
	"sort"
	"time"

	"github.com/tu-usuario/cotizador-pro/internal/application/dto"
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
	"github.com/tu-usuario/cotizador-pro/internal/domain/repository"
	"github.com/tu-usuario/cotizador-pro/pkg/logger"
)

// Reconciler compara el almacén local contra el espejo remoto.
type Reconciler struct {
	local  repository.QuoteLocalRepository
	remote repository.QuoteRemoteRepository
	log    *logger.Logger
}

// NewReconciler construye el reconciliador.
func NewReconciler(local repository.QuoteLocalRepository, remote repository.QuoteRemoteRepository, log *logger.Logger) *Reconciler {
	return &Reconciler{local: local, remote: remote, log: log}
}

// Reconcile compara conteos y estado por id entre ambos almacenes y devuelve
// el informe de discrepancias. Es de solo lectura e idempotente: dos corridas
// consecutivas sin escrituras intermedias producen el mismo informe.
func (r *Reconciler) Reconcile(ctx context.Context) (*dto.DiscrepancyReport, error) {
	locales, err := r.local.List(ctx)
	if err != nil {
		return nil, err
	}
	remotas, err := r.remote.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.DiscrepancyReport{
		LocalCount:  len(locales),
		RemoteCount: len(remotas),
		GeneratedAt: time.Now(),
	}

	localByID := make(map[string]*entity.Quote, len(locales))
	for _, q := range locales {
		localByID[q.ID] = q
		if !q.Status.IsCanonical() {
			report.SinEstado = append(report.SinEstado, q.ID)
		}
	}
	remoteByID := make(map[string]*entity.Quote, len(remotas))
	for _, q := range remotas {
		remoteByID[q.ID] = q
	}

	for id, lq := range localByID {
		rq, ok := remoteByID[id]
		if !ok {
			report.MissingInRemote = append(report.MissingInRemote, id)
			continue
		}
		if lq.Status != rq.Status {
			report.StatusMismatches = append(report.StatusMismatches, dto.StatusMismatch{
				ID:           id,
				LocalStatus:  string(lq.Status),
				RemoteStatus: string(rq.Status),
			})
		}
	}
	for id := range remoteByID {
		if _, ok := localByID[id]; !ok {
			report.MissingInLocal = append(report.MissingInLocal, id)
		}
	}

	// Orden estable para que el informe sea comparable entre corridas.
	sort.Strings(report.MissingInRemote)
	sort.Strings(report.MissingInLocal)
	sort.Strings(report.SinEstado)
	sort.Slice(report.StatusMismatches, func(i, j int) bool {
		return report.StatusMismatches[i].ID < report.StatusMismatches[j].ID
	})

	if !report.Clean() {
		r.log.Warn().
			Int("local", report.LocalCount).
			Int("remote", report.RemoteCount).
			Int("mismatches", len(report.StatusMismatches)).
			Msg("divergencia detectada entre almacén local y remoto")
	}
	return report, nil
}

// PullRemote importa al almacén local los registros remotos ausentes. El
// estado crudo remoto se normaliza en la frontera; las cotizaciones traídas
// del remoto no quedan marcadas pendientes de push.
func (r *Reconciler) PullRemote(ctx context.Context) (int, error) {
	remotas, err := r.remote.List(ctx)
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, rq := range remotas {
		lq, err := r.local.GetByID(ctx, rq.ID)
		if err != nil {
			return imported, err
		}
		if lq != nil {
			continue
		}
		rq.Status = entity.NormalizeStatus(string(rq.Status))
		rq.PendingSync = false
		if err := r.local.Create(ctx, rq); err != nil {
			return imported, err
		}
		imported++
	}
	if imported > 0 {
		r.log.Info().Int("imported", imported).Msg("registros remotos importados al almacén local")
	}
	return imported, nil
}

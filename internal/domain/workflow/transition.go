// Package workflow define el grafo de transiciones del flujo de aprobación de
// cotizaciones y el permiso que exige cada arista. Es lógica de dominio pura:
// la validación de permisos concretos y la persistencia ocurren en la capa de
// aplicación.
package workflow

import (
	"github.com/tu-usuario/cotizador-pro/internal/domain/entity"
)

// Edge es una arista (estado origen → estado destino) del grafo.
type Edge struct {
	From entity.Status
	To   entity.Status
}

// allowed mapea cada arista permitida al permiso que exige su ejecución.
//
//	draft     → pending_approval  (vendedor envía; requiere filas y total > 0)
//	pending   → approved          (revisor con permiso de aprobar)
//	pending   → rejected          (revisor; debe llevar motivo)
//	pending   → revision          (revisor devuelve para cambios)
//	revision  → pending_approval  (vendedor reenvía)
//
// approved y rechazada son terminales para el ciclo: un nuevo ciclo de
// revisión arranca en draft con una cotización nueva.
var allowed = map[Edge]string{
	{entity.StatusBorrador, entity.StatusPendiente}:  entity.PermCrearCotizacion,
	{entity.StatusPendiente, entity.StatusAprobada}:  entity.PermAprobar,
	{entity.StatusPendiente, entity.StatusRechazada}: entity.PermAprobar,
	{entity.StatusPendiente, entity.StatusRevision}:  entity.PermAprobar,
	{entity.StatusRevision, entity.StatusPendiente}:  entity.PermCrearCotizacion,
}

// CanTransition reporta si (from → to) es una arista del grafo.
func CanTransition(from, to entity.Status) bool {
	_, ok := allowed[Edge{From: from, To: to}]
	return ok
}

// RequiredPermission devuelve el permiso que exige la arista (from → to).
// El segundo resultado es false si la arista no existe.
func RequiredPermission(from, to entity.Status) (string, bool) {
	perm, ok := allowed[Edge{From: from, To: to}]
	return perm, ok
}

// Edges devuelve una copia de todas las aristas permitidas.
func Edges() []Edge {
	out := make([]Edge, 0, len(allowed))
	for e := range allowed {
		out = append(out, e)
	}
	return out
}

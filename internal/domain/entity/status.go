package entity

import "strings"

// Status es el estado canónico de una cotización dentro del flujo de
// aprobación. Los literales coinciden con los valores históricos almacenados
// por el sistema original, salvo los sinónimos de "pendiente" que se colapsan
// en StatusPendiente al normalizar.
type Status string

const (
	StatusBorrador  Status = "draft"            // en construcción por el vendedor
	StatusPendiente Status = "pending_approval" // enviada, esperando revisión
	StatusAprobada  Status = "approved"         // terminal para este ciclo
	StatusRechazada Status = "rejected"         // terminal para este ciclo
	StatusRevision  Status = "revision"         // devuelta al vendedor para cambios

	// StatusSinEstado clasifica registros con estado vacío o desconocido.
	// Es una categoría de diagnóstico: nunca un estado de negocio válido.
	StatusSinEstado Status = "sin_estado"
)

// sinónimos históricos acumulados en los datos: todos significan "pendiente".
var pendingSynonyms = map[string]struct{}{
	"pending":           {},
	"pending_approval":  {},
	"sent_for_approval": {},
}

// NormalizeStatus convierte un estado crudo (tal como viene del almacén local,
// del espejo remoto o de un request) en el enum canónico. Se aplica una sola
// vez en cada frontera de ingestión; el núcleo nunca vuelve a ramificar sobre
// strings crudos.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := pendingSynonyms[s]; ok {
		return StatusPendiente
	}
	switch Status(s) {
	case StatusBorrador, StatusAprobada, StatusRechazada, StatusRevision:
		return Status(s)
	}
	return StatusSinEstado
}

// IsCanonical reporta si s es un estado de negocio válido (excluye sin_estado).
func (s Status) IsCanonical() bool {
	switch s {
	case StatusBorrador, StatusPendiente, StatusAprobada, StatusRechazada, StatusRevision:
		return true
	}
	return false
}

// IsTerminal reporta si s cierra el ciclo de revisión actual.
func (s Status) IsTerminal() bool {
	return s == StatusAprobada || s == StatusRechazada
}

package workflow

import "github.com/tu-usuario/cotizador-pro/internal/domain/entity"

// Filtro es el criterio de listado de cotizaciones usado por los revisores.
type Filtro string

const (
	FiltroTodas      Filtro = "todas"
	FiltroPendientes Filtro = "pendientes"
	FiltroAprobadas  Filtro = "aprobadas"
	FiltroRechazadas Filtro = "rechazadas"
	FiltroRevision   Filtro = "revision"
)

// filterStatuses mapea cada filtro al conjunto de estados canónicos que
// acepta. El filtro de pendientes cubre toda la clase semántica "pendiente":
// los sinónimos legados ya fueron colapsados por NormalizeStatus en la
// frontera, así que aquí un solo estado canónico basta.
var filterStatuses = map[Filtro][]entity.Status{
	FiltroPendientes: {entity.StatusPendiente},
	FiltroAprobadas:  {entity.StatusAprobada},
	FiltroRechazadas: {entity.StatusRechazada},
	FiltroRevision:   {entity.StatusRevision},
}

// ParseFiltro valida un filtro crudo. Vacío equivale a FiltroTodas.
func ParseFiltro(raw string) (Filtro, bool) {
	if raw == "" {
		return FiltroTodas, true
	}
	f := Filtro(raw)
	if f == FiltroTodas {
		return f, true
	}
	_, ok := filterStatuses[f]
	return f, ok
}

// Statuses devuelve los estados que acepta el filtro; nil significa todos.
func (f Filtro) Statuses() []entity.Status {
	if f == FiltroTodas {
		return nil
	}
	sts := filterStatuses[f]
	out := make([]entity.Status, len(sts))
	copy(out, sts)
	return out
}

// Matches reporta si un estado canónico pertenece al filtro.
func (f Filtro) Matches(s entity.Status) bool {
	if f == FiltroTodas {
		return true
	}
	for _, st := range filterStatuses[f] {
		if st == s {
			return true
		}
	}
	return false
}

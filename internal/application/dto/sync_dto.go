package dto

import "time"

// StatusMismatch un id presente en ambos almacenes con estados distintos.
type StatusMismatch struct {
	ID           string `json:"id"`
	LocalStatus  string `json:"local_status"`
	RemoteStatus string `json:"remote_status"`
}

// DiscrepancyReport es el informe estructurado de la reconciliación entre el
// almacén local y el espejo remoto. Un informe vacío (Clean == true) significa
// que ambos convergen en el mismo mapeo id → estado.
type DiscrepancyReport struct {
	LocalCount       int              `json:"local_count"`
	RemoteCount      int              `json:"remote_count"`
	MissingInRemote  []string         `json:"missing_in_remote,omitempty"`
	MissingInLocal   []string         `json:"missing_in_local,omitempty"`
	StatusMismatches []StatusMismatch `json:"status_mismatches,omitempty"`
	// SinEstado lista ids cuyo estado crudo no mapea a ningún estado canónico.
	SinEstado   []string  `json:"sin_estado,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Clean reporta si no hay discrepancias.
func (r DiscrepancyReport) Clean() bool {
	return len(r.MissingInRemote) == 0 &&
		len(r.MissingInLocal) == 0 &&
		len(r.StatusMismatches) == 0
}

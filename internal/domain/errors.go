package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrTransicionInvalida indica que el cambio de estado solicitado no es
	// una arista permitida del flujo de aprobación.
	ErrTransicionInvalida = errors.New("transición de estado inválida")

	// ErrConflict indica que otra transición sobre la misma cotización está
	// en curso; el llamador no debe reintentar a ciegas.
	ErrConflict = errors.New("conflicto con una transición concurrente")

	// ErrSyncFailure indica un fallo al empujar o leer del espejo remoto.
	// Es reintentable: nunca invalida la escritura local ya aplicada.
	ErrSyncFailure = errors.New("fallo de sincronización remota")

	// ErrValidacion indica que la cotización no cumple los requisitos para
	// la operación (ej. enviar a aprobación sin filas o con total cero).
	ErrValidacion = errors.New("validación fallida")

	// ErrCodigoRequerido indica que el registro se invocó sin un código de
	// empresa válido para la sesión.
	ErrCodigoRequerido = errors.New("código de empresa requerido")
)

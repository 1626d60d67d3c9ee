package auth

import (
	"errors"

	"github.com/tu-usuario/cotizador-pro/internal/domain"
)

// Códigos estables de error de autenticación. Son el contrato hacia la capa
// de presentación: ningún error interno crudo llega al usuario final.
const (
	CodeWrongCredentials = "WRONG_CREDENTIALS"
	CodeAccountDisabled  = "ACCOUNT_DISABLED"
	CodeEmailInUse       = "EMAIL_IN_USE"
	CodeWeakPassword     = "WEAK_PASSWORD"
	CodeTooManyAttempts  = "TOO_MANY_ATTEMPTS"
	CodeNetworkFailure   = "NETWORK_FAILURE"
	CodeCompanyCode      = "COMPANY_CODE_REQUIRED"
	CodeUnknown          = "UNKNOWN"
)

// userMessages mapea cada código a su mensaje para el usuario. El mapeo es
// total: todo código no listado cae en el mensaje por defecto de CodeUnknown.
var userMessages = map[string]string{
	CodeWrongCredentials: "Email o contraseña incorrectos",
	CodeAccountDisabled:  "La cuenta está deshabilitada, contacte al administrador",
	CodeEmailInUse:       "El email ya está registrado",
	CodeWeakPassword:     "La contraseña debe tener al menos 8 caracteres",
	CodeTooManyAttempts:  "Demasiados intentos, espere unos minutos",
	CodeNetworkFailure:   "Error de conexión, verifique su red e intente de nuevo",
	CodeCompanyCode:      "Debe ingresar un código de empresa válido para registrarse",
	CodeUnknown:          "Ocurrió un error inesperado, intente de nuevo",
}

// UserMessage devuelve el mensaje para el usuario asociado al código. Nunca
// retorna vacío.
func UserMessage(code string) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return userMessages[CodeUnknown]
}

// ClassifyError traduce un error de dominio a su código estable. Es el único
// punto donde los errores de auth se convierten en mensajes de usuario.
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		// No se distingue "usuario inexistente" de "contraseña incorrecta"
		// para no filtrar qué emails tienen cuenta.
		return CodeWrongCredentials
	case errors.Is(err, domain.ErrForbidden):
		return CodeAccountDisabled
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return CodeEmailInUse
	case errors.Is(err, domain.ErrCodigoRequerido):
		return CodeCompanyCode
	case errors.Is(err, domain.ErrSyncFailure):
		return CodeNetworkFailure
	default:
		return CodeUnknown
	}
}

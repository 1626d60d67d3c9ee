package memory

import "errors"

// errRemoteDown simula la indisponibilidad del espejo remoto.
var errRemoteDown = errors.New("espejo remoto no disponible")

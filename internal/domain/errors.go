package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrValidation    = errors.New("parámetros inválidos")
	ErrDelivery      = errors.New("fallo en el envío de la notificación")
	ErrPersistence   = errors.New("fallo de persistencia")
	ErrRunInProgress = errors.New("ya hay una generación en curso para esa fecha")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
)

// Package sqlite implementa el almacén local durable sobre SQLite: el
// dispositivo funciona sin red y el espejo remoto se alcanza después.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // driver SQLite

	"github.com/tu-usuario/cotizador-pro/internal/infrastructure/sqlite/migrations"
)

// Open abre y configura la base local. path puede ser un archivo o
// ":memory:" para tests. Aplica las migraciones embebidas antes de devolver.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("abrir base local: %w", err)
	}

	// SQLite trae foreign keys apagadas por compatibilidad.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("habilitar foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configurar busy_timeout: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

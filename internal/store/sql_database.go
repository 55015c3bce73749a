package store

import (
	"github.com/MKhiriev/fin-keeper/migrations"
)

// Migrate applies pending server-side schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// MigrateClient applies pending client cache schema migrations.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

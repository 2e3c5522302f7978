package migrations

import (
	"embed"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// FS holds the versioned NNNN_name.{up,down}.sql files applied by cmd/migrate.
//
//go:embed *.sql
var FS embed.FS

func Source() (source.Driver, error) {
	return iofs.New(FS, ".")
}

//go:build tools

package tools

// This file tracks tool dependencies for reproducible builds.
// The goose CLI runs the same migrations the server embeds:
//
//	goose -dir internal/adapters/postgres/migrations postgres "$DATABASE_URL" status
import (
	_ "github.com/pressly/goose/v3/cmd/goose"
)

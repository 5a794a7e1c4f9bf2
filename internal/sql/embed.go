package sql

import "embed"

// Migrations holds the idempotent DDL applied before every export.
//
//go:embed migrations
var Migrations embed.FS

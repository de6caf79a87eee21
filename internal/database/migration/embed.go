package migration

import "embed"

//go:embed sql/V*.sql
var Files embed.FS

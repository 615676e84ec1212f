// Package all wires every built-in storage backend into the factory by
// importing each backend package for its init-time registration. Callers
// that want a subset can import the backend packages directly instead.
package all

import (
	_ "github.com/PBPF11/vacathon/internal/storage/mssql"
	_ "github.com/PBPF11/vacathon/internal/storage/mysql"
	_ "github.com/PBPF11/vacathon/internal/storage/postgres"
	_ "github.com/PBPF11/vacathon/internal/storage/sqlite"
)

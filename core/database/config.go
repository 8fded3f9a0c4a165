package database

import "github.com/m3rciful/shopbot/core/database/dbconfig"

// Config holds database connection settings. It aliases dbconfig.Config so
// that core/config can use the same type without importing this package.
type Config = dbconfig.Config

// Package database opens the store named by a connection URL.
package database

import (
	"context"
	"fmt"
	"strings"

	"driver-scheduler/internal/store"
	"driver-scheduler/internal/store/mongostore"
	"driver-scheduler/internal/store/pgstore"
	"driver-scheduler/internal/store/sqlitestore"
)

// Driver reports which store backs url.
func Driver(url string) string {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

// Open connects to url. dbName only applies to MongoDB. Anything that is
// not a mongo or postgres URL is taken as a SQLite path, with or without
// a sqlite:// prefix.
func Open(ctx context.Context, url, dbName string) (store.Store, error) {
	if url == "" {
		return nil, fmt.Errorf("empty database url")
	}
	switch Driver(url) {
	case "mongo":
		return mongostore.Open(ctx, url, dbName)
	case "postgres":
		return pgstore.Open(ctx, url)
	}
	return sqlitestore.Open(ctx, strings.TrimPrefix(url, "sqlite://"))
}

package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDriver(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"mongodb://localhost:27017", "mongo"},
		{"mongodb+srv://cluster0.example.net", "mongo"},
		{"postgres://u:p@localhost/db", "postgres"},
		{"postgresql://localhost/db", "postgres"},
		{"sqlite:///var/lib/scheduler.db", "sqlite"},
		{"scheduler.db", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Driver(tt.url); got != tt.want {
				t.Errorf("Driver(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "s.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close(ctx)
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	if _, err := Open(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}

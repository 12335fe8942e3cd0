package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOptions_WithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Options
		want Options
	}{
		{
			name: "Zero values",
			in:   Options{DSN: "postgres://x"},
			want: Options{DSN: "postgres://x", MaxOpenConns: 25, MaxIdleConns: 5, ConnLifetime: 5 * time.Minute},
		},
		{
			name: "Explicit values kept",
			in:   Options{MaxOpenConns: 10, MaxIdleConns: 2, ConnLifetime: time.Minute, SkipMigrate: true},
			want: Options{MaxOpenConns: 10, MaxIdleConns: 2, ConnLifetime: time.Minute, SkipMigrate: true},
		},
		{
			name: "Idle capped at open",
			in:   Options{MaxOpenConns: 3, MaxIdleConns: 8},
			want: Options{MaxOpenConns: 3, MaxIdleConns: 3, ConnLifetime: 5 * time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.withDefaults())
		})
	}
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_Ordered(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "versions are contiguous from 1")
		assert.NotEmpty(t, m.Description)
		assert.NotEmpty(t, m.Statements)
	}

	assert.Equal(t, len(migrations), LatestVersion())
}

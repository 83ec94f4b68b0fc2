package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("PEPPER", "")
	t.Setenv("DATABASE_URL", "")

	c := LoadConfig()
	assert.Equal(t, 8080, c.Port)
	assert.False(t, c.IsProd())
	assert.NotEmpty(t, c.DatabaseURL)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "prod")
	t.Setenv("PEPPER", "extra-spicy")
	t.Setenv("DATABASE_URL", "host=db port=5432 user=app dbname=thoughts")

	c := LoadConfig()
	assert.Equal(t, 9000, c.Port)
	assert.True(t, c.IsProd())
	assert.Equal(t, "extra-spicy", c.Pepper)
	assert.Equal(t, "host=db port=5432 user=app dbname=thoughts", c.DatabaseURL)
}

func TestLoadConfigIgnoresMalformedPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	c := LoadConfig()
	assert.Equal(t, 8080, c.Port)
}

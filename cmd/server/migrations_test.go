package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsRejectsUnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	err := runMigrations(context.Background(), nil, "redo", log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "redo"`)
	assert.Empty(t, buf.String(), "nothing should run for an unknown command")
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("OK   %s (%s)\n", "00001_init.sql", "12ms")
	l.Fatalf("failed to apply %d migrations", 2)

	dec := json.NewDecoder(&buf)

	var first map[string]interface{}
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "INFO", first["level"])
	assert.Equal(t, "OK   00001_init.sql (12ms)", first["msg"])

	var second map[string]interface{}
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "failed to apply 2 migrations", second["msg"])
}

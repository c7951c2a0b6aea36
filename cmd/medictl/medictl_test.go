package main

import (
	"bytes"
	"strings"
	"testing"

	"medistore/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	role, err := parseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)

	_, err = parseRole("superuser")
	require.Error(t, err)
}

func TestSchemaGuardsStock(t *testing.T) {
	assert.Contains(t, schemaSQL, "CHECK (stock >= 0)")
	assert.Contains(t, schemaSQL, "CHECK (rating BETWEEN 1 AND 5)")
	assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS order_items"))
}

func TestCommandsRequireDSN(t *testing.T) {
	t.Setenv(dsnEnv, "")

	for _, args := range [][]string{
		{"migrate"},
		{"set-role", "--email", "admin@example.com"},
	} {
		cmd := newRootCommand()
		cmd.SetArgs(args)
		cmd.SetOut(&bytes.Buffer{})

		err := cmd.Execute()
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "DSN is required")
	}
}

func TestSetRoleRejectsUnknownRole(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"set-role", "--dsn", "postgres://unused", "--email", "a@example.com", "--role", "root"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

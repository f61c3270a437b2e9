package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"algoridigm/internal/db"
	"algoridigm/internal/models"
	"algoridigm/internal/services"
)

func TestGetTLSVersion(t *testing.T) {
	assert.Equal(t, uint16(tls.VersionTLS13), getTLSVersion("1.3"))
	assert.Equal(t, uint16(tls.VersionTLS10), getTLSVersion("1.0"))
	assert.Equal(t, uint16(tls.VersionTLS12), getTLSVersion("bogus"))
}

func runList(t *testing.T) string {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	require.NoError(t, listRegistrations(cmd, nil))
	return out.String()
}

func TestListRegistrations(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "site.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  path: "+dbPath+"\n"), 0644))
	t.Setenv("DB_PATH", "")

	configFile = cfgPath
	t.Cleanup(func() { configFile = "" })

	assert.Contains(t, runList(t), "no registrations found")

	database, err := db.Open(dbPath)
	require.NoError(t, err)
	_, err = services.NewRegistrationService(database, zap.NewNop()).CreateRegistration(context.Background(),
		models.RegistrationInput{Name: "Ada", Email: "ada@example.com", Role: "actor"})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	out := runList(t)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "ada@example.com")
}

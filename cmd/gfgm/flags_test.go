package main

import (
	"bytes"
	"flag"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
)

// clearEnv blanks every variable the client reads for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{envServerURL, envStorePath, envVaultPassword, envAuthMode, envLogLevel} {
		t.Setenv(name, "")
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		check   func(t *testing.T, cfg *config)
		wantErr string
	}{
		{
			name: "Defaults",
			check: func(t *testing.T, cfg *config) {
				assert.Equal(t, defaultServerURL, cfg.ServerURL)
				assert.Equal(t, defaultStorePath, cfg.StorePath)
				assert.Equal(t, api.AuthBearer, cfg.AuthMode)
				assert.Equal(t, defaultTimeout, cfg.Timeout)
				assert.Equal(t, defaultLogLevel, cfg.LogLevel)
				assert.False(t, cfg.Debug)
				assert.False(t, cfg.usesVault())
			},
		},
		{
			name: "AllFromFlags",
			args: []string{
				"-server-url=https://gfgm.example.com/", "-store=s.kdbx", "-vault-password=pw",
				"-auth=basic", "-timeout=3s", "-log-level=debug", "-debug",
			},
			check: func(t *testing.T, cfg *config) {
				assert.Equal(t, "https://gfgm.example.com", cfg.ServerURL, "trailing slash trimmed")
				assert.Equal(t, "s.kdbx", cfg.StorePath)
				assert.Equal(t, "pw", cfg.VaultPassword)
				assert.Equal(t, api.AuthBasic, cfg.AuthMode)
				assert.Equal(t, 3*time.Second, cfg.Timeout)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.True(t, cfg.Debug)
				assert.True(t, cfg.usesVault())
			},
		},
		{
			name: "AllFromEnv",
			env: map[string]string{
				envServerURL:     "http://backend:9000",
				envStorePath:     "env.kdbx",
				envVaultPassword: "envpw",
				envAuthMode:      "basic",
				envLogLevel:      "warn",
			},
			check: func(t *testing.T, cfg *config) {
				assert.Equal(t, "http://backend:9000", cfg.ServerURL)
				assert.Equal(t, "env.kdbx", cfg.StorePath)
				assert.Equal(t, "envpw", cfg.VaultPassword)
				assert.Equal(t, api.AuthBasic, cfg.AuthMode)
				assert.Equal(t, "warn", cfg.LogLevel)
			},
		},
		{
			name: "FlagsOverrideEnv",
			args: []string{"-server-url=http://flag:1", "-auth=token"},
			env:  map[string]string{envServerURL: "http://env:2", envAuthMode: "basic"},
			check: func(t *testing.T, cfg *config) {
				assert.Equal(t, "http://flag:1", cfg.ServerURL)
				assert.Equal(t, api.AuthBearer, cfg.AuthMode)
			},
		},
		{
			name:    "BadURL",
			args:    []string{"-server-url=localhost:8080"},
			wantErr: "invalid server URL",
		},
		{
			name:    "BadAuthMode",
			env:     map[string]string{envAuthMode: "oauth"},
			wantErr: "unknown auth mode",
		},
		{
			name:    "NonPositiveTimeout",
			args:    []string{"-timeout=0s"},
			wantErr: "timeout must be positive",
		},
		{
			name:    "VaultWithoutPassword",
			args:    []string{"-store=session.KDBX"},
			wantErr: errVaultPasswordRequired.Error(),
		},
		{
			name: "EmptyStoreKeepsSessionInMemory",
			args: []string{"-store="},
			check: func(t *testing.T, cfg *config) {
				assert.Empty(t, cfg.StorePath)
				assert.False(t, cfg.usesVault())
			},
		},
		{
			name:    "VaultPasswordWithoutStore",
			args:    []string{"-store=", "-vault-password=pw"},
			wantErr: "needs a -store path",
		},
		{
			name:    "UnknownFlag",
			args:    []string{"-nope"},
			wantErr: "flag provided but not defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := parseFlags(tt.args, io.Discard)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer

	_, err := parseFlags([]string{"-h"}, &out)

	require.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "-server-url")
	assert.Contains(t, out.String(), envServerURL)
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	fileStore, err := newStore(&config{StorePath: filepath.Join(dir, "session.json")})
	require.NoError(t, err)
	assert.IsType(t, &credstore.File{}, fileStore)

	memory, err := newStore(&config{})
	require.NoError(t, err)
	assert.IsType(t, &credstore.Memory{}, memory)

	vault, err := newStore(&config{StorePath: filepath.Join(dir, "session.kdbx"), VaultPassword: "pw"})
	require.NoError(t, err)
	assert.IsType(t, &credstore.Vault{}, vault)

	require.NoError(t, vault.Set(&credstore.Record{ServerURL: "http://x", Token: "t"}))
	rec, err := vault.Get()
	require.NoError(t, err)
	assert.Equal(t, "t", rec.Token)
}

func TestRealMain_Version(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := realMain([]string{"-version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Version: dev")
	assert.Contains(t, stdout.String(), "Commit Hash: N/A")
	assert.Empty(t, stderr.String())
}

func TestRealMain_BadFlags(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer

	code := realMain([]string{"-timeout=-1s"}, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "timeout must be positive")
}

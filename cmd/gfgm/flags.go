package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/credstore"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/logging"
)

const (
	defaultServerURL = "http://localhost:8080"
	defaultStorePath = "gfgm-session.json"
	defaultTimeout   = 15 * time.Second
	defaultLogLevel  = "info"

	envServerURL     = "GFGM_SERVER_URL"
	envStorePath     = "GFGM_STORE_PATH"
	envVaultPassword = "GFGM_VAULT_PASSWORD" //nolint:gosec // variable name, not a secret
	envAuthMode      = "GFGM_AUTH_MODE"
	envLogLevel      = "GFGM_LOG_LEVEL"

	vaultExt = ".kdbx"
)

var errVaultPasswordRequired = errors.New("a .kdbx store needs -vault-password or " + envVaultPassword)

// config is the client configuration after flags and environment.
type config struct {
	ServerURL     string
	StorePath     string
	VaultPassword string
	AuthMode      api.AuthMode
	Timeout       time.Duration
	LogLevel      string
	LogFile       string
	Debug         bool
	ShowVersion   bool
}

// parseFlags reads args and the environment. A flag given on the command
// line wins over its variable, which wins over the default.
func parseFlags(args []string, output io.Writer) (*config, error) {
	cfg := &config{}
	var authMode string

	fs := flag.NewFlagSet("gfgm", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.ServerURL, "server-url", defaultServerURL,
		fmt.Sprintf("GFGM backend origin (env: %s)", envServerURL))
	fs.StringVar(&cfg.StorePath, "store", defaultStorePath,
		fmt.Sprintf("session store file; a %s file is an encrypted vault, empty keeps it in memory (env: %s)",
			vaultExt, envStorePath))
	fs.StringVar(&cfg.VaultPassword, "vault-password", "",
		fmt.Sprintf("password of the %s store (env: %s)", vaultExt, envVaultPassword))
	fs.StringVar(&authMode, "auth", string(api.AuthBearer),
		fmt.Sprintf("credential strategy: token or basic (env: %s)", envAuthMode))
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "per-request timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel,
		fmt.Sprintf("debug, info, warn or error (env: %s)", envLogLevel))
	fs.StringVar(&cfg.LogFile, "log-file", logging.DefaultPath, "log file path")
	fs.BoolVar(&cfg.Debug, "debug", false, "show the TUI debug footer")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and build info")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	fromEnv := func(name, env string, dst *string) {
		if explicit[name] {
			return
		}
		if value, ok := os.LookupEnv(env); ok && value != "" {
			*dst = value
		}
	}
	fromEnv("server-url", envServerURL, &cfg.ServerURL)
	fromEnv("store", envStorePath, &cfg.StorePath)
	fromEnv("vault-password", envVaultPassword, &cfg.VaultPassword)
	fromEnv("auth", envAuthMode, &authMode)
	fromEnv("log-level", envLogLevel, &cfg.LogLevel)

	mode, err := api.ParseAuthMode(authMode)
	if err != nil {
		return nil, err
	}
	cfg.AuthMode = mode

	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q: want http(s)://host[:port]", c.ServerURL)
	}
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if c.StorePath == "" && c.VaultPassword != "" {
		return errors.New("a vault password needs a -store path")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.usesVault() && c.VaultPassword == "" {
		return errVaultPasswordRequired
	}
	return nil
}

// usesVault reports whether the session goes into an encrypted KDBX file.
func (c *config) usesVault() bool {
	return c.VaultPassword != "" || strings.EqualFold(filepath.Ext(c.StorePath), vaultExt)
}

// newStore opens the credential store the configuration asks for. An empty
// store path keeps the session in memory only.
func newStore(c *config) (credstore.Store, error) {
	if c.StorePath == "" {
		return credstore.NewMemory(), nil
	}
	if c.usesVault() {
		v, err := credstore.NewVault(c.StorePath, c.VaultPassword)
		if err != nil {
			return nil, fmt.Errorf("open vault %s: %w", c.StorePath, err)
		}
		return v, nil
	}
	return credstore.NewFile(c.StorePath), nil
}

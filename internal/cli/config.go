package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/buildinfo"
	"github.com/matzehuels/dependents/pkg/errors"
	"github.com/matzehuels/dependents/pkg/integrations"
	"github.com/matzehuels/dependents/pkg/integrations/couchdb"
	"github.com/matzehuels/dependents/pkg/integrations/npm"
)

// config holds the connection settings shared by every command that talks
// to the data sources. Values are layered: defaults, then the config file,
// then DEPENDENTS_* environment variables, then flags.
type config struct {
	URL         string   `toml:"url"`
	User        string   `toml:"user"`
	Password    string   `toml:"password"`
	Registry    string   `toml:"registry"`
	Design      string   `toml:"design"`
	Concurrency int64    `toml:"concurrency"`
	Timeout     duration `toml:"timeout"`
}

// duration decodes TOML strings such as "30s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() config {
	return config{
		Registry:    npm.DefaultRegistry,
		Design:      couchdb.DefaultDesign,
		Concurrency: integrations.DefaultConcurrency,
	}
}

// configPath returns the config file location using the XDG standard
// (~/.config/dependents/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads defaults, the config file at path and the environment.
// A missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *config) applyEnv(getenv func(string) string) error {
	for key, dst := range map[string]*string{
		"URL":      &cfg.URL,
		"USER":     &cfg.User,
		"PASSWORD": &cfg.Password,
		"REGISTRY": &cfg.Registry,
	} {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}
	if v := getenv(envPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%sCONCURRENCY must be a positive integer, got %q", envPrefix, v)
		}
		cfg.Concurrency = n
	}
	return nil
}

// connFlags are the connection flags shared by the report and serve commands.
type connFlags struct {
	url         string
	user        string
	password    string
	registry    string
	concurrency int64
	timeout     time.Duration
}

func (f *connFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.url, "url", "U", "", "CouchDB database URL (or "+envPrefix+"URL)")
	flags.StringVarP(&f.user, "user", "u", "", "CouchDB user (or "+envPrefix+"USER)")
	flags.StringVarP(&f.password, "password", "p", "", "CouchDB password (or "+envPrefix+"PASSWORD)")
	flags.StringVar(&f.registry, "registry", "", "npm registry URL (default "+npm.DefaultRegistry+")")
	flags.Int64Var(&f.concurrency, "concurrency", 0, "maximum simultaneous HTTP requests per service")
	flags.DurationVar(&f.timeout, "timeout", 0, "per-request timeout, 0 for none")
}

// resolve layers the flags over the loaded configuration and checks that a
// service URL is available.
func (f *connFlags) resolve() (config, error) {
	path, err := configPath()
	if err != nil {
		path = ""
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	f.apply(&cfg)
	if cfg.URL == "" {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "no dependents service URL configured")
	}
	if cfg.Concurrency <= 0 {
		return cfg, errors.New(errors.ErrCodeInvalidInput, "--concurrency must be positive")
	}
	return cfg, nil
}

func (f *connFlags) apply(cfg *config) {
	if f.url != "" {
		cfg.URL = f.url
	}
	if f.user != "" {
		cfg.User = f.user
	}
	if f.password != "" {
		cfg.Password = f.password
	}
	if f.registry != "" {
		cfg.Registry = f.registry
	}
	if f.concurrency != 0 {
		cfg.Concurrency = f.concurrency
	}
	if f.timeout != 0 {
		cfg.Timeout.Duration = f.timeout
	}
}

// sources holds the data source clients built from a config.
type sources struct {
	registry *npm.Client
	graph    *couchdb.Client
}

// newSources builds one HTTP client per service so credentials are only
// sent to the CouchDB server.
func newSources(cfg config) sources {
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	registryHTTP := integrations.NewClient(integrations.Config{
		Headers:     headers,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout.Duration,
	})
	graphHTTP := integrations.NewClient(integrations.Config{
		Headers:     headers,
		User:        cfg.User,
		Password:    cfg.Password,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout.Duration,
	})
	return sources{
		registry: npm.NewClient(registryHTTP, cfg.Registry),
		graph:    couchdb.NewClient(graphHTTP, cfg.URL, cfg.Design),
	}
}

// configCommand creates the config command group.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "locate config directory")
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration from file and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := configPath()
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			cfg.show(cmd.OutOrStdout())
			return nil
		},
	})
	return cmd
}

func (cfg config) show(w io.Writer) {
	password := ""
	if cfg.Password != "" {
		password = "********"
	}
	timeout := "none"
	if cfg.Timeout.Duration > 0 {
		timeout = cfg.Timeout.String()
	}
	printKeyValue(w, "url", cfg.URL)
	printKeyValue(w, "user", cfg.User)
	printKeyValue(w, "password", password)
	printKeyValue(w, "registry", cfg.Registry)
	printKeyValue(w, "design", cfg.Design)
	printKeyValue(w, "concurrency", strconv.FormatInt(cfg.Concurrency, 10))
	printKeyValue(w, "timeout", timeout)
}

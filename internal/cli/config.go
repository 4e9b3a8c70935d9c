package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tansive/pdbquery/internal/common/httpclient"
	"github.com/tansive/pdbquery/internal/common/logtrace"
	"github.com/tansive/pdbquery/internal/config"
	"github.com/tansive/pdbquery/pkg/puppetdb"
)

// connectionFlags override the connection settings of the config file.
type connectionFlags struct {
	host       string
	port       int
	apiVersion string
	caCert     string
	cert       string
	key        string
	timeout    time.Duration
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.host, "host", "H", "", "PuppetDB hostname")
	pf.IntVarP(&f.port, "port", "p", 0, "PuppetDB port (default 8080, or 8081 with TLS)")
	pf.StringVarP(&f.apiVersion, "api-version", "", "", "PuppetDB API version (v2, v3, v4)")
	pf.StringVarP(&f.caCert, "ca-cert", "", "", "CA certificate file, enables TLS")
	pf.StringVarP(&f.cert, "cert", "", "", "Client certificate file, enables TLS")
	pf.StringVarP(&f.key, "key", "", "", "Client private key file, enables TLS")
	pf.DurationVarP(&f.timeout, "timeout", "", 0, "Request timeout (0 for none)")
}

// newExecutor creates the transport; tests replace it.
var newExecutor = func(timeout time.Duration) puppetdb.Executor {
	return httpclient.NewHTTPExecutor(httpclient.HTTPExecutorOptions{
		Timeout:   timeout,
		UserAgent: "pdbquery/" + puppetdb.Version,
	})
}

// loadConfig reads the config file named by --config, or the default config
// file when it exists, and applies the flags that were set on cmd.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.ConfigParam, error) {
	cfg := config.Default()

	file := opts.configFile
	explicit := file != ""
	if !explicit {
		if p, err := config.GetDefaultConfigPath(); err == nil {
			file = p
		}
	}
	if file != "" {
		loaded, err := config.LoadConfig(file)
		switch {
		case err == nil:
			cfg = loaded
			log.Debug().Str("config_file", file).Msg("loaded config file")
		case !explicit && errors.Is(err, os.ErrNotExist):
			log.Debug().Str("config_file", file).Msg("no config file, using defaults")
		default:
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = opts.conn.host
	}
	if flags.Changed("port") {
		cfg.Port = opts.conn.port
	}
	if flags.Changed("api-version") {
		cfg.APIVersion = opts.conn.apiVersion
	}
	if flags.Changed("ca-cert") {
		cfg.TLS.CACert = opts.conn.caCert
	}
	if flags.Changed("cert") {
		cfg.TLS.ClientCert = opts.conn.cert
	}
	if flags.Changed("key") {
		cfg.TLS.ClientKey = opts.conn.key
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.conn.timeout.String()
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	} else if cfg.LogLevel != "" {
		logtrace.InitLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newConnector builds a connector from the resolved configuration. The
// connector is returned even when invalid so that callers see its error.
func newConnector(cfg *config.ConfigParam) (*puppetdb.Connector, error) {
	cc, err := cfg.ConnectorConfig()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.GetTimeout()
	if err != nil {
		return nil, err
	}
	return puppetdb.NewConnectorFromConfig(cc,
		puppetdb.WithExecutor(newExecutor(timeout)),
		puppetdb.WithLogger(log.Logger),
	)
}

// newConfigCmd creates the config command
func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pdbquery configuration",
		Long:  `Show the configuration resolved from the config file and flags.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "view",
		Short: "Print the resolved configuration",
		Long: `Print the configuration resolved from the config file, environment templating
and command-line flags.

Examples:
  pdbquery config view --host puppetdb --api-version v3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				printJSON(cmd.OutOrStdout(), cfg)
				return nil
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("unable to generate configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.GetDefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	})

	return configCmd
}

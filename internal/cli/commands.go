package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tansive/pdbquery/internal/common/apperrors"
	"github.com/tansive/pdbquery/internal/common/logtrace"
	"github.com/tansive/pdbquery/pkg/puppetdb"
)

// ErrAlreadyHandled marks an error that has already been reported to the user.
var ErrAlreadyHandled = errors.New("already handled")

var errorLabel = color.New(color.FgRed)
var urlLabel = color.New(color.FgCyan)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configFile string
	jsonOutput bool
	logLevel   string
	conn       connectionFlags
}

// NewRootCmd builds the pdbquery command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pdbquery [command] [flags]",
		Short: "pdbquery - run PuppetDB queries from the command line",
		Long: `pdbquery runs queries against the PuppetDB query API and prints the result.
Connection settings come from the configuration file and can be overridden with flags.

Examples:
  # List all facts of the default host
  pdbquery query facts

  # Query nodes with a PuppetDB query string
  pdbquery query nodes '["=", "name", "master"]'

  # Show the URL that would be requested, over TLS with API v3
  pdbquery url nodes --host puppetdb --ca-cert ca.pem --cert agent.pem --key agent.key --api-version v3`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logtrace.InitLoggerTo(cmd.ErrOrStderr(), opts.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&opts.jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "", "", "Log level (trace, debug, info, warn, error)")
	opts.conn.register(rootCmd)

	rootCmd.AddCommand(newVersionCmd(opts))
	rootCmd.AddCommand(newQueryCmd(opts))
	rootCmd.AddCommand(newURLCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error
	return rootCmd
}

// Execute runs the command tree and exits with the code of the error kind:
// 2 for connector errors, 3 for query errors, 4 for processing errors.
func Execute() {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("json")
	reportError(os.Stderr, err, jsonOutput)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return apperrors.ExitCode(err, 1)
}

// reportError prints err unless it was already handled.
func reportError(w io.Writer, err error, jsonOutput bool) {
	if errors.Is(err, ErrAlreadyHandled) {
		return
	}
	if jsonOutput {
		kv := map[string]any{
			"error": err.Error(),
			"kind":  puppetdb.KindOf(err).String(),
		}
		printJSON(w, kv)
		return
	}
	errorLabel.Fprintf(w, "Error: ")
	fmt.Fprintf(w, "%s\n", describeError(err))
}

// describeError prefixes err with the stage that failed.
func describeError(err error) string {
	switch puppetdb.KindOf(err) {
	case puppetdb.KindConnector:
		return "failed to initialize the connector: " + err.Error()
	case puppetdb.KindQuery:
		return "failed to initialize the query: " + err.Error()
	case puppetdb.KindEncoding, puppetdb.KindProcessing:
		return "failed to perform the query: " + err.Error()
	default:
		return err.Error()
	}
}

// newVersionCmd creates and returns a new version command
func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pdbquery",
		Run: func(cmd *cobra.Command, args []string) {
			if opts.jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"library":     puppetdb.Version,
					"api_default": puppetdb.DefaultAPIVersion.Token(),
				})
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pdbquery %s (libpuppetdb %s)\n", getCLIVersion(), puppetdb.Version)
		},
	}
}

// printJSON prints the given value as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("unable to encode output")
		return
	}
	fmt.Fprintln(w, string(jsonData))
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v" + puppetdb.Version
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tansive/pdbquery/pkg/puppetdb"
)

type queryOptions struct {
	output     string
	selectPath string
	retries    uint
	retryDelay time.Duration
	showURL    bool
}

// newQueryCmd creates the query command
func newQueryCmd(opts *rootOptions) *cobra.Command {
	qopts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query ENDPOINT [QUERY_STRING] [flags]",
		Short: "Perform a PuppetDB query and print the result",
		Long: `Perform a PuppetDB query and print the response body. The query string is
written in the PuppetDB query language and is URL-encoded before sending.

Examples:
  # All facts
  pdbquery query facts

  # A node by name, printed as YAML
  pdbquery query nodes '["=", "name", "master"]' -o yaml

  # Only the certnames, retrying up to 3 times on network failures
  pdbquery query nodes --select '#.certname' --retries 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, qopts, args)
		},
	}

	cmd.Flags().StringVarP(&qopts.output, "output", "o", outputRaw, "Output format (raw, json, yaml)")
	cmd.Flags().StringVarP(&qopts.selectPath, "select", "s", "", "Print only the part of the result matching a gjson path")
	cmd.Flags().UintVarP(&qopts.retries, "retries", "r", 0, "Retry failed requests this many times")
	cmd.Flags().DurationVarP(&qopts.retryDelay, "retry-delay", "", time.Second, "Initial delay between retries")
	cmd.Flags().BoolVarP(&qopts.showURL, "show-url", "u", false, "Print the performed query URL to stderr")
	return cmd
}

func runQuery(cmd *cobra.Command, opts *rootOptions, qopts *queryOptions, args []string) error {
	if err := validateOutputFormat(qopts.output); err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	connector, err := newConnector(cfg)
	if err != nil {
		return err
	}
	query, err := puppetdb.NewQuery(args[0], queryStringArg(args))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := performWithRetry(ctx, connector, query, qopts.retries, qopts.retryDelay)
	if qopts.showURL && connector.PerformedQueryURL() != "" {
		urlLabel.Fprintf(cmd.ErrOrStderr(), "Performed query: ")
		fmt.Fprintln(cmd.ErrOrStderr(), connector.PerformedQueryURL())
	}
	if err != nil {
		return err
	}

	if qopts.selectPath != "" {
		body, err = selectResult(body, qopts.selectPath)
		if err != nil {
			return err
		}
	}

	if opts.jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{
			"url":    connector.PerformedQueryURL(),
			"result": rawJSON(body),
		})
		return nil
	}
	return writeResult(cmd.OutOrStdout(), body, qopts.output)
}

// performWithRetry retries processing errors only; connector, query and
// encoding errors would fail the same way again.
func performWithRetry(ctx context.Context, c *puppetdb.Connector, q puppetdb.Query, retries uint, delay time.Duration) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.PerformQuery(ctx, q)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return puppetdb.KindOf(err) == puppetdb.KindProcessing
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Uint("attempt", n+1).Err(err).Str("url", c.PerformedQueryURL()).Msg("query failed, retrying")
		}),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func queryStringArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}

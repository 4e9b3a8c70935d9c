package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tansive/pdbquery/pkg/puppetdb"
)

// newURLCmd creates the url command
func newURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url ENDPOINT [QUERY_STRING] [flags]",
		Short: "Print the URL a query would request",
		Long: `Print the fully encoded URL that "pdbquery query" would request, without
contacting PuppetDB. The connector configuration is still validated.

Examples:
  pdbquery url nodes '["=", "name", "master"]' --host puppetdb`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			u, err := connector.QueryURL(query)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"url":   u,
					"query": query.String(),
				})
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samvad-hq/inlink-go/internal/config"
	"github.com/samvad-hq/inlink-go/internal/logger"
	"github.com/samvad-hq/inlink-go/pkg/httpclient"
	"github.com/samvad-hq/inlink-go/pkg/inlink"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	endpoint string
	token    string
	timeout  time.Duration
	compact  bool
}

func newQueryCmd(newLogger func() (logger.Logger, error)) *cobra.Command {
	opts := queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <url>",
		Short: "Fetch metadata for a page and print the {status, data} result as JSON",
		Long: `Fetch metadata for a page through the inlink API.

The endpoint and token default to INLINK_ENDPOINT and INLINK_API_TOKEN. The
command only fails when the API cannot be reached or answers with something
other than JSON; error payloads are printed like any other result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			return runQuery(cmd, args[0], opts, log)
		},
	}

	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "API base address (default from INLINK_ENDPOINT)")
	cmd.Flags().StringVar(&opts.token, "token", "", "bearer token (default from INLINK_API_TOKEN)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 means no limit)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print compact JSON")
	return cmd
}

func runQuery(cmd *cobra.Command, target string, opts queryOptions, log logger.Logger) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.endpoint == "" {
		opts.endpoint = cfg.Endpoint
	}
	if opts.token == "" {
		opts.token = cfg.APIToken
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	client := inlink.NewClient(
		inlink.WithEndpoint(opts.endpoint),
		inlink.WithAPIToken(opts.token),
		inlink.WithHTTPClient(httpclient.NewRestyClient(0)),
		inlink.WithLogger(log),
	)

	res, err := client.Query(ctx, target)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/config"
	"spaceship-fleet/maintenance-portal/internal/dashboard"
	"spaceship-fleet/maintenance-portal/internal/logging"
	"spaceship-fleet/maintenance-portal/internal/pagination"
	"spaceship-fleet/maintenance-portal/pkg/workflows"
)

var (
	rootCmd = &cobra.Command{
		Use:          "dashboard",
		Short:        "Spaceship maintenance dashboard",
		Long:         `Headless dashboard for the maintenance portal: lists entities, follows live updates and inspects request workflows.`,
		SilenceUsage: true,
	}

	configPath string
	apiBase    string
	pageNumber int
	pageSize   int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "", "portal API base URL (overrides dashboard.api_base)")

	requestsListCmd.Flags().IntVar(&pageNumber, "page", 0, "zero-based page number")
	requestsListCmd.Flags().IntVar(&pageSize, "size", 0, "page size (defaults to dashboard.page_size)")

	requestsCmd.AddCommand(requestsListCmd, requestsTransitionsCmd)
	rootCmd.AddCommand(watchCmd, transitionsCmd, requestsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if apiBase != "" {
		cfg.Dashboard.APIBase = apiBase
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load the first page of every kind and follow live updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := dashboard.NewClient(cfg.Dashboard.APIBase, cfg.Dashboard.Timeout.Duration)
		presenter := dashboard.NewLogPresenter(logger)
		streams := dashboard.OpenStreams(ctx, nil, client.BaseURL(), presenter)

		d := dashboard.New(client, cfg.Dashboard.PageSize, presenter, logger)
		if err := d.Run(ctx, streams); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var transitionsCmd = &cobra.Command{
	Use:   "transitions <status>",
	Short: "Show the statuses a request in <status> may move to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current := workflows.Normalize(args[0])
		allowed := workflows.AllowedTransitions(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "current:  %s\n", current)
		fmt.Fprintf(out, "allowed:  %v\n", allowed)
		fmt.Fprintf(out, "default:  %s\n", workflows.SelectDefault(current, allowed))
		fmt.Fprintf(out, "terminal: %t\n", current.IsTerminal())
		if !current.IsValid() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not a known status\n", current)
		}
		return nil
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect maintenance requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of maintenance requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		size := pageSize
		if size <= 0 {
			size = cfg.Dashboard.PageSize
		}
		client := dashboard.NewClient(cfg.Dashboard.APIBase, cfg.Dashboard.Timeout.Duration)
		rows, err := client.ListRequests(cmd.Context(), pagination.Page{Number: pageNumber, Size: size})
		if err != nil {
			return err
		}
		return printJSON(cmd, rows)
	},
}

var requestsTransitionsCmd = &cobra.Command{
	Use:   "transitions <id>",
	Short: "Ask the portal which statuses request <id> may move to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		client := dashboard.NewClient(cfg.Dashboard.APIBase, cfg.Dashboard.Timeout.Duration)
		transitions, err := client.RequestTransitions(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printJSON(cmd, transitions)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

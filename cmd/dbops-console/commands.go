package main

import (
	"fmt"
	"text/tabwriter"

	"dbops-console/internal/config"
	"dbops-console/internal/eventlog"

	"github.com/spf13/cobra"
)

func newConfigCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and write the configuration",
	}

	var path string
	write := &cobra.Command{
		Use:   "write",
		Short: "Write the resolved configuration to a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			written, err := config.WriteFile(cfg, path)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), written)
			return nil
		},
	}
	write.Flags().StringVar(&path, "path", "", "destination file (default is the per-user config file)")

	cmd.AddCommand(write)
	return cmd
}

func newDirectoryCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Query the server directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the SQL servers offered in operation dialogs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *cfgFile)
			if err != nil {
				return err
			}
			for _, e := range newDirectoryClient(cfg).List(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), e.DisplayName)
			}
			return nil
		},
	})
	return cmd
}

func newEventsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := eventlog.ParseFilter(status)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tSTATUS\tACTION\tACTOR\tDETAILS")
			for _, e := range eventlog.Seeded().Filter(filter) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp, e.Status.Label(), e.Action, e.Actor, e.Details)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", eventlog.FilterAll, "status filter: all, success, warning, error, info")
	return cmd
}

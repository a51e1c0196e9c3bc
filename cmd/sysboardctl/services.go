package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newServicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Inspect and control systemd services",
	}

	var lines int

	list := &cobra.Command{
		Use:   "list",
		Short: "List service units",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			services, err := c.api.Services(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UNIT\tLOAD\tACTIVE\tSUB\tENABLED\tDESCRIPTION")
			for _, s := range services {
				enabled := "no"
				if s.Enabled {
					enabled = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.Name, s.LoadState, s.ActiveState, s.SubState, enabled, s.Description)
			}
			return w.Flush()
		},
	}

	logs := &cobra.Command{
		Use:   "logs <unit>",
		Short: "Show recent journal lines for a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			out, err := c.api.ServiceLogs(cmd.Context(), args[0], lines)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	logs.Flags().IntVarP(&lines, "lines", "n", 100, "Number of log lines")

	cmd.AddCommand(list, logs)
	for _, action := range []string{"start", "stop", "restart"} {
		cmd.AddCommand(newServiceActionCmd(action))
	}
	return cmd
}

func newServiceActionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <unit>",
		Short: capitalize(action) + " a service unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			msg, err := c.api.ServiceAction(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

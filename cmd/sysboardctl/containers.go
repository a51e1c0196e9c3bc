package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// dockerCreatedLayout matches the CreatedAt column of docker ps.
const dockerCreatedLayout = "2006-01-02 15:04:05 -0700 MST"

func newContainersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "containers",
		Short: "Inspect and control docker containers",
	}

	var (
		all   bool
		lines int
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			ctx := cmd.Context()
			containers, err := c.api.Containers(ctx, all)
			if err != nil {
				return err
			}

			// Creation times render in the operator's display timezone.
			loc, err := time.LoadLocation(c.prefs.Timezone(ctx))
			if err != nil {
				loc = time.UTC
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tIMAGE\tSTATE\tSTATUS\tPORTS\tCREATED")
			for _, ct := range containers {
				created := ct.Created
				if ts, err := time.Parse(dockerCreatedLayout, ct.Created); err == nil {
					created = ts.In(loc).Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					ct.ID, ct.Name, ct.Image, ct.State, ct.Status,
					strings.Join(ct.Ports, ","), created)
			}
			return w.Flush()
		},
	}
	list.Flags().BoolVarP(&all, "all", "a", true, "Include stopped containers")

	logs := &cobra.Command{
		Use:   "logs <container>",
		Short: "Show recent log lines for a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			out, err := c.api.ContainerLogs(cmd.Context(), args[0], lines)
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
		cmd.AddCommand(newContainerActionCmd(action))
	}
	return cmd
}

func newContainerActionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <container>",
		Short: capitalize(action) + " a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			msg, err := c.api.ContainerAction(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

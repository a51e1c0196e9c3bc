package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysboard/internal/prefs"
)

func newPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "View and change display preferences",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			ctx := cmd.Context()
			fmt.Printf("timezone: %s\n", c.prefs.Timezone(ctx))
			fmt.Printf("unit:     %s\n", c.prefs.NetworkUnit(ctx))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <timezone|unit> <value>",
		Short: "Set a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			ctx := cmd.Context()
			switch args[0] {
			case "timezone":
				if err := c.prefs.SetTimezone(ctx, args[1]); err != nil {
					return err
				}
			case "unit":
				if args[1] != prefs.UnitMBps && args[1] != prefs.UnitMbps {
					return fmt.Errorf("unit must be %q or %q", prefs.UnitMBps, prefs.UnitMbps)
				}
				c.prefs.SetNetworkUnit(ctx, args[1])
			default:
				return fmt.Errorf("unknown preference %q", args[0])
			}
			fmt.Printf("%s set to %s\n", args[0], args[1])
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Reset all preferences to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCLI()
			if err != nil {
				return err
			}
			defer c.close()

			c.prefs.ClearAll(cmd.Context())
			fmt.Println("Preferences cleared")
			return nil
		},
	}

	cmd.AddCommand(show, set, clear)
	return cmd
}

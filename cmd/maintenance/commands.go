package main

import (
	"fmt"
	"text/tabwriter"

	"press_admin/internal/services"

	"github.com/spf13/cobra"
)

type opener func() (services.MaintenanceService, func(), error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "maintenance",
		Short:        "Repair jobs for the press admin database",
		SilenceUsage: true,
	}

	run := func(fn func(cmd *cobra.Command, svc services.MaintenanceService) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := open()
			if err != nil {
				return err
			}
			defer cleanup()
			return fn(cmd, svc)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "fix-profiles",
		Short: "Create the missing profile for every account without one",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, svc services.MaintenanceService) error {
			n, err := svc.FixProfiles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d missing profile(s)\n", n)
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "fix-archive-tokens",
		Short: "Regenerate duplicated recycle bin tokens",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, svc services.MaintenanceService) error {
			n, err := svc.FixArchiveTokens(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Regenerated %d duplicate token(s)\n", n)
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "rotate-passwords",
		Short: "Issue a new password to every account and print it",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, svc services.MaintenanceService) error {
			rotated, err := svc.RotatePasswords(cmd.Context())
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tPASSWORD\tLOGIN")
			for _, r := range rotated {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Username, r.Credential, r.LoginURL)
			}
			if flushErr := tw.Flush(); err == nil {
				err = flushErr
			}
			return err
		}),
	})

	return root
}

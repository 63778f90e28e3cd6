package main

import (
	"github.com/spf13/cobra"

	"github.com/tonimelisma/spreport/internal/siteurl"
)

func newAuthCmd() *cobra.Command {
	tf := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "auth <url>",
		Short: "Check that the credentials can sign in to a site",
		Long: `Runs only the sign-in handshake against the site's server and reports
whether it succeeded. Session cookies are never printed or stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, args[0], tf)
		},
	}

	addTargetFlags(cmd, tf, false)

	return cmd
}

func runAuth(cmd *cobra.Command, arg string, tf *targetFlags) error {
	cc := mustCLIContext(cmd.Context())
	ctx, cancel := commandContext(cmd.Context(), cc.Logger)
	defer cancel()

	site, err := siteurl.Parse(arg)
	if err != nil {
		return err
	}

	if _, err := signIn(ctx, cc, site, newHTTPClient(cc.Cfg.Network.Timeout()), tf.password); err != nil {
		return err
	}

	cc.Statusf("Signed in to %s as %s.\n", site.ServerURL(), cc.Cfg.Auth.Username)

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/spreport/internal/config"
	"github.com/tonimelisma/spreport/internal/sharepoint"
	"github.com/tonimelisma/spreport/internal/siteurl"
	"github.com/tonimelisma/spreport/internal/tree"
)

// passwordPrompt is swapped out by tests.
var passwordPrompt = promptPassword

// targetFlags are the flags shared by every command that reads a library.
type targetFlags struct {
	password string
	local    bool
}

// addTargetFlags registers the credential flags, and --local when the
// command can read a local directory instead.
func addTargetFlags(cmd *cobra.Command, tf *targetFlags, allowLocal bool) {
	cmd.Flags().StringP("user", "u", "",
		"account username, <userName>@<yourdomain>.onmicrosoft.com (env "+config.EnvUsername+")")
	cmd.Flags().StringVarP(&tf.password, "password", "p", "",
		"account password (env "+config.EnvPassword+", prompted when unset)")

	if allowLocal {
		cmd.Flags().BoolVar(&tf.local, "local", false, "treat the argument as a local directory; no sign-in")
	}
}

// Target is an opened library: the provider to walk and the folder to
// start from.
type Target struct {
	Provider tree.Provider
	Root     string
}

// openTarget turns the command argument into a Target. SharePoint addresses
// go through the sign-in handshake first.
func openTarget(ctx context.Context, cc *CLIContext, arg string, tf *targetFlags) (*Target, error) {
	if tf.local {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", arg, err)
		}

		return &Target{Provider: tree.NewLocalProvider(cc.Logger), Root: filepath.ToSlash(abs)}, nil
	}

	site, err := siteurl.Parse(arg)
	if err != nil {
		return nil, err
	}

	httpClient := newHTTPClient(cc.Cfg.Network.Timeout())

	session, err := signIn(ctx, cc, site, httpClient, tf.password)
	if err != nil {
		return nil, err
	}

	client := sharepoint.NewClient(site.SiteURL(), httpClient, session, cc.Logger, cc.Cfg.Auth.UserAgent)
	client.SetRequestRate(cc.Cfg.Network.RequestsPerSecond)

	return &Target{Provider: client, Root: site.Path}, nil
}

// signIn runs the credential exchange against the site's server.
func signIn(
	ctx context.Context, cc *CLIContext, site *siteurl.URL, httpClient *http.Client, passwordFlag string,
) (*sharepoint.Session, error) {
	username := cc.Cfg.Auth.Username
	if username == "" {
		return nil, errors.New("no username: pass --user or set " + config.EnvUsername)
	}

	password, err := resolvePassword(passwordFlag, cc.Env.Password, passwordPrompt)
	if err != nil {
		return nil, err
	}

	cc.Logger.Info("signing in",
		slog.String("server", site.ServerURL()),
		slog.String("user", username),
	)

	started := time.Now()

	session, err := sharepoint.Authenticate(ctx, httpClient, sharepoint.AuthConfig{
		ServiceURL:  site.ServerURL(),
		UserAgent:   cc.Cfg.Auth.UserAgent,
		STSEndpoint: cc.Cfg.Auth.STSEndpoint,
		Username:    username,
		Password:    password,
	}, cc.Logger)
	if err != nil {
		return nil, err
	}

	cc.Logger.Info("signed in",
		slog.Any("session", session),
		slog.Duration("elapsed", time.Since(started)),
	)

	return session, nil
}

// Package cli implements stationctl, the operator CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"stationdesk/pkg/client"
)

// Execute runs stationctl.
func Execute() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	profilePath string
	profileName string
	apiURL      string
	token       string

	profile Profile
}

func (o *rootOptions) client() (*client.Client, error) {
	if o.profile.Token == "" {
		return nil, fmt.Errorf("no API token: set one in the profile, STATIONDESK_TOKEN or --token")
	}
	return client.New(o.profile.APIURL, client.WithToken(o.profile.Token))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "stationctl",
		Short:        "Operate a stationdesk back office",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			pf, err := LoadProfiles(opts.profilePath)
			if err != nil {
				return err
			}
			p, err := pf.Select(opts.profileName)
			if err != nil {
				return err
			}
			if opts.apiURL != "" {
				p.APIURL = opts.apiURL
			}
			if opts.token != "" {
				p.Token = opts.token
			}
			opts.profile = p.withEnv()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.profilePath, "profiles", DefaultProfilePath(), "profiles file")
	cmd.PersistentFlags().StringVarP(&opts.profileName, "profile", "P", "", "profile name (default: the file's default)")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "API base URL, e.g. http://localhost:8080/api/v1")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token")

	cmd.AddCommand(
		tokenCmd(opts),
		migrateCmd(opts),
		exportCmd(opts),
		listCmd(opts),
		trendCmd(opts),
		voucherCmd(opts),
	)
	return cmd
}

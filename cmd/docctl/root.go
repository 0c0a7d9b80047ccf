package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"docmanager-backend/internal/client"
)

const defaultAPIURL = "http://localhost:8080/api/v1"

// cli carries per-invocation state shared by all subcommands.
type cli struct {
	v *viper.Viper
}

func (a *cli) client() (*client.Client, error) {
	session, err := client.NewFileSession(a.v.GetString("session_file"))
	if err != nil {
		return nil, err
	}
	return client.New(a.v.GetString("api_url"), session), nil
}

func newRootCmd() *cobra.Command {
	a := &cli{v: viper.New()}
	a.v.SetEnvPrefix("DOCCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("api_url", defaultAPIURL)
	a.v.SetDefault("session_file", "")

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Command line client for the document manager API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", defaultAPIURL, "API base URL (env DOCCTL_API_URL)")
	root.PersistentFlags().String("session-file", "", "session file path (env DOCCTL_SESSION_FILE)")
	_ = a.v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = a.v.BindPFlag("session_file", root.PersistentFlags().Lookup("session-file"))

	root.AddCommand(
		a.loginCmd(),
		a.signupCmd(),
		a.logoutCmd(),
		a.profileCmd(),
		a.usersCmd(),
		a.documentsCmd(),
		a.ingestionsCmd(),
	)
	return root
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prperemyshlev/storefront/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultServer = "http://localhost:8080/api/v1"
	envPrefix     = "STOREFRONT"
)

type cli struct {
	v       *viper.Viper
	client  *client.Client
	session *client.FileSession
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the storefront catalog and manage your session",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.storefront.yaml)")
	flags.StringP("server", "s", defaultServer, "API base URL including the /api/v1 prefix")
	flags.StringP("output", "o", "text", "output format (text, json, yaml)")
	flags.String("session", "", "session file (default is $HOME/.storefront/session.json)")
	flags.BoolP("verbose", "v", false, "verbose output")

	for _, name := range []string{"config", "server", "output", "session", "verbose"} {
		_ = app.v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		app.registerCmd(),
		app.loginCmd(),
		app.logoutCmd(),
		app.whoamiCmd(),
		app.productsCmd(),
	)
	return root
}

// init reads config file and environment, then builds the API client
func (a *cli) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile := a.v.GetString("config"); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home)
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".storefront")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.v.GetString("config") != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	switch format := a.v.GetString("output"); format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	a.logger = zap.NewNop()
	if a.v.GetBool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		a.logger = logger
	}

	sessionPath := a.v.GetString("session")
	if sessionPath == "" {
		path, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		sessionPath = path
	}

	session, err := client.OpenFileSession(filepath.Clean(sessionPath))
	if err != nil {
		return err
	}
	a.session = session

	stderr := cmd.ErrOrStderr()
	a.client = client.New(a.v.GetString("server"),
		client.WithSession(session),
		client.WithLogger(a.logger),
		client.WithLoginRedirect(func() {
			fmt.Fprintln(stderr, "Your session has expired. Run `storefront login` to sign in again.")
		}),
	)
	return nil
}

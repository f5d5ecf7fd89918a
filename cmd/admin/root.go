package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/client"
)

const (
	configName = ".desa-admin"
	envPrefix  = "DESA_ADMIN"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetConfigPermissions(0o600)
	root := &cobra.Command{
		Use:           "desa-admin",
		Short:         "Terminal back-office for the Desa Wisata directory",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default $HOME/"+configName+".yaml)")
	root.PersistentFlags().String("api-url", "http://localhost:8080", "base URL of the API")
	root.PersistentFlags().Duration("timeout", 15*time.Second, "HTTP timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log API calls to stderr")
	_ = a.v.BindPFlag("api_url", root.PersistentFlags().Lookup("api-url"))
	_ = a.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatsCmd(a),
		newTourismCmd(a),
		newUmkmCmd(a),
		newArticlesCmd(a),
	)
	return root
}

func (a *app) loadConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		a.v.AddConfigPath(home)
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.cfgFile = filepath.Join(home, configName+".yaml")
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// saveToken persists the session token, or removes it when token is empty.
// A new config file is created 0600; an existing one is narrowed to 0600
// before the token is written into it.
func (a *app) saveToken(token string) error {
	if err := os.Chmod(a.cfgFile, 0o600); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("restrict config %s: %w", a.cfgFile, err)
	}
	a.v.Set("token", token)
	if err := a.v.WriteConfigAs(a.cfgFile); err != nil {
		return fmt.Errorf("write config %s: %w", a.cfgFile, err)
	}
	return nil
}

func (a *app) client() (*client.Client, error) {
	logger := log.New(io.Discard, "", 0)
	if a.verbose {
		logger = log.New(os.Stderr, "desa-admin: ", log.LstdFlags)
	}
	return client.New(client.Options{
		BaseURL: a.v.GetString("api_url"),
		Token:   a.v.GetString("token"),
		Timeout: a.v.GetDuration("timeout"),
		Logger:  logger,
	})
}

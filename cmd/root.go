package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/web3-connect/internal/version"
	"github.com/ethpandaops/web3-connect/pkg/server"
	"github.com/ethpandaops/web3-connect/pkg/web3"
)

var (
	log              = logrus.New()
	serverConfigFile string
	networkID        int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "web3-connect",
	Short: "Resolves a web3 provider and serves its state.",
	Long:  `Resolves a web3 provider once at startup and serves the resolved state until shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context(), resolveOptions(cmd)...)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverConfigFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().IntVar(&networkID, "network-id", 0, "network ID override for the remote fallback endpoint")
}

func resolveOptions(cmd *cobra.Command) []web3.ResolveOption {
	if !cmd.Flags().Changed("network-id") {
		return nil
	}

	return []web3.ResolveOption{web3.WithNetworkID(networkID)}
}

func setup(ctx context.Context) (*server.Server, error) {
	config, err := loadServerConfigFromFile(serverConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	level, err := logrus.ParseLevel(config.LoggingLevel)
	if err != nil {
		log.WithError(err).Warn("Invalid logging level, using info")

		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"version": version.GetRelease(),
		"commit":  version.GetGitCommit(),
	}).Info("Starting web3-connect")

	srv, err := server.NewServer(ctx, log, "web3_connect", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return srv, nil
}

func runServer(ctx context.Context, opts ...web3.ResolveOption) error {
	srv, err := setup(ctx)
	if err != nil {
		return err
	}

	if err := srv.Start(ctx, opts...); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info("web3-connect exited - cya!")

	return nil
}

func loadServerConfigFromFile(file string) (*server.Config, error) {
	if file == "" {
		file = "config.yaml"
	}

	config := &server.Config{}

	if err := defaults.Set(config); err != nil {
		return nil, err
	}

	yamlFile, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	type plain server.Config

	if err := yaml.Unmarshal(yamlFile, (*plain)(config)); err != nil {
		return nil, err
	}

	return config, nil
}

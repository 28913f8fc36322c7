package cmd

import (
	"context"
	"os"

	"github.com/spigell/applicant/internal/render"
	"github.com/spigell/applicant/internal/workflow"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Show the open position",
	Run: func(_ *cobra.Command, _ []string) {
		showJob()
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
}

func showJob() {
	logger, config := setup()
	defer logger.Sync()

	client, err := newPortalClient(config, logger)
	if err != nil {
		logger.Fatal("creating a portal client", zap.Error(err))
	}

	store := workflow.NewStore()
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	loader := workflow.NewJobLoader(client, store, logger)
	_, loadErr := loader.Load(context.Background())

	render.NewConsole(os.Stdout, viper.GetBool("json")).Drain(updates)

	if loadErr != nil {
		os.Exit(1)
	}
}

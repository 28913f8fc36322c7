package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spigell/applicant/internal/logger"
	"github.com/spigell/applicant/internal/portal"
	"github.com/spigell/applicant/internal/render"
	"github.com/spigell/applicant/internal/secrets"
	"github.com/spigell/applicant/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// jobRenderWait bounds how long the job load may delay the application form.
const jobRenderWait = 3 * time.Second

var againPrompt = promptui.Select{
	Label: "Submit another application?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the open position and apply to it",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("name", "n", "", "candidate full name")
	runCmd.Flags().StringP("email", "e", "", "candidate email address")
	runCmd.Flags().StringP("resume", "r", "", "path to the resume PDF")
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not prompt, submit the configured candidate once")
	runCmd.Flags().Bool("strict-email", false, "check the email format before submitting")

	viper.BindPFlag("candidate.name", runCmd.Flags().Lookup("name"))
	viper.BindPFlag("candidate.email", runCmd.Flags().Lookup("email"))
	viper.BindPFlag("candidate.resume", runCmd.Flags().Lookup("resume"))
	viper.BindPFlag("strict-email", runCmd.Flags().Lookup("strict-email"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := setup()
	defer logger.Sync()

	client, err := newPortalClient(config, logger)
	if err != nil {
		logger.Fatal("creating a portal client", zap.Error(err))
	}

	store := workflow.NewStore()
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	console := render.NewConsole(os.Stdout, viper.GetBool("json"))

	loader := workflow.NewJobLoader(client, store, logger)
	controller := workflow.NewController(client, store, workflow.ControllerConfig{
		StrictEmail: config.StrictEmail,
	}, logger)

	// The form does not wait for the job; a slow or failed load only delays its rendering.
	if !waitForJob(loader.Start(ctx), jobRenderWait) {
		logger.Info("job details are still loading, continuing to the application form")
	}

	interactive := cmd.Flag("auto-aprove").Value.String() == "false"
	form := &candidateForm{defaults: *config.Candidate, interactive: interactive, logger: logger}

	for {
		// picks up a job posting that arrived after the first render
		console.Drain(updates)

		app, err := form.collect()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "interrupted"))
				return
			}
			logger.Fatal("collecting the application", zap.Error(err))
		}

		submit(ctx, controller, app, logger, func() { console.Drain(updates) })

		if !interactive {
			break
		}

		_, action, err := againPrompt.Run()
		if err != nil || action == PromptNo {
			logger.Info("exiting", zap.String("reason", "no more applications"))
			break
		}
	}

	if !interactive && store.Snapshot().Phase == workflow.PhaseFailed {
		os.Exit(1)
	}
}

// waitForJob waits for done at most wait. It reports whether the load finished in time.
func waitForJob(done <-chan struct{}, wait time.Duration) bool {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// submit sends the application and waits for the outcome, calling redraw on every state change.
// Errors are not returned since they are part of the state.
func submit(ctx context.Context, controller *workflow.Controller, app *portal.Application, logger *zap.Logger, redraw func()) {
	outcomes, err := controller.Submit(ctx, app)
	defer redraw()
	if err != nil {
		// not admitted, so the resume is still ours
		app.Resume.Close()

		var verr *workflow.ValidationError
		if !errors.As(err, &verr) {
			logger.Warn("submission refused", zap.Error(err))
		}
		return
	}

	redraw()
	outcome := <-outcomes
	logger.Debug("submission finished", zap.String("outcome", fmt.Sprintf("%T", outcome)))
}

func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the applicant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func newPortalClient(config *Config, logger *zap.Logger) (*portal.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "portal token",
		Value:    config.Token,
		File:     config.TokenFile,
		Optional: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set token-file or APPLICANT_TOKEN_FILE)", err)
	}

	return portal.New(logger.Named("portal"), portal.Options{
		APIURL:      config.APIURL,
		JobPath:     config.JobPath,
		AnalyzePath: config.AnalyzePath,
		UserAgent:   config.UserAgent,
		Token:       token,
		Timeout:     config.Timeout,
	}), nil
}

func redacted(config *Config) Config {
	c := *config
	if c.Token != "" {
		c.Token = "***"
	}
	return c
}

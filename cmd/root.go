package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "applicant"
	envPrefix = "APPLICANT"
)

type Config struct {
	APIURL      string           `mapstructure:"api-url"`
	JobPath     string           `mapstructure:"job-path"`
	AnalyzePath string           `mapstructure:"analyze-path"`
	UserAgent   string           `mapstructure:"user-agent"`
	Token       string           `mapstructure:"token"`
	TokenFile   string           `mapstructure:"token-file"`
	Timeout     time.Duration    `mapstructure:"timeout"`
	StrictEmail bool             `mapstructure:"strict-email"`
	Candidate   *CandidateConfig `mapstructure:"candidate"`
}

type CandidateConfig struct {
	Name   string `mapstructure:"name"`
	Email  string `mapstructure:"email"`
	Resume string `mapstructure:"resume"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "applicant is a simple cli for viewing the open position and applying to it with a resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is applicant.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging and output")
	rootCmd.PersistentFlags().String("api-url", "", "base address of the career portal api")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))

	// Defaults make every key visible to the environment lookup during Unmarshal.
	viper.SetDefault("api-url", "http://127.0.0.1:8000")
	viper.SetDefault("job-path", "/get-job-details")
	viper.SetDefault("analyze-path", "/analyze-resume/")
	viper.SetDefault("user-agent", "")
	viper.SetDefault("token", "")
	viper.SetDefault("token-file", "")
	viper.SetDefault("timeout", "0s")
	viper.SetDefault("strict-email", false)
	viper.SetDefault("candidate.name", "")
	viper.SetDefault("candidate.email", "")
	viper.SetDefault("candidate.resume", "")
}

func initConfig() {
	// Config is not needed for the version command.
	if versionCmd.CalledAs() != "" {
		return
	}

	// .env is optional. Real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested config file is mandatory.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Candidate == nil {
		config.Candidate = &CandidateConfig{}
	}

	return config, nil
}

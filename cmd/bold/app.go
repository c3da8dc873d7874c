package main

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by every subcommand.
type app struct {
	v      *viper.Viper
	log    *log.Logger
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	l := log.New()
	l.SetOutput(stderr)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	})
	return &app{
		v:      viper.New(),
		log:    l,
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use: "bold",

		Short: "Semi-blind deconvolution of fMRI BOLD signals.",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure()
		},

		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default ./bold.yaml)")
	flags.BoolP("verbose", "v", false, "log solver progress")
	flags.String("log-format", "text", "log format: text or json")
	flags.String("db", "", "SQLite run archive; empty disables archiving")
	flags.Float64("tr", 1.0, "repetition time in seconds")

	a.v.BindPFlag("config", flags.Lookup("config"))
	a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	a.v.BindPFlag("log-format", flags.Lookup("log-format"))
	a.v.BindPFlag("db", flags.Lookup("db"))
	a.v.BindPFlag("tr", flags.Lookup("tr"))

	cmd.AddCommand(
		a.versionCmd(),
		a.simulateCmd(),
		a.deconvCmd(),
		a.estimateHRFCmd(),
		a.blindCmd(),
		a.hrfCmd(),
		a.noiseCmd(),
		a.runsCmd(),
	)
	return cmd
}

// configure reads bold.yaml and BOLD_* variables, then sets up logging.
func (a *app) configure() error {
	a.v.SetEnvPrefix("BOLD")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "failed to read config file")
		}
	} else {
		a.v.SetConfigName("bold")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if err := a.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return errors.Wrap(err, "failed to read bold.yaml")
			}
		}
	}

	switch format := a.v.GetString("log-format"); format {
	case "json":
		a.log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
	default:
		return errors.Errorf("unknown log format %q", format)
	}

	a.log.SetLevel(log.InfoLevel)
	if a.v.GetBool("verbose") {
		a.log.SetLevel(log.DebugLevel)
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.WithField("file", used).Debug("loaded config")
	}
	return nil
}

// tr returns the validated repetition time.
func (a *app) tr() (float64, error) {
	tr := a.v.GetFloat64("tr")
	if tr <= 0 {
		return 0, errors.Errorf("repetition time must be positive, got %v", tr)
	}
	return tr, nil
}

package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-betterform/internal/config"
	"github.com/goliatone/go-betterform/internal/wizard"
)

// app carries state shared by every subcommand. Tests swap the writers and
// the prompt driver.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	v          *viper.Viper
	prompts    func() wizard.PromptDriver
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:  stdout,
		stderr:  stderr,
		prompts: wizard.NewSurveyDriver,
	}
}

// flagKeys maps flag names onto config keys. Only flags present on the
// running command are bound.
var flagKeys = map[string]string{
	"log-level":   "log.level",
	"addr":        "server.addr",
	"base-url":    "server.base_url",
	"cors-origin": "server.cors_origin",
	"backend":     "store.backend",
	"ttl":         "store.ttl",
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "betterform",
		Short: "Compile form configs into installable shadcn registry bundles",
		Long: `betterform turns a form description (JSON or YAML) into a zod schema,
a react-hook-form component and a shadcn registry item, and can serve those
items from a short-lived registry store.

Configuration is read from .betterform.yml, BETTERFORM_ prefixed environment
variables (BETTERFORM_STORE_BACKEND, BETTERFORM_SERVER_ADDR, ...) and flags,
in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.v = config.New(a.configFile)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./.betterform.yml)")
	root.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newCompileCmd(a),
		newServeCmd(a),
		newInitCmd(a),
		newWatchCmd(a),
	)
	return root
}

// load resolves configuration for cmd, binding whichever of its flags map to
// config keys first.
func (a *app) load(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	if a.v == nil {
		a.v = config.New(a.configFile)
	}
	if err := config.BindFlags(a.v, cmd.Flags(), flagKeys); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := cfg.Logger()
	logger.SetOutput(a.stderr)
	return cfg, logger, nil
}

// Package cmd implements the domprobe command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// globalState is everything a command needs from the process.
type globalState struct {
	stdout io.Writer
	stderr io.Writer
	outTTY bool
	logger *logrus.Logger
	config *viper.Viper
}

func newGlobalState() *globalState {
	logger := &logrus.Logger{
		Out:       os.Stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
	return &globalState{
		stdout: os.Stdout,
		stderr: os.Stderr,
		outTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		logger: logger,
		config: viper.New(),
	}
}

type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command

	configFile string
	verbose    bool
	noColor    bool
	logFormat  string
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs}
	c.cmd = &cobra.Command{
		Use:   "domprobe",
		Short: "Inspect HTML documents through typed DOM bindings",
		Long: `domprobe loads an HTML document into an in-process DOM host, optionally
runs a script against it, and reports the typed state of its HTML elements.

Every flag can also be set with a DOMPROBE_ environment variable
(DOMPROBE_FORMAT=text) or in a domprobe.yaml config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)
	c.cmd.PersistentFlags().AddFlagSet(c.persistentFlagSet())
	c.cmd.AddCommand(getInspectCmd(gs))
	return c
}

func (c *rootCommand) persistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.configFile, "config", "c", "", "config file (default: ./domprobe.yaml or $XDG_CONFIG_HOME/domprobe/domprobe.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&c.logFormat, "log-format", "text", "log output format, text or json")
	return flags
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	if err := loadConfig(c.gs.config, c.configFile, cmd.Flags()); err != nil {
		return err
	}
	return c.setupLogger()
}

func (c *rootCommand) setupLogger() error {
	v := c.gs.config
	if v.GetBool("verbose") {
		c.gs.logger.SetLevel(logrus.DebugLevel)
	}
	noColor := v.GetBool("no-color")
	switch f := v.GetString("log-format"); f {
	case "json":
		c.gs.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		c.gs.logger.SetFormatter(&logrus.TextFormatter{DisableColors: noColor})
	default:
		return fmt.Errorf("unsupported log format %q", f)
	}
	c.gs.logger.SetOutput(c.gs.stderr)
	c.gs.logger.WithField("config", v.ConfigFileUsed()).Debug("configuration loaded")
	return nil
}

// getColor returns a color that prints plainly when colors are off.
func getColor(noColor bool, attrs ...color.Attribute) *color.Color {
	if noColor {
		c := color.New()
		c.DisableColor()
		return c
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	gs := newGlobalState()
	if err := newRootCommand(gs).cmd.Execute(); err != nil {
		gs.logger.Error(err)
		os.Exit(1)
	}
}

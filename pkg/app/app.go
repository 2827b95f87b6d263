// Package app provides the shared scaffolding for DroneHub command-line
// applications: cobra command construction, pflag registration, viper
// config-file binding and signal handling.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skyfleet-io/dronehub/pkg/log"
)

// RunFunc is the application's entry point, invoked after options are
// complete and validated.
type RunFunc func() error

// Options is implemented by an application's aggregated option struct.
type Options interface {
	// AddFlags registers every option group's flags on the flag set.
	AddFlags(fs *pflag.FlagSet)

	// Complete fills in derived or defaulted values.
	Complete() error

	// Validate checks the final option values.
	Validate() error
}

// App encapsulates a runnable command-line application.
type App struct {
	name        string
	short       string
	description string
	options     Options
	runFunc     RunFunc

	cmd *cobra.Command
}

// Option configures an App.
type Option func(*App)

// WithDescription sets the long command description.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithOptions binds the application's option struct to flags and config.
func WithOptions(opts Options) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc sets the application's entry point.
func WithRunFunc(fn RunFunc) Option {
	return func(a *App) {
		a.runFunc = fn
	}
}

// NewApp builds an App with the given name, one-line summary and options.
func NewApp(name, short string, opts ...Option) *App {
	a := &App{
		name:  name,
		short: short,
	}
	for _, o := range opts {
		o(a)
	}
	a.buildCommand()
	return a
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.short,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd)
		},
	}

	if a.options != nil {
		a.options.AddFlags(cmd.Flags())
	}
	cmd.Flags().String("config", "", "Path to an optional YAML configuration file.")

	a.cmd = cmd
}

func (a *App) run(cmd *cobra.Command) error {
	if a.options != nil {
		if err := a.bindConfig(cmd.Flags()); err != nil {
			return err
		}
		if err := a.options.Complete(); err != nil {
			return fmt.Errorf("failed to complete options: %w", err)
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	if a.runFunc != nil {
		return a.runFunc()
	}
	return nil
}

// bindConfig layers an optional config file and environment variables under
// the command-line flags: flags win over env, env wins over file.
func (a *App) bindConfig(fs *pflag.FlagSet) error {
	v := viper.New()

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(strings.ReplaceAll(strings.ToUpper(a.name), "-", "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile, _ := fs.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}

		v.OnConfigChange(func(e fsnotify.Event) {
			// Options are consumed at startup; a change only takes effect on
			// restart, so just surface it.
			log.Info("Config file changed, restart to apply", "file", e.Name)
		})
		v.WatchConfig()
	}

	if err := v.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// Run executes the application and exits the process on error.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", a.name, err)
		os.Exit(1)
	}
}

// Command exposes the underlying cobra command, mainly for tests.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// SetupSignalContext returns a context cancelled on SIGINT or SIGTERM.
// The returned context lives for the rest of the process.
func SetupSignalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

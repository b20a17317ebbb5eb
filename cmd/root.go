// Package cmd implements the boxrender command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chrisuehlinger/boxrender/engine"
	"github.com/chrisuehlinger/boxrender/internal/config"
	"github.com/chrisuehlinger/boxrender/internal/observability"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRootCmd builds the command tree with a fresh configuration.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "boxrender",
		Short:         "Render HTML and CSS to PNG with a CSS2 block layout engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./boxrender.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Int("width", engine.DefaultViewportWidth, "viewport width in pixels")
	flags.Int("height", engine.DefaultViewportHeight, "viewport height in pixels")
	flags.Bool("user-agent-styles", false, "apply the built-in display defaults")
	flags.Bool("embedded-styles", false, "apply <style> elements of the document")
	flags.Bool("inline-styles", false, "apply style attributes")
	flags.Bool("important", false, "apply !important declarations last")

	mustBind(a.v, "logger.level", flags, "log-level")
	mustBind(a.v, "viewport.width", flags, "width")
	mustBind(a.v, "viewport.height", flags, "height")
	mustBind(a.v, "render.user_agent_styles", flags, "user-agent-styles")
	mustBind(a.v, "render.embedded_styles", flags, "embedded-styles")
	mustBind(a.v, "render.inline_styles", flags, "inline-styles")
	mustBind(a.v, "render.important_declarations", flags, "important")

	rootCmd.AddCommand(
		newRenderCmd(a),
		newLayoutCmd(a),
		newBatchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if logger := observability.GetLogger(); logger.Core().Enabled(zapcore.ErrorLevel) {
			logger.Error("Command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		observability.Sync()
		os.Exit(1)
	}
	observability.Sync()
}

func (a *app) initialize(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	observability.Initialize(cfg.Logger, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	a.logger = observability.GetLogger()
	a.logger.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config_file", a.v.ConfigFileUsed()),
		zap.Int("viewport_width", cfg.Viewport.Width),
		zap.Int("viewport_height", cfg.Viewport.Height),
	)
	return nil
}

func (a *app) newEngine() *engine.Engine {
	return engine.New(engine.OptionsFromConfig(a.cfg), a.logger)
}

// mustBind binds a flag to a config key. It only fails for a missing flag.
func mustBind(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// expandPaths expands a leading ~ in each path in place.
func expandPaths(paths ...*string) error {
	for _, p := range paths {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

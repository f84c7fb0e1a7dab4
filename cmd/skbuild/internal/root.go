package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/goplus/skbuild/internal/build"
	"github.com/goplus/skbuild/internal/config"
	"github.com/goplus/skbuild/internal/env"
	"github.com/goplus/skbuild/internal/logging"
	"github.com/goplus/skbuild/internal/toolexec"
)

var (
	configFile string
	baseDir    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "skbuild",
	Short: "skbuild builds Skia static libraries for every platform",
	Long: `skbuild drives Skia's own GN/ninja build for mac, ios, win, linux and wasm,
collects the static libraries, packages headers and optionally produces an
xcframework and a zip archive of all platforms.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "Configuration file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Base directory for sources and outputs (default $"+env.BaseDirEnv+" or ./"+env.DefaultBaseDir+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default $"+logging.LevelEnv+" or info)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, exitMessage(err))
		os.Exit(1)
	}
}

// exitMessage renders err for the terminal. Tool failures end with a line
// naming the command and how it ended.
func exitMessage(err error) string {
	msg := "Error: " + err.Error()
	var te *toolexec.Error
	if !errors.As(err, &te) {
		return msg
	}
	if code := te.ExitCode(); code >= 0 {
		return msg + fmt.Sprintf("\n%s exited with status %d", te.Cmd, code)
	}
	return msg + fmt.Sprintf("\n%s could not be started", te.Cmd)
}

// session is the state shared by every subcommand.
type session struct {
	cfg    *config.Config
	layout build.Layout
	log    hclog.Logger
}

func newSession() (*session, error) {
	level := logging.Level(logLevel)
	if !logging.ValidLevel(level) {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	dir := baseDir
	if dir == "" {
		dir = cfg.BaseDir
	}
	base, err := env.BaseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	return &session{
		cfg:    cfg,
		layout: build.NewLayout(base),
		log:    logging.NewLogger("skbuild", level, os.Stderr),
	}, nil
}

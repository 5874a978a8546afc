package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/npratt/tomato/internal/config"
	"github.com/npratt/tomato/internal/events"
	initcmd "github.com/npratt/tomato/internal/init"
	"github.com/npratt/tomato/internal/shutdown"
	"github.com/npratt/tomato/internal/timer"
	"github.com/npratt/tomato/internal/tui"
)

var version = "dev"

// tuiBufferSize is the event buffer for the interactive UI. A full second of
// ticks is far below it, so drops only happen if rendering stalls.
const tuiBufferSize = 1000

func main() {
	logLevel := &slog.LevelVar{}
	logger := newJSONLogger(os.Stderr, logLevel)

	rootCmd := newRootCmd(viper.New(), logger, logLevel)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags are bound to v, which also reads
// TOMATO_* environment variables.
func newRootCmd(v *viper.Viper, logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	v.SetEnvPrefix("TOMATO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "tomato",
		Short: "A terminal pomodoro timer",
		Long: `tomato is a pomodoro timer for the terminal.

It counts down a work interval, then starts a short break automatically.
Durations can be adjusted while it runs. Without a terminal it falls back to
line output and reads commands (toggle, reset, mode <m>, +, -, quit) on stdin.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}

			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}

			// Determine TUI mode: explicit flag > auto-detect from TTY
			tuiEnabled := v.GetBool(FlagTUI)
			if !cmd.Flags().Changed(FlagTUI) {
				tuiEnabled = tui.IsTerminal()
			}

			return runTimer(cmd.Context(), cfg, tuiEnabled, logger, logLevel)
		},
	}

	// Persistent flags available to all commands
	pf := rootCmd.PersistentFlags()
	pf.Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	pf.String(FlagConfig, "", "Config file path (default: .tomato/config.yaml)")
	pf.String(FlagLogDir, "", "Directory for the TUI debug log (default: $XDG_STATE_HOME/tomato)")
	pf.Int(FlagWork, timer.DefaultWorkMinutes, "Work interval in minutes (1-60)")
	pf.Int(FlagShortRest, timer.DefaultShortRestMinutes, "Short break in minutes (1-30)")
	pf.Int(FlagLongRest, timer.DefaultLongRestMinutes, "Long break in minutes (1-60)")
	pf.String(FlagEventsLog, "", "Append timer events as JSON lines to this file")

	rootCmd.Flags().Bool(FlagTUI, false, "Force the terminal UI on or off (default: auto-detect)")
	rootCmd.Flags().Bool(FlagAltScreen, true, "Use the alternate screen in the terminal UI")
	rootCmd.Flags().Bool(FlagBell, true, "Ring the terminal bell when a countdown completes")
	rootCmd.Flags().Bool(FlagAutoStart, false, "Start the first work interval immediately")

	// Bind all flags to viper
	pf.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tomato %s\n", version)
		},
	}

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the global and project
config files, TOMATO_* environment variables and command-line flags.
Durations are shown clamped to their allowed ranges (work 1-60, short rest
1-30, long rest 1-60).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg, v.GetBool(FlagJSON))
		},
	}
	configCmd.Flags().Bool(FlagJSON, false, "Output as JSON")
	_ = v.BindPFlag(FlagJSON, configCmd.Flags().Lookup(FlagJSON))

	// Events command
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "View recent events from the events log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			if cfg.Paths.EventsLog == "" {
				return errors.New("no events log configured (set paths.events_log or --events-log)")
			}

			out := cmd.OutOrStdout()
			if v.GetBool(FlagFollow) {
				return tailFollow(cmd.Context(), out, cfg.Paths.EventsLog)
			}
			count := v.GetInt(FlagCount)
			if count <= 0 {
				return fmt.Errorf("--%s must be positive, got %d", FlagCount, count)
			}
			return tailLast(out, cfg.Paths.EventsLog, count)
		},
	}
	eventsCmd.Flags().Bool(FlagFollow, false, "Follow event stream (like tail -f)")
	eventsCmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	eventsCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	// Init command
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented starter config file",
		Long: `Write a commented config file holding the default settings.

By default the file goes to .tomato/config.yaml in the current directory.
With --global it goes to $XDG_CONFIG_HOME/tomato/config.yaml
(~/.config/tomato/config.yaml when XDG_CONFIG_HOME is unset).
An existing file with different content is only replaced with --force.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := initcmd.Options{
				DryRun: v.GetBool(FlagDryRun),
				Force:  v.GetBool(FlagForce),
				Global: v.GetBool(FlagGlobal),
				Writer: cmd.OutOrStdout(),
			}

			_, err := initcmd.Run(opts)
			return err
		},
	}
	initCmd.Flags().Bool(FlagDryRun, false, "Show what would be changed without making changes")
	initCmd.Flags().Bool(FlagForce, false, "Overwrite an existing config file that differs")
	initCmd.Flags().Bool(FlagGlobal, false, "Write the per-user config instead of ./.tomato/config.yaml")
	initCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(initCmd)

	return rootCmd
}

// loadConfig loads config files and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadConfig(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Apply CLI flag overrides (only if explicitly set)
	flags := cmd.Flags()
	if flags.Changed(FlagWork) {
		cfg.Durations.Work = v.GetInt(FlagWork)
	}
	if flags.Changed(FlagShortRest) {
		cfg.Durations.ShortRest = v.GetInt(FlagShortRest)
	}
	if flags.Changed(FlagLongRest) {
		cfg.Durations.LongRest = v.GetInt(FlagLongRest)
	}
	if flags.Changed(FlagEventsLog) {
		cfg.Paths.EventsLog = v.GetString(FlagEventsLog)
	}
	if flags.Changed(FlagLogDir) {
		cfg.Paths.LogDir = v.GetString(FlagLogDir)
	}
	if flags.Changed(FlagAltScreen) {
		cfg.UI.AltScreen = v.GetBool(FlagAltScreen)
	}
	if flags.Changed(FlagBell) {
		cfg.UI.Bell = v.GetBool(FlagBell)
	}
	if flags.Changed(FlagAutoStart) {
		cfg.UI.AutoStart = v.GetBool(FlagAutoStart)
	}
	cfg.Durations = cfg.Durations.Clamped()

	return cfg, nil
}

// runTimer wires the controller to the event router, the optional events log
// and the presentation, and blocks until the user quits.
func runTimer(ctx context.Context, cfg *config.Config, tuiEnabled bool, logger *slog.Logger, logLevel slog.Leveler) error {
	router := events.NewRouter(events.DefaultBufferSize)
	defer router.Close()

	// TUI mode: redirect logger to file before creating controller
	ctrlLogger := logger
	if tuiEnabled {
		logDir, err := cfg.Paths.ResolveLogDir()
		if err != nil {
			return fmt.Errorf("resolve log dir: %w", err)
		}
		tuiLog, err := SetupTUILogger(logDir, logLevel, cfg.LogRotation)
		if err != nil {
			return err
		}
		defer func() { _ = tuiLog.Close() }()
		ctrlLogger = tuiLog.Logger
		slog.SetDefault(ctrlLogger)
	}

	if path := cfg.Paths.EventsLog; path != "" {
		sink := events.NewLogSink(path, events.WithSinkLogger(ctrlLogger))
		sinkEvents := router.Subscribe()
		if err := sink.Start(context.WithoutCancel(ctx), sinkEvents); err != nil {
			return fmt.Errorf("start events log: %w", err)
		}
		// Unsubscribing closes the channel, so the sink drains what is
		// buffered before Stop returns.
		defer func() {
			router.Unsubscribe(sinkEvents)
			_ = sink.Stop()
		}()
	}

	ctrl := timer.New(
		timer.WithDurations(cfg.Durations.Minutes()),
		timer.WithEmitter(router),
		timer.WithLogger(ctrlLogger),
	)
	// Stops the tick goroutine on every exit path.
	defer ctrl.Pause()

	ctrlLogger.Info("tomato starting",
		"version", version,
		"tui", tuiEnabled,
		"work", ctrl.Duration(timer.ModeWork),
		"short_rest", ctrl.Duration(timer.ModeShortRest),
		"long_rest", ctrl.Duration(timer.ModeLongRest),
		"events_log", cfg.Paths.EventsLog,
	)

	uiEvents := router.SubscribeBuffered(tuiBufferSize)
	defer router.Unsubscribe(uiEvents)

	ui := tui.New(uiEvents, uiOptions(cfg, ctrl)...)

	if cfg.UI.AutoStart {
		ctrl.Start()
	}

	if tuiEnabled {
		return ui.Run(ctx)
	}

	return shutdown.RunWithGracefulShutdown(ctx, ctrlLogger, shutdown.DefaultTimeout,
		func(ctx context.Context) error {
			return ui.RunPlain(ctx, os.Stdin, os.Stdout)
		},
		func(context.Context) error {
			ctrl.Pause()
			return nil
		},
	)
}

// uiOptions connects the presentation callbacks to ctrl and applies the UI
// settings from cfg.
func uiOptions(cfg *config.Config, ctrl *timer.Controller) []tui.Option {
	opts := []tui.Option{
		tui.WithStateGetter(ctrl),
		tui.WithOnToggle(ctrl.Toggle),
		tui.WithOnStart(ctrl.Start),
		tui.WithOnPause(ctrl.Pause),
		tui.WithOnReset(ctrl.Reset),
		tui.WithOnSwitchMode(ctrl.SwitchMode),
		tui.WithOnChangeDuration(func(m timer.Mode, delta int) {
			ctrl.ChangeDuration(m, delta)
		}),
		tui.WithOnQuit(ctrl.Pause),
		tui.WithAltScreen(cfg.UI.AltScreen),
		tui.WithBannerTimeout(cfg.UI.BannerTimeout),
	}
	for _, m := range timer.Modes {
		opts = append(opts, tui.WithAccent(m, cfg.UI.Accents.For(m)))
	}
	if cfg.UI.Bell {
		opts = append(opts, tui.WithBell(os.Stderr))
	}
	return opts
}

// printConfig writes cfg as YAML, or as indented JSON with the same keys.
func printConfig(w io.Writer, cfg *config.Config, asJSON bool) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if !asJSON {
		_, err = w.Write(data)
		return err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("convert config: %w", err)
	}
	out, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// tailLast prints the last n events from the log file.
func tailLast(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			_, _ = fmt.Fprintln(w, "No events yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open events log: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events log: %w", err)
	}

	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, "No events yet")
		return nil
	}

	start := max(0, len(lines)-max(n, 0))
	for _, line := range lines[start:] {
		printEventLine(w, line)
	}
	return nil
}

// waitForFile waits for a file to be created and returns the opened file.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open file: %w", err)
			}
		}
	}
}

// tailFollow follows the log file and prints new events as they appear.
func tailFollow(ctx context.Context, w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("open events log: %w", err)
		}
		_, _ = fmt.Fprintln(w, "Waiting for events log to be created...")
		file, err = waitForFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	_, _ = fmt.Fprintln(w, "Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	var partial string
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		chunk, err := reader.ReadString('\n')
		partial += chunk
		if err != nil {
			if err == io.EOF {
				// No complete line yet, wait a bit
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return fmt.Errorf("read events log: %w", err)
		}
		printEventLine(w, strings.TrimSuffix(partial, "\n"))
		partial = ""
	}
}

// printEventLine prints a single JSONL event in the same form as the plain
// timer output. Lines that do not parse are printed as-is.
func printEventLine(w io.Writer, line string) {
	event, err := events.ParseEvent([]byte(line))
	if err != nil {
		_, _ = fmt.Fprintln(w, line)
		return
	}
	if event == nil {
		return
	}

	text := tui.Format(event)
	if text == "" {
		text = string(event.Type())
	}
	_, _ = fmt.Fprintf(w, "[%s] %s\n", event.Timestamp().Local().Format("15:04:05"), text)
}

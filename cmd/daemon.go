package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/config"
	"github.com/theirongolddev/rentroll/internal/daemon"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

// runtimeFile records the running daemon: its pid, where it listens and
// which data file it serves. It exists only while the daemon runs.
type runtimeFile struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataFile  string    `json:"data_file"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonStateFile    string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve the rent roll dashboard over HTTP, reloading on data changes",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's process and the dashboard it serves",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.DurationVar(&flagDaemonInterval, "interval", 0, "How often to check the data file (default from config)")
	pf.StringVar(&flagDaemonStateFile, "state-file", filepath.Join(config.DataDir(), "rentrolld.json"), "Runtime state file")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "rentrolld.log"), "Log file when detached")
	pf.IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Events kept in memory (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("--detach and --child are exclusive")
	case flagDaemonDetach:
		return detachDaemon()
	}
	return serveDaemon()
}

// daemonAddr is the --addr flag, else the configured address.
func daemonAddr(cfg config.Config) string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return cfg.Daemon.Addr
}

func detachDaemon() error {
	if err := clearStaleRuntime(flagDaemonStateFile); err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := make([]string, 0, len(os.Args))
	for _, a := range os.Args[1:] {
		if a != "--detach" && !strings.HasPrefix(a, "--detach=") {
			args = append(args, a)
		}
	}
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path is chosen by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-executes the current binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	cfg, _ := config.Load()
	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API:   http://%s/v1/status\n", daemonAddr(cfg))
	fmt.Printf("  State: %s\n", flagDaemonStateFile)
	fmt.Printf("  Log:   %s\n", flagDaemonLogFile)
	return nil
}

func serveDaemon() error {
	if err := clearStaleRuntime(flagDaemonStateFile); err != nil {
		return err
	}
	cfg, conv, err := loadConfig()
	if err != nil {
		return err
	}
	quarter, err := calendar.ParseQuarter(flagQuarter)
	if err != nil {
		return err
	}

	interval := flagDaemonInterval
	if interval == 0 {
		interval = time.Duration(cfg.Daemon.PollSeconds) * time.Second
	}
	buffer := flagDaemonEventsBuffer
	if buffer == 0 {
		buffer = cfg.Daemon.EventsBuffer
	}
	rt := runtimeFile{
		PID:       os.Getpid(),
		Addr:      daemonAddr(cfg),
		StartedAt: time.Now(),
		DataFile:  dataPath(cfg),
	}
	if err := rt.write(flagDaemonStateFile); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonStateFile) }()

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	svc := daemon.New(daemon.Config{
		DataFile:     rt.DataFile,
		Conventions:  conv,
		Year:         flagYear,
		Quarter:      quarter,
		Interval:     interval,
		Addr:         rt.Addr,
		EventsBuffer: buffer,
		Logger:       log,
	})

	fmt.Printf("  rentroll daemon on http://%s, watching %s every %s\n", rt.Addr, rt.DataFile, interval)
	fmt.Println("  Stop with: rentroll daemon stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	rt, err := readRuntime(flagDaemonStateFile)
	if err != nil {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if !processAlive(rt.PID) {
		fmt.Printf("  Daemon: not running (stale state for pid %d)\n", rt.PID)
		return nil
	}
	fmt.Printf("  Daemon PID: %d, up since %s\n", rt.PID, rt.StartedAt.Local().Format(time.DateTime))
	fmt.Printf("  Address: http://%s\n", rt.Addr)

	var st daemon.Status
	resp, err := resty.New().
		SetTimeout(2 * time.Second).
		R().
		SetResult(&st).
		Get("http://" + rt.Addr + "/v1/status")
	switch {
	case err != nil:
		fmt.Printf("  API: unreachable (%v)\n", err)
		return nil
	case resp.IsError():
		fmt.Printf("  API: HTTP %d\n", resp.StatusCode())
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d polls, %d reloads)\n",
			st.LastPollAt.Local().Format(time.DateTime), st.PollCount, st.LoadCount)
	}
	fmt.Printf("  Data file: %s\n", st.DataFile)
	fmt.Printf("  Period: %d %s\n", st.Year, st.Quarter)
	fmt.Printf("  Tenants: %d, occupancy %s\n", st.Summary.Tenants, cli.FormatPercent(st.Summary.OccupancyRate))
	fmt.Printf("  Receivable: %s (%s collected)\n",
		cli.FormatMoney(st.Summary.PeriodRevenueTarget), cli.FormatMoney(st.Summary.PeriodRevenueCollected))
	for _, issue := range st.Issues {
		fmt.Println(cli.RenderWarning(issue))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	rt, err := readRuntime(flagDaemonStateFile)
	if err != nil {
		return errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return fmt.Errorf("find daemon: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}

	for deadline := time.Now().Add(8 * time.Second); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !processAlive(rt.PID) {
			_ = os.Remove(flagDaemonStateFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", rt.PID)
			return nil
		}
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
}

// clearStaleRuntime fails when a live daemon owns path and removes the
// file left by one that died.
func clearStaleRuntime(path string) error {
	rt, err := readRuntime(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err == nil && processAlive(rt.PID):
		return fmt.Errorf("daemon already running (pid %d on %s)", rt.PID, rt.Addr)
	}
	_ = os.Remove(path)
	return nil
}

func (rt runtimeFile) write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readRuntime(path string) (runtimeFile, error) {
	var rt runtimeFile
	data, err := os.ReadFile(path) //nolint:gosec // state path is chosen by the local user
	if err != nil {
		return rt, err
	}
	if err := json.Unmarshal(data, &rt); err != nil {
		return rt, fmt.Errorf("parse %s: %w", path, err)
	}
	if rt.PID <= 0 {
		return rt, fmt.Errorf("invalid pid in %s", path)
	}
	return rt, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// Command raffle draws and verifies nonce + seed weighted raffles.
//
//	raffle draw     [flags]   draw winners with a fresh nonce
//	raffle verify   [flags]   recompute winners from a recorded base seed and nonce
//	raffle simulate [flags]   repeat the draw and print win frequencies
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/kydenul/raffle"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usage = `Usage: raffle <command> [flags]

Commands:
  draw       draw winners with a fresh nonce
  verify     recompute the winners of a recorded draw
  simulate   repeat the draw and print win frequencies

Run 'raffle <command> --help' for the flags of a command.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one command; stdout receives only reports
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// .env is optional
	_ = godotenv.Load()

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &command{name: args[0], stdin: stdin, stdout: stdout, stderr: stderr}
	switch cmd.name {
	case "draw":
		return cmd.execute(ctx, args[1:], cmd.draw)
	case "verify":
		return cmd.execute(ctx, args[1:], cmd.verify)
	case "simulate":
		return cmd.execute(ctx, args[1:], cmd.simulate)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd.name, usage)
		return exitUsage
	}
}

type command struct {
	name   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flags  *pflag.FlagSet
	config *raffle.Config
	logger raffle.Logger
}

func (c *command) newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)

	fs.String("config", "", "config file (default: raffle.yaml in ., ./config, /etc/raffle, $HOME/.raffle)")
	fs.StringP("participants", "p", raffle.DefaultParticipantsFile, "participants file (.json or .yaml)")
	fs.StringP("base-seed", "s", raffle.DefaultBaseSeed, "base seed")
	fs.IntP("winners", "n", raffle.DefaultWinnerCount, "number of winners")
	fs.String("algorithm", string(raffle.DefaultAlgorithm), "random generator protocol (mt19937, chacha8)")
	fs.String("name", raffle.DefaultRaffleName, "raffle name, used as the draw lock key")
	fs.Int("nonce-bytes", raffle.DefaultNonceBytes, "random bytes per nonce")
	fs.Bool("guard-source", false, "fail the draw if the participants file changes while drawing")
	fs.String("log-level", "info", "diagnostic log level (debug, info, warn, error)")
	fs.Bool("lock", false, "hold a Redis lock on the raffle name while drawing")
	fs.String("redis-addr", raffle.DefaultRedisAddr, "Redis address for the draw lock")
	fs.Bool("json", false, "write the report as JSON")

	switch c.name {
	case "verify":
		fs.String("nonce", "", "nonce of the draw being verified")
		fs.String("expect", "", "announced winners, comma separated, to compare against")
	case "simulate":
		fs.Int("trials", raffle.DefaultSimulationTrials, "number of simulated draws")
	}
	return fs
}

func (c *command) execute(ctx context.Context, args []string, fn func(context.Context) error) int {
	c.flags = c.newFlagSet()
	if err := c.flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if c.flags.NArg() > 0 {
		fmt.Fprintf(c.stderr, "unexpected arguments: %s\n", strings.Join(c.flags.Args(), " "))
		return exitUsage
	}

	if err := c.loadConfig(); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitError
	}

	if err := fn(ctx); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

func (c *command) loadConfig() error {
	cm := raffle.NewConfigManager()
	configFile, _ := c.flags.GetString("config")
	cm.SetConfigFile(configFile)
	if err := cm.BindFlags(c.flags); err != nil {
		return err
	}

	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}
	c.config = config

	level, _ := raffle.ParseLogLevel(config.Log.Level)
	c.logger = raffle.NewDefaultLogger(c.stderr, level)
	if used := cm.ConfigFileUsed(); used != "" {
		c.logger.Debug("Using config file %s", used)
	}
	return nil
}

func (c *command) newRaffle() (*raffle.Raffle, func(), error) {
	opts := []raffle.Option{raffle.WithLogger(c.logger)}
	cleanup := func() {}

	if c.config.Lock != nil && c.config.Lock.Enabled {
		client := raffle.NewRedisClientFromConfig(c.config.Redis)
		locker := raffle.NewRedisLocker(client, c.config.Lock, c.config.CircuitBreaker, c.logger)
		opts = append(opts, raffle.WithLocker(locker))
		cleanup = func() { _ = client.Close() }
	}

	r, err := raffle.New(c.config.Raffle, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return r, cleanup, nil
}

func (c *command) asJSON() bool {
	v, _ := c.flags.GetBool("json")
	return v
}

func (c *command) draw(ctx context.Context) error {
	r, cleanup, err := c.newRaffle()
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := r.DrawFile(ctx, "")
	if err != nil {
		return err
	}

	if c.asJSON() {
		return raffle.WriteJSON(c.stdout, report)
	}
	return raffle.WriteDrawReport(c.stdout, report)
}

func (c *command) verify(ctx context.Context) error {
	r, cleanup, err := c.newRaffle()
	if err != nil {
		return err
	}
	defer cleanup()

	weights, err := raffle.LoadParticipants(c.config.Raffle.ParticipantsFile)
	if err != nil {
		return err
	}

	req, err := c.verifyRequest(weights)
	if err != nil {
		return err
	}

	report, err := r.Verify(ctx, weights, req)
	if err != nil {
		return err
	}

	if c.asJSON() {
		return raffle.WriteJSON(c.stdout, report)
	}
	return raffle.WriteVerifyReport(c.stdout, report)
}

// verifyRequest takes each value from its flag, or asks for it when the flag
// was not given
func (c *command) verifyRequest(weights *raffle.ParticipantWeights) (raffle.VerifyRequest, error) {
	var req raffle.VerifyRequest
	prompter := raffle.NewPrompter(c.stdin, c.stderr)

	var err error
	if c.flags.Changed("base-seed") {
		req.BaseSeed, _ = c.flags.GetString("base-seed")
	} else if req.BaseSeed, err = prompter.AskText("Enter the EXACT Base Seed used for the draw: "); err != nil {
		return req, err
	}

	if c.flags.Changed("nonce") {
		req.Nonce, _ = c.flags.GetString("nonce")
	} else if req.Nonce, err = prompter.AskString("Enter the EXACT Nonce generated for the draw: "); err != nil {
		return req, err
	}

	if c.flags.Changed("winners") {
		req.Winners, _ = c.flags.GetInt("winners")
		if err := raffle.ValidateWinnerCount(req.Winners); err != nil {
			return req, err
		}
	} else {
		unique := 0
		if pool, _, err := raffle.BuildEntryPool(weights, raffle.NewSilentLogger()); err == nil {
			unique = pool.UniqueCount()
		}
		if req.Winners, err = prompter.AskWinnerCount(unique); err != nil {
			return req, err
		}
	}

	if c.flags.Changed("expect") {
		expect, _ := c.flags.GetString("expect")
		req.Expected = splitList(expect)
	}
	return req, nil
}

func (c *command) simulate(ctx context.Context) error {
	r, cleanup, err := c.newRaffle()
	if err != nil {
		return err
	}
	defer cleanup()

	trials, _ := c.flags.GetInt("trials")
	if err := raffle.ValidateTrials(trials); err != nil {
		return err
	}

	weights, err := raffle.LoadParticipants(c.config.Raffle.ParticipantsFile)
	if err != nil {
		return err
	}

	result, err := r.Simulate(ctx, weights, trials)
	if err != nil {
		return err
	}

	if c.asJSON() {
		return raffle.WriteJSON(c.stdout, result)
	}
	return raffle.WriteSimulationReport(c.stdout, result)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

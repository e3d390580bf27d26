package slurm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	back "github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/five82/sqmon/internal/snapshot"
)

var (
	// ErrSourceUnavailable is returned when squeue cannot be run or its
	// output cannot be decoded.
	ErrSourceUnavailable = errors.New("squeue unavailable")
	// ErrStartupIncompatible is returned when the installed Slurm cannot
	// produce JSON output.
	ErrStartupIncompatible = errors.New("incompatible slurm")
)

const (
	defaultBinary  = "squeue"
	defaultTimeout = 10 * time.Second
	retryInterval  = 250 * time.Millisecond
	retryMax       = 2 * time.Second
)

// Runner executes a command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options configures a Client.
type Options struct {
	Binary  string
	Timeout time.Duration
	Retries int
	Runner  Runner
	Logger  *log.Entry
}

// Client runs squeue and decodes its JSON output.
type Client struct {
	binary        string
	timeout       time.Duration
	retries       int
	run           Runner
	log           *log.Entry
	retryInterval time.Duration
}

// NewClient builds a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		binary:        strings.TrimSpace(opts.Binary),
		timeout:       opts.Timeout,
		retries:       opts.Retries,
		run:           opts.Runner,
		log:           opts.Logger,
		retryInterval: retryInterval,
	}
	if c.binary == "" {
		c.binary = defaultBinary
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.retries < 0 {
		c.retries = 0
	}
	if c.run == nil {
		c.run = execRunner
	}
	if c.log == nil {
		c.log = log.WithField("component", "slurm")
	}
	return c
}

// Binary returns the squeue executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// Query runs squeue --json and returns one record per job holding only the
// requested columns.
func (c *Client) Query(ctx context.Context, columns []string) ([]snapshot.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	out, err := c.output(ctx, "--json")
	if err != nil {
		return nil, err
	}
	records, err := decodeJobs(bytes.NewReader(out), columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

// output runs the binary with args, retrying failed attempts with
// exponential backoff. Each attempt gets its own timeout.
func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	var out []byte
	attempt := func() error {
		actx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		b, err := c.run(actx, c.binary, args...)
		if err != nil {
			if ctx.Err() != nil {
				return back.Permanent(err)
			}
			if errors.Is(actx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timed out after %s: %w", c.timeout, err)
			}
			return err
		}
		out = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.log.WithError(err).WithField("retry_in", wait).Warn("squeue failed, retrying")
	}
	if err := back.RetryNotify(attempt, c.backoff(ctx), notify); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrSourceUnavailable, c.binary, strings.Join(args, " "), err)
	}
	return out, nil
}

func (c *Client) backoff(ctx context.Context) back.BackOff {
	bf := back.NewExponentialBackOff()
	bf.InitialInterval = c.retryInterval
	bf.MaxInterval = retryMax
	return back.WithContext(back.WithMaxRetries(bf, uint64(c.retries)), ctx)
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Package cli implements the phase-sequencing core shared by every lox
// subcommand (tokenize, parse, resolve, run, repl). It stays framework
// agnostic: cmd/lox wraps it in a cobra.Command tree for argument parsing
// and help text, but Cmd.Main can be driven directly without going through
// cobra at all.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

const binName = "lox"

// Log is the package-wide tracer for CLI/REPL lifecycle events (startup,
// shutdown, each REPL line). It is never used to report compile or runtime
// errors, which always go through Stdio.Stderr in their own required
// format; Log is strictly for -v debug tracing.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Level = logrus.WarnLevel
	l.Formatter = &easy.Formatter{
		TimestampFormat: "15:04:05",
		LogFormat:       "[%lvl%] %time% %msg%\n",
	}
	return l
}

// Cmd is the mainer.Cmd-shaped core: it owns flag state and dispatches to
// one of its own methods by subcommand name, covering the
// tokenize/parse/resolve/run/repl pipeline.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Verbose bool `flag:"verbose"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if (cmdName == "tokenize" || cmdName == "parse" || cmdName == "resolve" || cmdName == "run") && len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}
	return nil
}

// Main parses args (env vars included, via mainer's caarlos0/env/v6-backed
// Parser), applies the -v flag to Log, and dispatches to the named
// subcommand. args[0] must be the subcommand name; cobra's RunE callbacks
// build this slice from the matched cobra.Command plus its positional args.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n", err)
		return mainer.InvalidArgs
	}
	if c.Verbose {
		Log.SetLevel(logrus.DebugLevel)
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	Log.WithField("command", c.args[0]).Debug("starting command")
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		Log.WithError(err).Debug("command failed")
		if ec, ok := err.(exitCoder); ok {
			return ec.ExitCode()
		}
		return mainer.Failure
	}
	Log.Debug("command completed")
	return mainer.Success
}

// exitCoder lets a subcommand report a specific process exit code (65, 70)
// instead of the generic mainer.Failure.
type exitCoder interface {
	error
	ExitCode() mainer.ExitCode
}

// buildCmds reflects over v's methods to find every one shaped like a
// subcommand handler (ctx, mainer.Stdio, []string) error, keyed by its
// lowercased method name, so adding a Cmd method is enough to wire in a
// new subcommand.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}

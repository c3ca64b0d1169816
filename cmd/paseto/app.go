package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kochabx/paseto/config"
	"github.com/kochabx/paseto/core/paseto"
	"github.com/kochabx/paseto/log"
)

var errUsage = errors.New("usage")

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// app holds the parsed flags and the loaded configuration of one invocation.
type app struct {
	env
	cfg  *Config
	args []string

	configPath string
	version    string
	keyPath    string
	footer     string
	useFooter  bool

	message     string
	purpose     string
	dir         string
	concurrency int
	addr        string
	subject     string
	data        string
}

type command struct {
	name    string
	summary string
	flags   func(a *app, fs *pflag.FlagSet)
	run     func(ctx context.Context, a *app) error
}

func commands() []command {
	return []command{
		{"keygen", "generate a key (or key pair) for --purpose", keygenFlags, runKeygen},
		{"auth", "authenticate a message with a local auth key", messageFlags, runAuth},
		{"auth-verify", "verify an auth token and print its message", verifyFlags, runAuthVerify},
		{"encrypt", "encrypt a message with a local enc key", messageFlags, runEncrypt},
		{"decrypt", "decrypt an enc token and print its message", verifyFlags, runDecrypt},
		{"sign", "sign a message with a secret key", messageFlags, runSign},
		{"sign-verify", "verify a sign token with a public key", verifyFlags, runSignVerify},
		{"seal", "seal a message to a public key", messageFlags, runSeal},
		{"unseal", "unseal a seal token with a secret key", verifyFlags, runUnseal},
		{"footer", "print the unverified footer of a token", nil, runFooter},
		{"batch-verify", "verify tokens read line by line from stdin", batchFlags, runBatchVerify},
		{"issue", "issue a bearer token for --subject", issueFlags, runIssue},
		{"serve", "serve token introspection over HTTP", serveFlags, runServe},
	}
}

func run(ctx context.Context, args []string, e env) error {
	if len(args) == 0 {
		usage(e.stderr)
		return errUsage
	}

	cmds := commands()
	i := slices.IndexFunc(cmds, func(c command) bool { return c.name == args[0] })
	if i < 0 {
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			usage(e.stdout)
			return nil
		}
		fmt.Fprintf(e.stderr, "unknown command %q\n", args[0])
		usage(e.stderr)
		return errUsage
	}
	cmd := cmds[i]

	a := &app{env: e}
	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.StringVarP(&a.configPath, "config", "c", "", "configuration file (default ./"+config.DefaultFilename+" when present)")
	fs.StringVarP(&a.version, "version", "v", "", "protocol version v1, v2 or v3 (default: the key's version)")
	fs.StringVarP(&a.keyPath, "key", "k", "", "key file (default: the matching file from the configuration)")
	if cmd.flags != nil {
		cmd.flags(a, fs)
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	a.args = fs.Args()

	if err := a.loadConfig(fs); err != nil {
		return err
	}
	return cmd.run(ctx, a)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: paseto <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-13s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'paseto <command> -h' for the flags of a command.")
}

func (a *app) loadConfig(fs *pflag.FlagSet) error {
	a.cfg = &Config{}

	path, optional := a.configPath, false
	if path == "" {
		path, optional = config.DefaultFilename, true
	}
	c := config.New(a.cfg, config.WithFile(path, optional))
	if err := c.Load(); err != nil {
		return err
	}

	if fs.Changed("version") {
		v, err := paseto.ParseVersion(a.version)
		if err != nil {
			return err
		}
		a.cfg.Version = v
		a.cfg.Token.Version = v
	}

	if err := log.Init(a.cfg.Log); err != nil {
		return err
	}
	log.Debug().Str("source", c.Source()).Str("version", a.cfg.Version.String()).Msg("configuration loaded")
	return nil
}

// protocol picks the protocol named by --version, or the one the key is bound to.
func (a *app) protocol(keyVersion paseto.Version) (paseto.Protocol, error) {
	if a.version != "" {
		return paseto.ProtocolFor(a.cfg.Version)
	}
	return paseto.ProtocolFor(keyVersion)
}

func (a *app) key(configured string) string {
	if a.keyPath != "" {
		return a.keyPath
	}
	return configured
}

// input returns --message, or everything on stdin.
func (a *app) input() ([]byte, error) {
	if a.message != "" {
		return []byte(a.message), nil
	}
	return io.ReadAll(a.stdin)
}

// token returns the first argument, or the first line on stdin.
func (a *app) token() (string, error) {
	if len(a.args) > 0 {
		return a.args[0], nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if t := strings.TrimSpace(line); t != "" {
		return t, nil
	}
	return "", fmt.Errorf("%w: no token given", errUsage)
}

// footerFor returns --footer, or the token's own footer with --use-footer.
func (a *app) footerFor(token string) ([]byte, error) {
	if a.useFooter {
		return paseto.ExtractFooter(token)
	}
	return []byte(a.footer), nil
}

func footerFlag(a *app, fs *pflag.FlagSet) {
	fs.StringVarP(&a.footer, "footer", "f", "", "footer bound to the token")
}

func messageFlags(a *app, fs *pflag.FlagSet) {
	footerFlag(a, fs)
	fs.StringVarP(&a.message, "message", "m", "", "message (default: read stdin)")
}

func verifyFlags(a *app, fs *pflag.FlagSet) {
	footerFlag(a, fs)
	fs.BoolVar(&a.useFooter, "use-footer", false, "accept the footer carried by the token")
}

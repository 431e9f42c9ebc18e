package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/auth"
	"github.com/aussiebroadwan/clubhouse/internal/nav"
	"github.com/aussiebroadwan/clubhouse/internal/remote"
	"github.com/aussiebroadwan/clubhouse/pkg/clubsdk"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

const usage = `usage: clubctl [flags] <command>

commands:
  login password <email>   sign in as an administrator (password read from stdin)
  login code <code>        sign in as a coach with an access code
  login phone <phone>      sign in as a parent (password read from stdin)
  onboard                  parent sign-up or sign-in by phone, interactively
  whoami                   restore the saved session and show who is signed in
  logout                   sign out and forget the saved session

flags:
`

type cli struct {
	sessions   *auth.Sessions
	gateway    *auth.Gateway
	onboarding *auth.Onboarding

	in  *bufio.Scanner
	out io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("clubctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	server := fs.String("server", envOr("CLUBCTL_SERVER", "http://localhost:8080"), "club store base URL")
	keychainPath := fs.String("keychain", envOr("CLUBCTL_KEYCHAIN", defaultKeychainPath()), "file holding the saved session")
	reverify := fs.Bool("reverify-team", envBool("CLUBCTL_REVERIFY_TEAM"), "ask known parents for their team code before their password")
	logLevel := fs.String("log-level", envOr("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	logger := slogx.New(slogx.Config{
		Service: "clubctl",
		Level:   *logLevel,
		Format:  "text",
		Output:  stderr,
	})
	ctx = slogx.WithContext(ctx, logger)

	client := clubsdk.NewClient(*server)
	deviceID, err := remote.LoadOrCreateDeviceID(filepath.Join(filepath.Dir(*keychainPath), "device-id"))
	if err != nil {
		logger.Warn("using a one-off device id", slog.Any("error", err))
	} else {
		client.DeviceID = deviceID
	}
	backend := remote.NewBackend(client)
	sessions := auth.NewSessions(backend, remote.FileKeychain{Path: *keychainPath})
	client.OnSessionExpired = sessions.Invalidate
	gateway := auth.NewGateway(backend, sessions)
	onboarding := auth.NewOnboarding(backend, gateway)
	onboarding.ParentTeamReverify = *reverify

	c := &cli{
		sessions:   sessions,
		gateway:    gateway,
		onboarding: onboarding,
		in:         bufio.NewScanner(stdin),
		out:        stdout,
	}

	if err := c.dispatch(ctx, fs.Args()); err != nil {
		fmt.Fprintln(stderr, "clubctl:", describe(err))
		return 1
	}
	return 0
}

func (c *cli) dispatch(ctx context.Context, args []string) error {
	// Every command starts from the saved session. A failed restore leaves
	// us signed out, which every command can work with.
	if err := c.sessions.Restore(ctx); err != nil {
		slogx.FromContext(ctx).Warn("session restore failed", slog.Any("error", err))
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errors.New("login needs a method and an identifier")
		}
		return c.login(ctx, args[1], args[2])
	case "onboard":
		return c.onboard(ctx)
	case "whoami":
		return c.whoami()
	case "logout":
		c.sessions.SignOut(ctx)
		fmt.Fprintln(c.out, "signed out")
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (c *cli) login(ctx context.Context, method, id string) error {
	var (
		p   auth.Principal
		err error
	)

	switch method {
	case "password":
		var pw string
		if pw, err = c.prompt("Password: "); err != nil {
			return err
		}
		p, err = c.gateway.LoginWithPassword(ctx, id, pw)
	case "code":
		p, err = c.gateway.LoginWithAccessCode(ctx, id)
	case "phone":
		var pw string
		if pw, err = c.prompt("Password: "); err != nil {
			return err
		}
		p, err = c.gateway.LoginWithPhoneAndPassword(ctx, id, pw)
	default:
		return fmt.Errorf("unknown login method %q", method)
	}
	if err != nil {
		return err
	}

	c.printPrincipal(p)
	return nil
}

func (c *cli) onboard(ctx context.Context) error {
	f := c.onboarding.Start()

	for !f.Done() {
		next, err := c.step(ctx, f)
		if err != nil {
			var ae *auth.Error
			if !errors.As(err, &ae) || ae.Kind == auth.KindState || ae.Kind == auth.KindInternal {
				return err
			}
			// Recoverable: say why and ask again at whatever step we are on.
			fmt.Fprintln(c.out, describe(err))
		}
		f = next
	}

	if f.Step() == auth.StepAbandoned {
		fmt.Fprintln(c.out, "onboarding abandoned")
		return nil
	}
	return c.whoami()
}

// step prompts for the input f needs and submits it. An empty answer goes
// back a step.
func (c *cli) step(ctx context.Context, f auth.Flow) (auth.Flow, error) {
	switch f.Step() {
	case auth.StepPhoneEntry:
		phone, err := c.promptDefault("Phone number", f.Draft().Phone)
		if err != nil || phone == "" {
			return f.Back(), err
		}
		return c.onboarding.SubmitPhone(ctx, f, phone)

	case auth.StepTeamCodeCheck:
		code, err := c.prompt("Team code (blank to go back): ")
		if err != nil || code == "" {
			return f.Back(), err
		}
		return c.onboarding.SubmitTeamCode(ctx, f, code)

	case auth.StepSetup:
		d := f.Draft()
		first, err := c.promptDefault("First name", d.FirstName)
		if err != nil || first == "" {
			return f.Back(), err
		}
		var form auth.SetupForm
		form.FirstName = first
		if form.LastName, err = c.promptDefault("Last name", d.LastName); err != nil {
			return f, err
		}
		if form.Password, err = c.prompt("Choose a password: "); err != nil {
			return f, err
		}
		if form.ConfirmPassword, err = c.prompt("Confirm password: "); err != nil {
			return f, err
		}
		next, _, err := c.onboarding.SubmitSetup(ctx, f, form)
		return next, err

	case auth.StepPasswordEntry:
		pw, err := c.prompt("Password (blank to go back): ")
		if err != nil || pw == "" {
			return f.Back(), err
		}
		next, _, err := c.onboarding.SubmitPassword(ctx, f, pw)
		return next, err
	}
	return f, fmt.Errorf("unexpected onboarding step %s", f.Step())
}

func (c *cli) whoami() error {
	p, ok := c.sessions.State().Principal()
	if !ok {
		fmt.Fprintln(c.out, "not signed in")
		return nil
	}
	c.printPrincipal(p)
	return nil
}

func (c *cli) printPrincipal(p auth.Principal) {
	fmt.Fprintf(c.out, "signed in as %s (%s, id %s)\n", p.Name, p.Role, p.ID)
	g := nav.Select(c.sessions.State())
	fmt.Fprintf(c.out, "screens: %s\n", joinScreens(g.Tabs()))
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

func (c *cli) promptDefault(label, def string) (string, error) {
	if def == "" {
		return c.prompt(label + ": ")
	}
	v, err := c.prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return v, nil
}

// describe renders core errors by their message and keeps the cause for
// transport failures.
func describe(err error) string {
	var ae *auth.Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	if ae.Kind == auth.KindTransport && ae.Err != nil {
		return ae.Message + " (" + ae.Err.Error() + ")"
	}
	return ae.Message
}

func joinScreens(screens []nav.Screen) string {
	parts := make([]string, len(screens))
	for i, s := range screens {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func defaultKeychainPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clubctl-session.json"
	}
	return filepath.Join(dir, "clubctl", "session.json")
}

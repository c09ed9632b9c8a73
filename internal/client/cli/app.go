// Package cli implements the showcase-submit commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"showcase/internal/client/api"
	"showcase/internal/client/detect"
	"showcase/internal/client/session"
)

const Name = "showcase-submit"

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var ErrNotLoggedIn = errors.New("Not logged in. Run: " + Name + " login")

// UsageError reports a malformed command line.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return "usage: " + Name + " " + e.Usage }

type App struct {
	store   *session.Store
	client  *api.Client
	workDir string
	stdinFd int
	out     io.Writer
}

func NewApp(store *session.Store, client *api.Client, workDir string, out io.Writer) *App {
	return &App{
		store:   store,
		client:  client,
		workDir: workDir,
		stdinFd: int(os.Stdin.Fd()),
		out:     out,
	}
}

// Run executes one command. args excludes the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.help()
		return nil
	}

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "register":
		return a.register(ctx, args[1:])
	case "submit":
		return a.submit(ctx, args[1:])
	case "detect":
		return a.detect()
	case "logout":
		return a.logout()
	case "whoami":
		a.whoami()
		return nil
	case "help", "-h", "--help":
		a.help()
		return nil
	}
	return fmt.Errorf("unknown command %q, run: %s help", args[0], Name)
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return &UsageError{Usage: "login <email> [password]"}
	}
	password, err := a.passwordArg(args, 1)
	if err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, args[0], password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := a.remember(resp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Username)
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return &UsageError{Usage: "register <username> <email> [password] [github_username]"}
	}
	password, err := a.passwordArg(args, 2)
	if err != nil {
		return err
	}
	var github string
	if len(args) == 4 {
		github = args[3]
	}

	resp, err := a.client.Register(ctx, args[0], args[1], password, github)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if err := a.remember(resp); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", resp.User.Username)
	return nil
}

func (a *App) remember(resp *api.AuthResponse) error {
	user := resp.User
	return a.store.Save(session.Session{Token: resp.Token, User: &user})
}

// passwordArg returns args[i], or prompts without echo when it is missing and
// stdin is a terminal.
func (a *App) passwordArg(args []string, i int) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	if !isTerminal(a.stdinFd) {
		return "", errors.New("password is required")
	}
	fmt.Fprint(a.out, "Password: ")
	pw, err := readPassword(a.stdinFd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return "", errors.New("password is required")
	}
	return string(pw), nil
}

type submitFlags struct {
	fs          *flag.FlagSet
	title       string
	description string
	githubURL   string
	demoURL     string
	tags        string
	category    string
	auto        bool
}

func parseSubmitFlags(args []string) (*submitFlags, error) {
	f := &submitFlags{fs: flag.NewFlagSet("submit", flag.ContinueOnError)}
	f.fs.SetOutput(io.Discard)
	f.fs.StringVar(&f.title, "title", "", "project title")
	f.fs.StringVar(&f.description, "description", "", "project description")
	f.fs.StringVar(&f.githubURL, "github-url", "", "repository URL")
	f.fs.StringVar(&f.demoURL, "demo-url", "", "live demo URL")
	f.fs.StringVar(&f.tags, "tags", "", "comma-separated tags")
	f.fs.StringVar(&f.category, "category", "", "tools, automation, web-apps, apis or experiments")
	f.fs.BoolVar(&f.auto, "auto", false, "use detected project info")
	if err := f.fs.Parse(args); err != nil {
		return nil, &UsageError{Usage: "submit [--title T] [--description D] [--github-url U] [--demo-url U] [--tags a,b] [--category C] [--auto]"}
	}
	return f, nil
}

func (a *App) submit(ctx context.Context, args []string) error {
	sess := a.store.Load()
	if !sess.LoggedIn() {
		return ErrNotLoggedIn
	}

	flags, err := parseSubmitFlags(args)
	if err != nil {
		return err
	}

	var p api.ProjectSubmission
	if flags.auto || flags.fs.NFlag() == 0 {
		info := detect.Detect(a.workDir)
		p = api.ProjectSubmission{
			Title:       info.Title,
			Description: info.Description,
			GithubURL:   info.GithubURL,
			Tags:        strings.Join(info.Tags, ","),
			Category:    info.Category,
		}
	}
	// Flags given explicitly win over detected values.
	flags.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			p.Title = flags.title
		case "description":
			p.Description = flags.description
		case "github-url":
			p.GithubURL = flags.githubURL
		case "demo-url":
			p.DemoURL = flags.demoURL
		case "tags":
			p.Tags = flags.tags
		case "category":
			p.Category = flags.category
		}
	})

	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		return &UsageError{Usage: "submit --title T --description D (or --auto to detect them from the current directory)"}
	}
	p.CreatorName = sess.User.Username

	resp, err := a.client.SubmitProject(ctx, sess.Token, p)
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}
	fmt.Fprintf(a.out, "Project %q submitted successfully!\n", p.Title)
	fmt.Fprintf(a.out, "Project ID: %d\n", resp.ProjectID)
	return nil
}

func (a *App) detect() error {
	data, err := json.MarshalIndent(detect.Detect(a.workDir), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Detected project info:")
	fmt.Fprintln(a.out, string(data))
	return nil
}

func (a *App) logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) whoami() {
	sess := a.store.Load()
	if !sess.LoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	fmt.Fprintf(a.out, "Logged in as: %s (%s)\n", sess.User.Username, sess.User.Email)
}

func (a *App) help() {
	fmt.Fprint(a.out, `Submit your projects to the showcase.

Usage:
  `+Name+` <command> [options]

Commands:
  login <email> [password]                               Log in to your account
  register <username> <email> [password] [github_user]  Create an account
  submit [options]                                       Submit the current project
  detect                                                 Show detected project info
  logout                                                 Forget the stored session
  whoami                                                 Show the current user
  help                                                   Show this help

Submit options:
  --title <title>              Project title
  --description <text>         Project description
  --github-url <url>           Repository URL
  --demo-url <url>             Live demo URL
  --tags <a,b,c>               Comma-separated tags
  --category <category>        tools, automation, web-apps, apis, experiments
  --auto                       Fill missing fields from the current directory

Omitted passwords are prompted for. Set `+api.BaseURLEnv+` to target another server
and `+session.PathEnv+` to move the session file.
`)
}

// Command todoctl is a terminal front end for the todo-app backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/todo-app/pkg/client"
)

const sessionFileName = "session"

func main() {
	baseURL := flag.String("url", "", "Backend base URL (default "+client.DefaultBaseURL+")")
	timeout := flag.Duration("timeout", 0, "Request timeout")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	c := client.New(
		client.Config{BaseURL: *baseURL, Timeout: *timeout},
		client.WithSessionHandler(&terminalSession{}),
	)
	if token, err := loadSession(); err == nil && token != "" {
		c.SetSessionToken(token)
	}

	ctx := context.Background()
	if err := run(ctx, c, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string) error {
	switch command {
	case "signup":
		return cmdSignup(ctx, c, args)
	case "login":
		return cmdLogin(ctx, c, args)
	case "logout":
		return cmdLogout(ctx, c)
	case "list":
		return cmdList(ctx, c)
	case "get":
		return cmdGet(ctx, c, args)
	case "add":
		return cmdAdd(ctx, c, args)
	case "edit":
		return cmdEdit(ctx, c, args)
	case "done":
		return cmdToggle(ctx, c, args, true)
	case "undone":
		return cmdToggle(ctx, c, args, false)
	case "rm":
		return cmdRemove(ctx, c, args)
	case "history":
		return cmdHistory(ctx, c, args)
	case "stats":
		return cmdStats(ctx, c)
	case "health":
		return cmdHealth(ctx, c)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdSignup(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: todoctl signup <email> <password>")
	}
	if err := c.Signup(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("Account created. Log in with: todoctl login", args[0], "<password>")
	return nil
}

func cmdLogin(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: todoctl login <email> <password>")
	}
	result, err := c.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := saveSession(c.SessionToken()); err != nil {
		return fmt.Errorf("logged in, but could not save session: %w", err)
	}
	fmt.Printf("Logged in as %s\n", result.Email)
	return nil
}

func cmdLogout(ctx context.Context, c *client.Client) error {
	if err := c.Logout(ctx); err != nil {
		return err
	}
	if err := clearSession(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func cmdList(ctx context.Context, c *client.Client) error {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks. Add one with: todoctl add \"title\"")
		return nil
	}
	for _, t := range tasks {
		printTask(&t)
	}
	return nil
}

func cmdGet(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todoctl get <id>")
	}
	t, err := c.GetTask(ctx, args[0])
	if err != nil {
		return err
	}
	printTask(t)
	if t.Description != nil {
		fmt.Printf("    %s\n", *t.Description)
	}
	fmt.Printf("    created %s, updated %s\n",
		t.CreatedAt.Local().Format(time.RFC822),
		t.UpdatedAt.Local().Format(time.RFC822))
	return nil
}

func cmdAdd(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: todoctl add <title> [description]")
	}
	var description *string
	if len(args) > 1 {
		joined := strings.Join(args[1:], " ")
		description = &joined
	}
	t, err := c.CreateTask(ctx, args[0], description)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s\n", t.ID)
	return nil
}

func cmdEdit(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	title := fs.String("title", "", "New title")
	description := fs.String("desc", "", "New description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: todoctl edit [-title t] [-desc d] <id>")
	}

	var titlePtr, descPtr *string
	if *title != "" {
		titlePtr = title
	}
	if *description != "" {
		descPtr = description
	}

	t, err := c.UpdateTask(ctx, fs.Arg(0), titlePtr, descPtr)
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func cmdToggle(ctx context.Context, c *client.Client, args []string, done bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todoctl %s <id>", map[bool]string{true: "done", false: "undone"}[done])
	}
	var (
		t   *client.Task
		err error
	)
	if done {
		t, err = c.CompleteTask(ctx, args[0])
	} else {
		t, err = c.IncompleteTask(ctx, args[0])
	}
	if err != nil {
		return err
	}
	printTask(t)
	return nil
}

func cmdRemove(ctx context.Context, c *client.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: todoctl rm <id>")
	}
	if err := c.DeleteTask(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}

func cmdHistory(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Entries per page")
	taskID := fs.String("task", "", "Filter by task id")
	action := fs.String("action", "", "Filter by action type")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := c.GetHistory(ctx, client.HistoryQuery{
		Page:       *page,
		Limit:      *limit,
		TaskID:     *taskID,
		ActionType: *action,
	})
	if err != nil {
		return err
	}

	for _, entry := range result.Items {
		desc := ""
		if entry.Description != nil {
			desc = *entry.Description
		}
		fmt.Printf("%s  %-11s  %s\n",
			entry.Timestamp.Local().Format("2006-01-02 15:04"),
			entry.ActionType,
			desc)
	}
	p := result.Pagination
	fmt.Printf("page %d/%d (%d entries)\n", p.Page, p.TotalPages, p.TotalCount)
	return nil
}

func cmdStats(ctx context.Context, c *client.Client) error {
	stats, err := c.GetWeeklyStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Week %s - %s\n",
		stats.WeekStart.Format("Jan 2"),
		stats.WeekEnd.Format("Jan 2"))
	fmt.Printf("  created this week:   %d\n", stats.TasksCreatedThisWeek)
	fmt.Printf("  completed this week: %d\n", stats.TasksCompletedThisWeek)
	fmt.Printf("  total tasks:         %d (%d done, %d open)\n",
		stats.TotalTasks, stats.TotalCompleted, stats.TotalIncomplete)
	return nil
}

func cmdHealth(ctx context.Context, c *client.Client) error {
	health := c.GetHealth(ctx)
	fmt.Printf("%s: %s\n", health.Service, health.Status)
	return nil
}

func printTask(t *client.Task) {
	mark := " "
	if t.IsCompleted {
		mark = "x"
	}
	fmt.Printf("[%s] %s  %s\n", mark, t.ID, t.Title)
}

// terminalSession renders the session-expiry flow in a terminal: the
// notice goes to stderr and the "redirect" becomes a login hint.
type terminalSession struct{}

func (terminalSession) Notify(message string) {
	fmt.Fprintln(os.Stderr, message)
}

func (terminalSession) RedirectToLogin() {
	fmt.Fprintln(os.Stderr, "Run: todoctl login <email> <password>")
}

func sessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "todoctl", sessionFileName), nil
}

func loadSession() (string, error) {
	path, err := sessionPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveSession(token string) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func clearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: todoctl [-url URL] <command> [args]

Commands:
  signup <email> <password>          Create an account
  login <email> <password>           Log in and save the session
  logout                             Log out and clear the session
  list                               List tasks
  get <id>                           Show one task
  add <title> [description]          Create a task
  edit [-title t] [-desc d] <id>     Update a task
  done <id>                          Mark a task completed
  undone <id>                        Mark a task incomplete
  rm <id>                            Delete a task
  history [-page n] [-limit n] [-task id] [-action type]
  stats                              Weekly statistics
  health                             Backend health`)
}

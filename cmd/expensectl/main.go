package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/sbilibin2017/expense-tracker/internal/client"
	"github.com/sbilibin2017/expense-tracker/internal/formstate"
	"github.com/sbilibin2017/expense-tracker/internal/models"
)

const usage = `Usage: expensectl [-addr <url>] [-timeout <duration>] <command> [flags]

Commands:
  register -user <name> [-password <pw>] [-email <email>]
  login    -user <name> [-password <pw>]
  users
  add      -user-id <id> -item <name> -amount <n> [-currency USD] [-date YYYY-MM-DD] [-time HH:MM]
  list     -user-id <id>
  delete   -id <id>
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	expenses *client.ExpenseAPI
	users    *client.UserAPI
	form     formstate.Controller
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("expensectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	defaultAddr := "http://localhost:8080"
	if addr := os.Getenv("EXPENSE_API_URL"); addr != "" {
		defaultAddr = addr
	}
	addr := fs.String("addr", defaultAddr, "Base URL of the expense tracker API")
	timeout := fs.Duration("timeout", 30*time.Second, "Maximum duration of the request")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stdout, usage)
		return errors.New("missing command")
	}

	c := client.New(*addr, nil)
	a := &app{
		expenses: client.NewExpenseAPI(c),
		users:    client.NewUserAPI(c),
		form:     formstate.New(),
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		now:      time.Now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "register":
		return a.register(ctx, cmdArgs)
	case "login":
		return a.login(ctx, cmdArgs)
	case "users":
		return a.listUsers(ctx, cmdArgs)
	case "add":
		return a.addExpense(ctx, cmdArgs)
	case "list":
		return a.listExpenses(ctx, cmdArgs)
	case "delete":
		return a.deleteExpense(ctx, cmdArgs)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// submit runs call through the form state and prints the resulting status.
// The returned error mirrors an error status.
func (a *app) submit(ctx context.Context, call formstate.Call, onSuccess func(*client.Result)) error {
	a.form.Submit(ctx, call, onSuccess)
	st := a.form.Status()
	fmt.Fprintf(a.stdout, "[%s] %s\n", st.Category.Color(), st.Message)
	if st.Category == formstate.Error {
		return errors.New(strings.TrimPrefix(st.Message, "❌ "))
	}
	return nil
}

func (a *app) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(a.stdout, "Password: ")
	pw, err := readPassword(a.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(a.stdout)
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("password cannot be empty")
	}
	return pw, nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	emailFlag := fs.String("email", "", "Email (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		fs.PrintDefaults()
		return errors.New("missing required flags: user")
	}

	pw, err := a.password(*passwordFlag)
	if err != nil {
		return err
	}
	var email *string
	if *emailFlag != "" {
		email = emailFlag
	}

	return a.submit(ctx, func(ctx context.Context) (*client.Result, error) {
		return a.users.Register(ctx, *username, pw, email)
	}, a.printUser)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		fs.PrintDefaults()
		return errors.New("missing required flags: user")
	}

	pw, err := a.password(*passwordFlag)
	if err != nil {
		return err
	}

	return a.submit(ctx, func(ctx context.Context) (*client.Result, error) {
		return a.users.Login(ctx, *username, pw)
	}, a.printUser)
}

func (a *app) listUsers(ctx context.Context, args []string) error {
	if err := a.flagSet("users").Parse(args); err != nil {
		return err
	}
	return a.submit(ctx, a.users.GetAll, func(res *client.Result) {
		var users []models.PublicUser
		if err := res.Decode(&users); err != nil {
			fmt.Fprintf(a.stderr, "cannot decode users: %v\n", err)
			return
		}
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tCREATED\tLAST LOGIN")
		for _, u := range users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, deref(u.Email), u.CreatedAt.Format(time.RFC3339), formatTime(u.LastLogin))
		}
		tw.Flush()
	})
}

func (a *app) printUser(res *client.Result) {
	var u models.PublicUser
	if err := res.Decode(&u); err != nil {
		fmt.Fprintf(a.stderr, "cannot decode user: %v\n", err)
		return
	}
	fmt.Fprintf(a.stdout, "id=%d username=%s email=%s last_login=%s\n", u.ID, u.Username, deref(u.Email), formatTime(u.LastLogin))
}

func (a *app) addExpense(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	userID := fs.Int64("user-id", 0, "Owner of the expense")
	item := fs.String("item", "", "What was bought")
	amount := fs.String("amount", "", "Amount spent")
	currency := fs.String("currency", "", "Currency code (default USD)")
	date := fs.String("date", "", "Date YYYY-MM-DD (default today)")
	clock := fs.String("time", "", "Time HH:MM (default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := newExpenseForm(a.form, a.now())
	f.fill(map[string]string{
		"userId":   strconv.FormatInt(*userID, 10),
		"itemName": *item,
		"amount":   *amount,
		"currency": *currency,
		"date":     *date,
		"time":     *clock,
	})

	body, err := f.expense()
	if err != nil {
		return err
	}

	return a.submit(ctx, func(ctx context.Context) (*client.Result, error) {
		return a.expenses.Create(ctx, body)
	}, func(res *client.Result) {
		var e models.Expense
		if err := res.Decode(&e); err == nil {
			fmt.Fprintf(a.stdout, "id=%d %s %s %s %.2f %s\n", e.ID, e.Date, e.Time, e.ItemName, e.Amount, e.Currency)
		}
		f.reset()
	})
}

func (a *app) listExpenses(ctx context.Context, args []string) error {
	fs := a.flagSet("list")
	userID := fs.Int64("user-id", 0, "Owner of the expenses")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == 0 {
		fs.PrintDefaults()
		return errors.New("missing required flags: user-id")
	}

	return a.submit(ctx, func(ctx context.Context) (*client.Result, error) {
		return a.expenses.GetAll(ctx, *userID)
	}, func(res *client.Result) {
		var expenses []models.Expense
		if err := res.Decode(&expenses); err != nil {
			fmt.Fprintf(a.stderr, "cannot decode expenses: %v\n", err)
			return
		}
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tTIME\tITEM\tAMOUNT\tCURRENCY")
		for _, e := range expenses {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%s\n", e.ID, e.Date, e.Time, e.ItemName, e.Amount, e.Currency)
		}
		tw.Flush()
	})
}

func (a *app) deleteExpense(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := fs.Int64("id", 0, "Expense id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		fs.PrintDefaults()
		return errors.New("missing required flags: id")
	}

	return a.submit(ctx, func(ctx context.Context) (*client.Result, error) {
		return a.expenses.Delete(ctx, *id)
	}, nil)
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

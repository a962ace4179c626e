package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	RegisterCompany(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Lang(ctx context.Context, code string) error
	List(ctx context.Context, query string) error
	More(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Apply(ctx context.Context, id string) error
	Public(ctx context.Context, query string) error
	PublicShow(ctx context.Context, slug string) error
}

const (
	guestHelp = "Available commands: register, registercompany, login, public [query], job <slug>, lang [en|hy|ru], whoami, exit"
	userHelp  = "Available commands: (l)ist [query], more, show <id>, apply <id>, profile, whoami, public [query], job <slug>, lang [en|hy|ru], logout, exit"
)

// runREPL starts a simple read-eval-print loop for the jobportal CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its argument, and dispatches to methods on 'a'. Errors
// returned by handlers are printed and the loop continues. The loop exits
// on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - register, registercompany, login
//	  - public [query], job <slug>    unauthenticated catalogue
//	  - lang [code], whoami, help, exit | quit
//
//	Logged in:
//	  - list [query], more             vacancy feed
//	  - show <id>, apply <id>
//	  - profile, whoami, logout
//	  - public [query], job <slug>, lang [code], help, exit | quit
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("jp %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.Join(parts[1:], " ")

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "registercompany":
			cmdErr = a.RegisterCompany(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)

		case "lang":
			cmdErr = a.Lang(ctx, arg)

		case "l", "list":
			cmdErr = a.List(ctx, arg)

		case "more":
			cmdErr = a.More(ctx)

		case "show":
			if arg == "" {
				printlnFn("Usage: show <id>")
				continue
			}
			cmdErr = a.Show(ctx, arg)

		case "apply":
			if arg == "" {
				printlnFn("Usage: apply <id>")
				continue
			}
			cmdErr = a.Apply(ctx, arg)

		case "public":
			cmdErr = a.Public(ctx, arg)

		case "job":
			if arg == "" {
				printlnFn("Usage: job <slug>")
				continue
			}
			cmdErr = a.PublicShow(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}

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
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	NewProject(ctx context.Context) error
	Projects(ctx context.Context) error
	Profile(ctx context.Context, handle string) error
	Link(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line and dispatches them to a. The first
// token is the command; "profile" takes an optional handle argument. The
// loop exits on EOF, "exit" or "quit".
//
//	Not logged in: help, register, login, profile [handle], exit | quit
//	Logged in:     help, whoami, newproject, projects, profile [handle],
//	               link, logout, exit | quit
//
// Command errors are ignored here; handlers report them to the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, newproject, projects, profile [handle], link, logout, exit")
			} else {
				printlnFn("Available commands: register, login, profile [handle], exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "profile":
			handle := ""
			if len(args) > 0 {
				handle = args[0]
			}
			_ = a.Profile(ctx, handle)

		case "whoami", "newproject", "projects", "link", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			switch cmd {
			case "whoami":
				_ = a.WhoAmI(ctx)
			case "newproject":
				_ = a.NewProject(ctx)
			case "projects":
				_ = a.Projects(ctx)
			case "link":
				_ = a.Link(ctx)
			case "logout":
				_ = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

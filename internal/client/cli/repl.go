package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	settle(ctx context.Context)
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Home(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Search(ctx context.Context, query string, semantic bool) error
	Borrow(ctx context.Context, id string, force bool) error
	Return(ctx context.Context, id string) error
	Borrowings(ctx context.Context) error
	StartReading(ctx context.Context, bookID string) error
	EndReading(ctx context.Context, pages string) error
	Stats(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the biblio CLI.
//
// It reads a line from reader, writes prompts and replies to out, parses the first token as the command, and
// dispatches to methods on 'a'. After every command the router is settled so
// that redirects (for example after the service rejected the credential)
// take effect before the next prompt. The loop exits on EOF, when ctx is
// done, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                   show available commands
//	  - login                  authenticate
//	  - signup | register      create an account
//	  - whoami                 show the session
//	  - exit | quit            leave the program
//
//	Logged in:
//	  - home                   recommendations, borrowings and stats
//	  - dashboard | books      catalog listing
//	  - search <q>             keyword search
//	  - semantic <q>           semantic search
//	  - borrow <id> [force]    borrow a book on screen
//	  - return <id>            return a borrowing
//	  - borrowings             list borrowings
//	  - read-start <id>        start a reading session
//	  - read-end <pages>       end the reading session
//	  - stats                  profile statistics
//	  - whoami | logout | exit
//
// Errors returned by command handlers are not printed here; handlers report
// to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }

	for {
		if ctx.Err() != nil {
			return
		}
		say(fmt.Sprintf("biblio%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
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
				say("Available commands: home, dashboard, search, semantic, borrow, return, borrowings, read-start, read-end, stats, whoami, logout, exit")
			} else {
				say("Available commands: login, signup, whoami, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "home":
			_ = a.Home(ctx)

		case "dashboard", "books":
			_ = a.Dashboard(ctx)

		case "search", "semantic":
			_ = a.Search(ctx, strings.Join(args, " "), cmd == "semantic")

		case "borrow":
			if len(args) == 0 {
				say("Usage: borrow <book id> [force]")
				continue
			}
			_ = a.Borrow(ctx, args[0], len(args) > 1 && args[1] == "force")

		case "return":
			if len(args) == 0 {
				say("Usage: return <borrowing id>")
				continue
			}
			_ = a.Return(ctx, args[0])

		case "borrowings":
			_ = a.Borrowings(ctx)

		case "read-start":
			if len(args) == 0 {
				say("Usage: read-start <book id>")
				continue
			}
			_ = a.StartReading(ctx, args[0])

		case "read-end":
			if len(args) == 0 {
				say("Usage: read-end <pages>")
				continue
			}
			_ = a.EndReading(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}

		a.settle(ctx)
	}
}

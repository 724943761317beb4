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
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	All(ctx context.Context) error
	Favorites(ctx context.Context) error
	Mine(ctx context.Context) error
	Profile(ctx context.Context) error
	More(ctx context.Context) error
	Scroll(ctx context.Context) error
	Favorite(ctx context.Context, storyID string) error
	Submit(ctx context.Context) error
	Edit(ctx context.Context, storyID string) error
}

// runREPL starts a simple read–eval–print loop for the snoozer client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The same reader serves the prompts of the
// individual commands. The loop exits on EOF or when the user types "exit"
// or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                 — show available commands
//	  - login | signup       — authenticate or create an account
//	  - all                  — reload and show all stories
//	  - more | scroll        — next page / next screen of stories
//	  - exit | quit          — leave the program
//
//	Logged in, additionally:
//	  - favorites | mine     — show favorites / own stories
//	  - profile              — show the user profile
//	  - fav <id>             — toggle a favorite
//	  - submit | edit <id>   — submit a story / edit an own story
//	  - logout               — log out
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hn> %s > ", statusFn()))
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
				printlnFn("Available commands: all, favorites, mine, profile, more, scroll, fav <id>, submit, edit <id>, logout, exit")
			} else {
				printlnFn("Available commands: all, more, scroll, login, signup, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "all":
			_ = a.All(ctx)

		case "favorites":
			_ = a.Favorites(ctx)

		case "mine":
			_ = a.Mine(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "more":
			_ = a.More(ctx)

		case "scroll", "s":
			_ = a.Scroll(ctx)

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.Favorite(ctx, args[0])

		case "submit":
			_ = a.Submit(ctx)

		case "edit":
			if len(args) == 0 {
				printlnFn("Usage: edit <id>")
				continue
			}
			_ = a.Edit(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

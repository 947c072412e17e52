package cli

import (
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	authenticated() bool
	chatOpen() bool
	Navigate(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Edit() error
	Set(field, value string) error
	Save(ctx context.Context) error
	Cancel() error
	Users(ctx context.Context) error
	Open(ctx context.Context, peerID string) error
	Send(ctx context.Context, text string) error
	Dismiss(id string) error
}

const (
	helpGuest = "Available commands: register, login, go <path>, dismiss [id], exit"
	helpUser  = "Available commands: users, open <id>, send <text>, profile, edit, set <field> <value>, save, cancel, go <path>, dismiss [id], logout, exit\n" +
		"While a chat is open, any line that is not a command is sent as a message."
)

// dispatch runs one REPL line against a and reports whether the user asked
// to quit.
//
// The first word selects the command; the rest of the line is its argument.
// When a conversation is open, a line that does not start with a command is
// sent to the selected peer. Command errors are printed and never end the
// loop.
func dispatch(ctx context.Context, a execIface, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch cmd {
	case "help":
		if a.authenticated() {
			printlnFn(helpUser)
		} else {
			printlnFn(helpGuest)
		}

	case "go":
		if rest == "" {
			printlnFn("Usage: go <path>")
			return false
		}
		err = a.Navigate(ctx, rest)

	case "register":
		err = a.Register(ctx)

	case "login":
		err = a.Login(ctx)

	case "logout":
		err = a.Logout(ctx)

	case "profile":
		err = a.Profile(ctx)

	case "edit":
		err = a.Edit()

	case "set":
		field, value, ok := strings.Cut(rest, " ")
		if !ok || field == "" {
			printlnFn("Usage: set <field> <value>")
			return false
		}
		err = a.Set(field, value)

	case "save":
		err = a.Save(ctx)

	case "cancel":
		err = a.Cancel()

	case "users":
		err = a.Users(ctx)

	case "open":
		if rest == "" {
			printlnFn("Usage: open <user-id>")
			return false
		}
		err = a.Open(ctx, rest)

	case "send":
		err = a.Send(ctx, rest)

	case "dismiss":
		err = a.Dismiss(rest)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		if a.chatOpen() {
			err = a.Send(ctx, line)
		} else {
			printlnFn("Unknown command:", cmd)
		}
	}

	if err != nil {
		printlnFn("Error:", err)
	}
	return false
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminKey(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Play(ctx context.Context) error
	Guess(ctx context.Context, args []string) error
	History(ctx context.Context) error
	ClearHistory(ctx context.Context) error
	Cards(ctx context.Context) error
	AddCard(ctx context.Context) error
	DeleteCard(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
}

// runREPL reads commands until EOF, "exit" or "quit". Errors from handlers
// are printed and the loop continues.
//
//	Signed out:  register, login, adminkey, history, clearhistory, exit
//	Signed in:   play, guess [type level element], profile, history, clearhistory, logout, exit
//	Admin:       cards, addcard, delcard <id>, upload <file>
//
// Command lines and prompt answers share reader, so prompts inside a
// command consume the lines that follow it.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mc %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText(a))

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "adminkey":
			err = a.AdminKey(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "profile":
			err = a.Profile(ctx)

		case "p", "play":
			err = a.Play(ctx)
		case "g", "guess":
			err = a.Guess(ctx, args)
		case "history":
			err = a.History(ctx)
		case "clearhistory":
			err = a.ClearHistory(ctx)

		case "cards":
			err = a.Cards(ctx)
		case "addcard":
			err = a.AddCard(ctx)
		case "delcard":
			err = a.DeleteCard(ctx, args)
		case "upload":
			err = a.Upload(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
		if readErr != nil {
			return
		}
	}
}

func helpText(a execIface) string {
	switch {
	case a.isAdmin():
		return "Available commands: (p)lay, (g)uess, history, clearhistory, cards, addcard, delcard, upload, logout, exit"
	case a.isLoggedIn():
		return "Available commands: (p)lay, (g)uess, profile, history, clearhistory, logout, exit"
	default:
		return "Available commands: register, login, adminkey, history, clearhistory, exit"
	}
}

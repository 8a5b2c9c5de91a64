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
	SignUp(ctx context.Context) error
	LogIn(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	CreateRoom(ctx context.Context) error
	ShowRoom(ctx context.Context, id string) error
	LogOut(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit". Handlers report their own errors.
//
//	Not logged in: help, signup, login, exit
//	Logged in:     help, change-password, create-room, room <id>, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sp (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: change-password, create-room, room <id>, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup", "register":
			_ = a.SignUp(ctx)

		case "login":
			_ = a.LogIn(ctx)

		case "change-password":
			_ = a.ChangePassword(ctx)

		case "create-room":
			_ = a.CreateRoom(ctx)

		case "room":
			if len(args) == 0 {
				printlnFn("Usage: room <id>")
				continue
			}
			_ = a.ShowRoom(ctx, args[0])

		case "logout":
			_ = a.LogOut(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Question(ctx context.Context) error
	Reset(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowCard(ctx context.Context) error
	AddCard(ctx context.Context) error
	UpdateCard(ctx context.Context) error
	RemoveCard(ctx context.Context) error
}

const (
	helpGuest    = "Available commands: register, login, question, reset, exit"
	helpLoggedIn = "Available commands: status, card, addcard, updatecard, removecard, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a until EOF or
// "exit"/"quit". Command errors are printed and the loop carries on.
// Session commands are refused while signed out, and vice versa for login.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("deckexc%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var run func(context.Context) error
		needsLogin := false

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpGuest)
			}
			continue

		case "register":
			run = a.Register
		case "login":
			if a.isLoggedIn() {
				printlnFn("Already logged in, use logout first")
				continue
			}
			run = a.Login
		case "question":
			run = a.Question
		case "reset":
			run = a.Reset

		case "status":
			run, needsLogin = a.Status, true
		case "logout":
			run, needsLogin = a.Logout, true
		case "card":
			run, needsLogin = a.ShowCard, true
		case "addcard":
			run, needsLogin = a.AddCard, true
		case "updatecard":
			run, needsLogin = a.UpdateCard, true
		case "removecard":
			run, needsLogin = a.RemoveCard, true

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if needsLogin && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		if err := run(ctx); err != nil {
			printlnFn("Error:", err)
		}
	}
}

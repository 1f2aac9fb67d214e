package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  [][]string
	fail  error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isAdmin() bool    { return f.admin }

func (f *fakeExec) Register(ctx context.Context) error { return f.record("register", nil) }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) AdminKey(ctx context.Context) error {
	f.loggedIn, f.admin = true, true
	return f.record("adminkey", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn, f.admin = false, false
	return f.record("logout", nil)
}
func (f *fakeExec) Profile(ctx context.Context) error { return f.record("profile", nil) }
func (f *fakeExec) Play(ctx context.Context) error    { return f.record("play", nil) }
func (f *fakeExec) Guess(ctx context.Context, args []string) error {
	return f.record("guess", args)
}
func (f *fakeExec) History(ctx context.Context) error { return f.record("history", nil) }
func (f *fakeExec) Cards(ctx context.Context) error   { return f.record("cards", nil) }
func (f *fakeExec) ClearHistory(ctx context.Context) error {
	return f.record("clearhistory", nil)
}
func (f *fakeExec) AddCard(ctx context.Context) error { return f.record("addcard", nil) }
func (f *fakeExec) DeleteCard(ctx context.Context, args []string) error {
	return f.record("delcard", args)
}
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	return f.record("upload", args)
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"p",
		"guess machine 4 dark",
		"",
		"history",
		"clearhistory",
		"profile",
		"adminkey",
		"help",
		"cards",
		"addcard",
		"delcard 7",
		"upload ./card.png",
		"logout",
		"foobar",
		"exit",
		"play",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	want := []string{"login", "play", "guess", "history", "clearhistory", "profile", "adminkey", "cards", "addcard", "delcard", "upload", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if got := strings.Join(exec.args[2], " "); got != "machine 4 dark" {
		t.Fatalf("guess args = %q", got)
	}
	if got := strings.Join(exec.args[9], " "); got != "7" {
		t.Fatalf("delcard args = %q", got)
	}

	joined := strings.Join(*out, "\n")
	for _, s := range []string{"Unknown command: foobar", "Bye!", "register, login, adminkey", "cards, addcard"} {
		if !strings.Contains(joined, s) {
			t.Fatalf("output missing %q:\n%s", s, joined)
		}
	}
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{fail: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("play\nhistory\n")))

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %v", exec.calls)
	}
	n := 0
	for _, line := range *out {
		if line == "Error: boom" {
			n++
		}
	}
	if n != 2 {
		t.Fatalf("want 2 error lines, got %d: %v", n, *out)
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("register")))

	if len(exec.calls) != 1 || exec.calls[0] != "register" {
		t.Fatalf("calls = %v", exec.calls)
	}
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	out := capturePrint(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(a@b.c)" }, bufio.NewReader(strings.NewReader("")))

	if len(*out) != 1 || (*out)[0] != "mc (a@b.c)> " {
		t.Fatalf("out = %q", *out)
	}
}

func TestHelpText(t *testing.T) {
	if s := helpText(&fakeExec{}); !strings.Contains(s, "register") {
		t.Fatalf("signed out help: %q", s)
	}
	if s := helpText(&fakeExec{loggedIn: true}); !strings.Contains(s, "profile") || strings.Contains(s, "addcard") {
		t.Fatalf("player help: %q", s)
	}
	if s := helpText(&fakeExec{loggedIn: true, admin: true}); !strings.Contains(s, "addcard") {
		t.Fatalf("admin help: %q", s)
	}
}

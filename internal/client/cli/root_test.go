package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records dispatched commands.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) mark(call string, args ...string) error {
	if len(args) > 0 {
		call += ":" + strings.Join(args, ",")
	}
	s.calls = append(s.calls, call)
	return nil
}

func (s *stubExec) isLoggedIn() bool                                   { return s.loggedIn }
func (s *stubExec) Register(ctx context.Context) error                 { return s.mark("register") }
func (s *stubExec) Login(ctx context.Context) error                    { return s.mark("login") }
func (s *stubExec) Logout(ctx context.Context) error                   { return s.mark("logout") }
func (s *stubExec) List(ctx context.Context) error                     { return s.mark("list") }
func (s *stubExec) Create(ctx context.Context) error                   { return s.mark("create") }
func (s *stubExec) Status(ctx context.Context) error                   { return s.mark("status") }
func (s *stubExec) Show(ctx context.Context, args []string) error      { return s.mark("show", args...) }
func (s *stubExec) Delete(ctx context.Context, args []string) error    { return s.mark("delete", args...) }
func (s *stubExec) Download(ctx context.Context, args []string) error  { return s.mark("download", args...) }
func (s *stubExec) Remove(ctx context.Context, args []string) error    { return s.mark("remove", args...) }

func runScript(t *testing.T, a execIface, script string) []string {
	t.Helper()
	old := printlnFn
	defer func() { printlnFn = old }()

	var output []string
	printlnFn = func(args ...any) (int, error) {
		output = append(output, fmt.Sprintln(args...))
		return 0, nil
	}

	runREPL(context.Background(), a, func() string { return "(test)" }, bufio.NewScanner(strings.NewReader(script)))
	return output
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	stub := &stubExec{loggedIn: true}

	runScript(t, stub, "list\nshow t1\ndownload t2\ndelete t3\nremove t4\ncreate\nstatus\nlogout\nexit\n")

	assert.Equal(t, []string{
		"list", "show:t1", "download:t2", "delete:t3", "remove:t4", "create", "status", "logout",
	}, stub.calls)
}

func TestRunREPL_ShortListAlias(t *testing.T) {
	stub := &stubExec{}
	runScript(t, stub, "l\nexit\n")
	assert.Equal(t, []string{"list"}, stub.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := runScript(t, &stubExec{}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, ""), "register, login")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(out, ""), "download <id>")
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	out := runScript(t, &stubExec{}, "frobnicate\nexit\n")
	assert.Contains(t, strings.Join(out, ""), "Unknown command: frobnicate")
}

func TestRunREPL_BlankLinesAndEOF(t *testing.T) {
	stub := &stubExec{}
	// no exit command; the loop must stop at EOF
	runScript(t, stub, "\n\nlogin\n")
	assert.Equal(t, []string{"login"}, stub.calls)
}

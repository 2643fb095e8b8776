package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls   []string
	profile string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) NewProject(ctx context.Context) error {
	f.calls = append(f.calls, "newproject")
	return nil
}
func (f *fakeExec) Projects(ctx context.Context) error {
	f.calls = append(f.calls, "projects")
	return nil
}
func (f *fakeExec) Profile(ctx context.Context, handle string) error {
	f.calls = append(f.calls, "profile")
	f.profile = handle
	return nil
}
func (f *fakeExec) Link(ctx context.Context) error {
	f.calls = append(f.calls, "link")
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"whoami",
		"login",
		"help",
		"whoami",
		"newproject",
		"projects",
		"profile bob",
		"link",
		"foobar",
		"logout",
		"projects",
		"exit",
		"register",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{"login", "whoami", "newproject", "projects", "profile", "link", "logout"}, exec.calls)
	assert.Equal(t, "bob", exec.profile)
}

func TestRunREPL_GuardsAndQuit(t *testing.T) {
	lines := silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("newproject\n\nprofile\nquit\n")))

	assert.Equal(t, []string{"profile"}, exec.calls)
	assert.Empty(t, exec.profile)
	assert.Contains(t, *lines, "Please log in first")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("register")))

	assert.Equal(t, []string{"register"}, exec.calls)
}

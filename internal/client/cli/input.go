package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal access, replaced in tests.
var (
	readNoEcho = term.ReadPassword
	isTerminal = term.IsTerminal
)

// askLine prints "label: " and reads one line from in, trimmed. A last line
// without a newline is accepted at EOF.
func askLine(in *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askSecret prints "label: " and reads the secret without echo. When stdin
// is not a terminal (piped input) the secret is read as a plain line from
// in instead. The caller wipes the returned bytes.
func askSecret(in *bufio.Reader, w io.Writer, label string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		s, err := askLine(in, w, label)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	secret, err := readNoEcho(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read secret: %w", err)
	}
	return secret, nil
}

// askBlock reads project content: lines up to the first empty one or EOF,
// joined with '\n'. CRLF endings are normalized.
func askBlock(in *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s (end with an empty line):\n", label); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

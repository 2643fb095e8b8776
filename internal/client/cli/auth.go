package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/handlekeeper/internal/client/client"
	"github.com/dmitrijs2005/handlekeeper/internal/common"
)

var errEmptyHandle = errors.New("handle must not be empty")

// Prompt seams, replaced in tests.
var (
	promptLine   = askLine
	promptSecret = askSecret
	promptBlock  = askBlock
)

var (
	registerHandleLabel = fmt.Sprintf("Handle (up to %d characters, no spaces or slashes)", common.MaxHandleLength)
	registerSecretLabel = fmt.Sprintf("Secret (at least %d characters, with a letter and a digit)", common.MinSecretLength)
)

// readCredentials asks for a handle and a secret. On registration the
// labels carry the server's rules so a rejected attempt is less likely.
func (a *App) readCredentials(registering bool) (string, []byte, error) {
	handleLabel, secretLabel := "Handle", "Secret"
	if registering {
		handleLabel, secretLabel = registerHandleLabel, registerSecretLabel
	}

	handle, err := promptLine(a.reader, a.stdout(), handleLabel)
	if err != nil {
		return "", nil, err
	}
	if handle == "" {
		fmt.Fprintln(a.stdout(), "Handle must not be empty")
		return "", nil, errEmptyHandle
	}

	secret, err := promptSecret(a.reader, a.stdout(), secretLabel)
	if err != nil {
		return "", nil, err
	}
	return handle, secret, nil
}

// Register prompts for a handle and secret and creates the account. The
// secret is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	handle, secret, err := a.readCredentials(true)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	if err := a.api.Register(ctx, handle, secret); err != nil {
		fmt.Fprintf(a.stdout(), "Registration failed: %s\n", err.Error())
		return err
	}

	fmt.Fprintln(a.stdout(), "Success!")
	return nil
}

// Login authenticates and remembers the handle for the prompt.
func (a *App) Login(ctx context.Context) error {
	handle, secret, err := a.readCredentials(false)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	if err := a.api.Login(ctx, handle, secret); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	a.handle = handle
	a.setMode(ModeOnline)
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, client.ErrForbidden) {
			a.forget()
			fmt.Fprintln(a.stdout(), "Session is no longer valid, please log in again")
		}
		return err
	}
	fmt.Fprintf(a.stdout(), "%s (account #%d)\n", u.Handle, u.AccountID)
	return nil
}

// Link asks the server for the provider consent address and prints it. The
// address carries a signed state, so it works in any browser.
func (a *App) Link(ctx context.Context) error {
	u, err := a.api.LinkURL(ctx)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			fmt.Fprintln(a.stdout(), "Account linking is not enabled on this server")
			return err
		}
		a.report(err)
		return err
	}
	fmt.Fprintf(a.stdout(), "Open this address in a browser to link an account:\n%s\n", u)
	return nil
}

// Logout drops the session token. Tokens are stateless, so nothing is sent
// to the server.
func (a *App) Logout(ctx context.Context) error {
	a.forget()
	return nil
}

func (a *App) forget() {
	a.api.SetToken("")
	a.handle = ""
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/handlekeeper/internal/client/client"
)

func (a *App) NewProject(ctx context.Context) error {
	title, err := promptLine(a.reader, a.stdout(), "Project title")
	if err != nil {
		return err
	}
	content, err := promptBlock(a.reader, a.stdout(), "Project content")
	if err != nil {
		return err
	}

	p, err := a.api.CreateProject(ctx, title, content)
	if err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintf(a.stdout(), "Project #%d created\n", p.ID)
	return nil
}

func (a *App) Projects(ctx context.Context) error {
	ps, err := a.api.Projects(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	if len(ps) == 0 {
		fmt.Fprintln(a.stdout(), "No projects yet")
		return nil
	}
	for _, p := range ps {
		fmt.Fprintf(a.stdout(), "%5d  %s  %s\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Title)
	}
	return nil
}

// Profile shows the public profile of handle, prompting for it when empty.
func (a *App) Profile(ctx context.Context, handle string) error {
	if strings.TrimSpace(handle) == "" {
		var err error
		if handle, err = promptLine(a.reader, a.stdout(), "Handle to look up"); err != nil {
			return err
		}
	}

	p, err := a.api.Profile(ctx, handle)
	if err != nil {
		a.report(err)
		return err
	}

	linked := "-"
	if p.ThirdPartyHandle != nil {
		linked = *p.ThirdPartyHandle
	}
	fmt.Fprintf(a.stdout(), "handle:   %s\nid:       %d\nlinked:   %s\nsince:    %s\n",
		p.Handle, p.ID, linked, p.CreatedAt.Format("2006-01-02"))
	return nil
}

// report prints a user-facing message for API errors.
func (a *App) report(err error) {
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrForbidden):
		a.forget()
		fmt.Fprintln(a.stdout(), "Session is no longer valid, please log in again")
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintln(a.stdout(), "Not found")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.stdout(), "Server unavailable")
	default:
		fmt.Fprintf(a.stdout(), "Error: %s\n", err.Error())
	}
}

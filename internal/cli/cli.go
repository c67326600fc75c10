// Package cli is the terminal frontend: thin views over the session
// manager, the boundary client and the local filter engine.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"eventxplore/internal/api"
	"eventxplore/internal/lib/api/response"
	"eventxplore/internal/session"
)

type App struct {
	log     *slog.Logger
	api     *api.Client
	session *session.Manager
	out     io.Writer
}

func New(log *slog.Logger, client *api.Client, sess *session.Manager) *App {
	return &App{
		log:     log,
		api:     client,
		session: sess,
		out:     os.Stdout,
	}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()

		return nil
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "events":
		return a.runEvents(ctx, rest)
	case "event":
		return a.runEvent(ctx, rest)
	case "join":
		return a.runJoin(ctx, rest)
	case "registrations":
		return a.runRegistrations(ctx)
	case "cancel":
		return a.runCancel(ctx, rest)
	case "login":
		return a.runLogin(ctx, rest)
	case "register":
		return a.runRegister(ctx, rest)
	case "logout":
		return a.runLogout()
	case "whoami":
		return a.runWhoami()
	case "organizer":
		return a.runOrganizer(ctx, rest)
	case "help", "-h", "--help":
		a.printUsage()

		return nil
	default:
		return fmt.Errorf("unknown command %q, run \"xe help\"", cmd)
	}
}

func (a *App) printUsage() {
	fmt.Fprint(a.out, `xe - discover and join events

Usage:
  xe events [--search S] [--category C] [--city C] [--state UF] [--free] [--from D] [--to D]
  xe event <event-id>
  xe join <event-id>
  xe registrations
  xe cancel <registration-id>
  xe login --email E --password P
  xe register --name N --email E --password P [--city C] [--role user|organizer]
  xe logout
  xe whoami
  xe organizer events
  xe organizer create [flags]
  xe organizer update <event-id> [flags]
  xe organizer publish <event-id>
  xe organizer toggle <event-id>
`)
}

// guardErr translates the session gate into actionable messages: an
// anonymous caller is sent to login, an authenticated one with the wrong
// role is told no amount of logging in will help.
func guardErr(err error) error {
	switch {
	case errors.Is(err, session.ErrLoginRequired):
		return errors.New(`you are not logged in, run "xe login" first`)
	case errors.Is(err, session.ErrForbidden):
		return errors.New("this command requires an organizer account")
	default:
		return err
	}
}

// validationErr renders validator failures through the same wording the
// boundary uses, so local and remote rejections read alike.
func validationErr(err error) error {
	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		return errors.New(response.ValidationError(validateErr).Message)
	}

	return err
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"eventxplore/internal/eventfilter"
	"eventxplore/internal/models"
)

func (a *App) runEvents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(a.out)

	var filters models.EventFilters
	fs.StringVar(&filters.Search, "search", "", "match title or description")
	fs.StringVar(&filters.Category, "category", "", "exact category")
	fs.StringVar(&filters.City, "city", "", "city substring")
	fs.StringVar(&filters.State, "state", "", "exact state code")
	fs.StringVar(&filters.StartDate, "from", "", "earliest date (YYYY-MM-DD)")
	fs.StringVar(&filters.EndDate, "to", "", "latest date (YYYY-MM-DD)")
	fs.BoolVar(&filters.IsFree, "free", false, "free events only")

	if err := fs.Parse(args); err != nil {
		return err
	}

	events, err := a.api.Events(ctx, filters)
	if err != nil {
		return err
	}

	// the boundary already filtered; re-apply locally anyway so the view
	// never shows an event the criteria exclude
	events = eventfilter.Apply(events, filters)

	a.log.Debug("events fetched", slog.Int("count", len(events)))

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events found. Try adjusting the filters.")

		return nil
	}

	for _, e := range events {
		a.printEventCard(e)
	}

	return nil
}

func (a *App) runEvent(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: xe event <event-id>")
	}

	event, err := a.api.Event(ctx, args[0])
	if err != nil {
		return err
	}

	a.printEventDetails(event)

	return nil
}

func (a *App) runJoin(ctx context.Context, args []string) error {
	if err := a.session.Guard(); err != nil {
		return guardErr(err)
	}

	if len(args) != 1 {
		return errors.New("usage: xe join <event-id>")
	}

	reg, err := a.api.RegisterForEvent(ctx, args[0])
	if err != nil {
		return err
	}

	okColor.Fprintln(a.out, "Registration confirmed!")
	fmt.Fprintf(a.out, "  registration id: %s\n", reg.ID)

	return nil
}

func (a *App) runRegistrations(ctx context.Context) error {
	if err := a.session.Guard(); err != nil {
		return guardErr(err)
	}

	regs, err := a.api.MyRegistrations(ctx)
	if err != nil {
		return err
	}

	if len(regs) == 0 {
		fmt.Fprintln(a.out, "You have no registrations yet. Browse events with \"xe events\".")

		return nil
	}

	now := time.Now()
	for _, r := range regs {
		a.printRegistration(r, now)
	}

	return nil
}

func (a *App) runCancel(ctx context.Context, args []string) error {
	if err := a.session.Guard(); err != nil {
		return guardErr(err)
	}

	if len(args) != 1 {
		return errors.New("usage: xe cancel <registration-id>")
	}

	reg, err := a.api.CancelRegistration(ctx, args[0])
	if err != nil {
		return err
	}

	okColor.Fprintln(a.out, "Registration cancelled.")
	fmt.Fprintf(a.out, "  registration id: %s\n", reg.ID)

	return nil
}

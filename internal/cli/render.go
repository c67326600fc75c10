package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"eventxplore/internal/display"
	"eventxplore/internal/models"
)

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen, color.Bold)
	freeColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	dangerColor = color.New(color.FgRed, color.Bold)
	dimColor    = color.New(color.Faint)
)

func (a *App) printEventCard(e models.Event) {
	titleColor.Fprint(a.out, e.Title)
	fmt.Fprint(a.out, "  ")
	a.printBadges(e)
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "  %s %s · %s, %s · %s\n", e.Date, e.Time, e.City, e.State, e.Category)

	a.printSpots(e)
	a.printPrice(e)

	dimColor.Fprintf(a.out, "  id: %s\n", e.ID)
	fmt.Fprintln(a.out)
}

func (a *App) printEventDetails(e models.Event) {
	a.printEventCard(e)

	if e.Description != "" {
		fmt.Fprintln(a.out, e.Description)
	}

	fmt.Fprintf(a.out, "\n  location:  %s", e.Location)
	if e.Address != "" {
		fmt.Fprintf(a.out, " (%s)", e.Address)
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "  organizer: %s\n", e.OrganizerName)
	fmt.Fprintf(a.out, "  occupancy: %d%%\n", display.OccupancyPercent(e))

	if len(e.Tags) > 0 {
		dimColor.Fprintf(a.out, "  tags: %s\n", strings.Join(e.Tags, ", "))
	}

	if !e.RegistrationsOpen {
		warnColor.Fprintln(a.out, "  registrations are closed")
	}
}

func (a *App) printBadges(e models.Event) {
	if e.IsFree {
		freeColor.Fprint(a.out, "[FREE] ")
	}

	switch {
	case display.IsSoldOut(e):
		dangerColor.Fprint(a.out, "[SOLD OUT] ")
	case display.IsAlmostFull(e):
		warnColor.Fprint(a.out, "[LAST SPOTS] ")
	}

	if e.Status != models.EventPublished {
		dimColor.Fprintf(a.out, "[%s] ", strings.ToUpper(string(e.Status)))
	}
}

func (a *App) printSpots(e models.Event) {
	if display.IsSoldOut(e) {
		dangerColor.Fprintln(a.out, "  sold out")

		return
	}

	left := display.SpotsLeft(e)
	fmt.Fprintf(a.out, "  %d of %d spots left\n", left, e.Capacity)
}

func (a *App) printPrice(e models.Event) {
	if e.IsFree {
		return
	}

	if e.Price > 0 {
		fmt.Fprintf(a.out, "  R$ %.2f\n", e.Price)
	}
}

func (a *App) printRegistration(r models.Registration, now time.Time) {
	if r.Event == nil {
		dimColor.Fprintf(a.out, "registration %s (event unavailable)\n\n", r.ID)

		return
	}

	titleColor.Fprint(a.out, r.Event.Title)
	fmt.Fprint(a.out, "  ")

	switch {
	case r.Status == models.RegistrationCancelled:
		dimColor.Fprint(a.out, "[CANCELLED]")
	case r.CheckedIn:
		okColor.Fprint(a.out, "[CHECKED IN]")
	case r.Event.Status == models.EventFinished:
		dimColor.Fprint(a.out, "[FINISHED]")
	default:
		okColor.Fprint(a.out, "[CONFIRMED]")
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "  %s %s · %s, %s\n", r.Event.Date, r.Event.Time, r.Event.City, r.Event.State)

	if display.CanCancelRegistration(r, now) {
		dimColor.Fprintf(a.out, "  cancellable: xe cancel %s\n", r.ID)
	} else {
		dimColor.Fprintf(a.out, "  id: %s\n", r.ID)
	}

	fmt.Fprintln(a.out)
}

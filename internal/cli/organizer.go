package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"eventxplore/internal/api"
	"eventxplore/internal/models"
)

func (a *App) runOrganizer(ctx context.Context, args []string) error {
	if err := a.session.Guard(models.RoleOrganizer); err != nil {
		return guardErr(err)
	}

	if len(args) == 0 {
		return errors.New("usage: xe organizer <events|create|update|publish|toggle>")
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "events":
		return a.runOrganizerEvents(ctx)
	case "create":
		return a.runOrganizerCreate(ctx, rest)
	case "update":
		return a.runOrganizerUpdate(ctx, rest)
	case "publish":
		return a.runOrganizerPublish(ctx, rest)
	case "toggle":
		return a.runOrganizerToggle(ctx, rest)
	default:
		return fmt.Errorf("unknown organizer command %q", cmd)
	}
}

func (a *App) runOrganizerEvents(ctx context.Context) error {
	events, err := a.api.OrganizerEvents(ctx)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "You have no events yet. Create one with \"xe organizer create\".")

		return nil
	}

	for _, e := range events {
		a.printEventCard(e)
	}

	return nil
}

func (a *App) runOrganizerCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("organizer create", flag.ContinueOnError)
	fs.SetOutput(a.out)

	var input api.EventInput
	var tags string
	publish := fs.Bool("publish", false, "publish immediately instead of saving a draft")

	fs.StringVar(&input.Title, "title", "", "event title")
	fs.StringVar(&input.Description, "description", "", "full description")
	fs.StringVar(&input.ShortDescription, "short-description", "", "one-line description")
	fs.StringVar(&input.Category, "category", "", "category")
	fs.StringVar(&input.Date, "date", "", "date (YYYY-MM-DD)")
	fs.StringVar(&input.Time, "time", "", "start time (HH:MM)")
	fs.StringVar(&input.EndDate, "end-date", "", "end date (optional)")
	fs.StringVar(&input.EndTime, "end-time", "", "end time (optional)")
	fs.StringVar(&input.Location, "location", "", "venue name")
	fs.StringVar(&input.City, "city", "", "city")
	fs.StringVar(&input.State, "state", "", "state code")
	fs.StringVar(&input.Address, "address", "", "street address (optional)")
	fs.StringVar(&input.ImageURL, "image-url", "", "cover image URL (optional)")
	fs.IntVar(&input.Capacity, "capacity", 0, "maximum attendees")
	fs.Float64Var(&input.Price, "price", 0, "ticket price (0 for free)")
	fs.BoolVar(&input.IsFree, "free", false, "free event")
	fs.StringVar(&input.RegistrationDeadline, "deadline", "", "registration deadline (optional)")
	fs.StringVar(&tags, "tags", "", "comma-separated tags")

	if err := fs.Parse(args); err != nil {
		return err
	}

	input.Status = models.EventDraft
	if *publish {
		input.Status = models.EventPublished
	}

	if tags != "" {
		input.Tags = strings.Split(tags, ",")
	}

	if err := validator.New().Struct(input); err != nil {
		return validationErr(err)
	}

	event, err := a.api.CreateEvent(ctx, input)
	if err != nil {
		return err
	}

	okColor.Fprintf(a.out, "Event created (%s).\n", event.Status)
	fmt.Fprintf(a.out, "  id: %s\n", event.ID)

	return nil
}

func (a *App) runOrganizerUpdate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: xe organizer update <event-id> [flags]")
	}

	id, rest := args[0], args[1:]

	fs := flag.NewFlagSet("organizer update", flag.ContinueOnError)
	fs.SetOutput(a.out)

	title := fs.String("title", "", "event title")
	description := fs.String("description", "", "full description")
	shortDescription := fs.String("short-description", "", "one-line description")
	category := fs.String("category", "", "category")
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	timeFlag := fs.String("time", "", "start time (HH:MM)")
	location := fs.String("location", "", "venue name")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state code")
	address := fs.String("address", "", "street address")
	imageURL := fs.String("image-url", "", "cover image URL")
	capacity := fs.Int("capacity", 0, "maximum attendees")
	price := fs.Float64("price", 0, "ticket price")
	free := fs.Bool("free", false, "free event")
	deadline := fs.String("deadline", "", "registration deadline")
	tags := fs.String("tags", "", "comma-separated tags")

	if err := fs.Parse(rest); err != nil {
		return err
	}

	// only the flags actually passed become part of the patch
	var patch api.EventPatch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "description":
			patch.Description = description
		case "short-description":
			patch.ShortDescription = shortDescription
		case "category":
			patch.Category = category
		case "date":
			patch.Date = date
		case "time":
			patch.Time = timeFlag
		case "location":
			patch.Location = location
		case "city":
			patch.City = city
		case "state":
			patch.State = state
		case "address":
			patch.Address = address
		case "image-url":
			patch.ImageURL = imageURL
		case "capacity":
			patch.Capacity = capacity
		case "price":
			patch.Price = price
		case "free":
			patch.IsFree = free
		case "deadline":
			patch.RegistrationDeadline = deadline
		case "tags":
			split := strings.Split(*tags, ",")
			patch.Tags = &split
		}
	})

	if patch == (api.EventPatch{}) {
		return errors.New("nothing to update, pass at least one flag")
	}

	event, err := a.api.UpdateEvent(ctx, id, patch)
	if err != nil {
		return err
	}

	okColor.Fprintln(a.out, "Event updated.")
	a.printEventCard(event)

	return nil
}

func (a *App) runOrganizerPublish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: xe organizer publish <event-id>")
	}

	event, err := a.api.PublishEvent(ctx, args[0])
	if err != nil {
		return err
	}

	okColor.Fprintln(a.out, "Event published, registrations are open.")
	a.printEventCard(event)

	return nil
}

func (a *App) runOrganizerToggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: xe organizer toggle <event-id>")
	}

	event, err := a.api.ToggleRegistrations(ctx, args[0])
	if err != nil {
		return err
	}

	if event.RegistrationsOpen {
		okColor.Fprintln(a.out, "Registrations are now open.")
	} else {
		warnColor.Fprintln(a.out, "Registrations are now closed.")
	}

	return nil
}

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/go-playground/validator/v10"

	"eventxplore/internal/api"
	"eventxplore/internal/models"
)

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.out)

	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" {
		return fmt.Errorf("usage: xe login --email E --password P")
	}

	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}

	okColor.Fprintf(a.out, "Logged in as %s", user.Name)
	dimColor.Fprintf(a.out, " (%s)\n", user.Role)

	return nil
}

func (a *App) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.out)

	req := api.RegisterRequest{Role: models.RoleUser}
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password (min 6 chars)")
	fs.StringVar(&req.City, "city", "", "home city (optional)")
	role := fs.String("role", string(models.RoleUser), "account role: user or organizer")

	if err := fs.Parse(args); err != nil {
		return err
	}

	req.Role = models.UserRole(*role)

	// reject bad input before it travels
	if err := validator.New().Struct(req); err != nil {
		return validationErr(err)
	}

	user, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}

	okColor.Fprintf(a.out, "Welcome, %s!", user.Name)
	dimColor.Fprintf(a.out, " (%s)\n", user.Role)

	return nil
}

func (a *App) runLogout() error {
	if err := a.session.Logout(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out.")

	return nil
}

func (a *App) runWhoami() error {
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in.")

		return nil
	}

	titleColor.Fprintln(a.out, user.Name)
	fmt.Fprintf(a.out, "  email: %s\n", user.Email)
	fmt.Fprintf(a.out, "  role:  %s\n", user.Role)
	if user.City != "" {
		fmt.Fprintf(a.out, "  city:  %s\n", user.City)
	}

	return nil
}

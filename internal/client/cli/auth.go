package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/locale"
	"github.com/dmitrijs2005/jobportal/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a candidate's name, email and password and creates
// the account. The new session starts immediately.
func (a *App) Register(ctx context.Context) error {
	var s services.CandidateSignup
	var err error

	if s.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if s.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if s.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if s.Password, err = getPassword(a.out); err != nil {
		return err
	}

	user, err := a.authService.RegisterCandidate(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.DisplayName())
	return nil
}

// RegisterCompany prompts for a company name, email and password. The
// company locale follows the current interface language.
func (a *App) RegisterCompany(ctx context.Context) error {
	var s services.CompanySignup
	var err error

	if s.Name, err = getSimpleText(a.reader, "Company name", a.out); err != nil {
		return err
	}
	if s.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if s.Password, err = getPassword(a.out); err != nil {
		return err
	}

	user, err := a.authService.RegisterCompany(ctx, s)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Company registered, signed in as %s\n", user.DisplayName())
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", user.DisplayName())
	return nil
}

// Logout ends the session and forgets the loaded vacancy list.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	a.feed = nil
	return a.authService.Logout(ctx)
}

// WhoAmI prints the session as held locally, without calling the server.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.authService.Session()
	fmt.Fprintf(a.out, "Language: %s\n", a.authService.Language(ctx))

	if !snap.IsLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	if u := snap.User; u != nil {
		fmt.Fprintf(a.out, "User: %s <%s>\n", u.DisplayName(), u.Email)
		if u.UserType != "" {
			fmt.Fprintf(a.out, "Type: %s\n", u.UserType)
		}
	}
	if exp, ok := a.authService.TokenExpiry(); ok {
		fmt.Fprintf(a.out, "Access token expires: %s\n", exp.Local().Format(time.RFC1123))
	}
	if !snap.CanRefresh() {
		fmt.Fprintln(a.out, "Session cannot be refreshed.")
	}
	return nil
}

// Profile fetches the current user, and company if any, from the server.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.authService.Profile(ctx)
	if err != nil {
		return err
	}

	u := p.User
	fmt.Fprintf(a.out, "ID:       %s\n", u.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", u.DisplayName())
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	if u.Role != "" {
		fmt.Fprintf(a.out, "Role:     %s\n", u.Role)
	}
	if u.Position != "" {
		fmt.Fprintf(a.out, "Position: %s\n", u.Position)
	}
	if c := p.Company; c != nil {
		fmt.Fprintf(a.out, "Company:  %s (%s)\n", c.Name, c.ID)
		if c.DefaultLocale != "" {
			fmt.Fprintf(a.out, "Locale:   %s\n", c.DefaultLocale)
		}
	}
	return nil
}

// Lang prints the interface language, or switches it when code is given.
func (a *App) Lang(ctx context.Context, code string) error {
	if code == "" {
		fmt.Fprintf(a.out, "Language: %s (available: %s, %s, %s)\n",
			a.authService.Language(ctx), locale.EN, locale.HY, locale.RU)
		return nil
	}
	l, err := a.authService.SetLanguage(ctx, code)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Language set to %s\n", l)
	return nil
}

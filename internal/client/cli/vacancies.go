package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobportal/internal/client/api"
	"github.com/dmitrijs2005/jobportal/internal/client/models"
	"github.com/dmitrijs2005/jobportal/internal/client/pager"
	"github.com/dmitrijs2005/jobportal/internal/common"
)

var errNoList = errors.New("no list loaded, use 'list' first")

var getMultiline = GetMultiline

// List opens a new vacancy feed, optionally filtered by query, and prints
// the first page.
func (a *App) List(ctx context.Context, query string) error {
	if !a.isLoggedIn() {
		return common.ErrorNotAuthenticated
	}

	feed := a.vacancyService.Feed(api.ListParams{Query: query})
	a.feed = feed
	if err := feed.Reload(ctx); err != nil {
		return err
	}

	items := feed.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No vacancies found.")
		return nil
	}
	a.printVacancies(items)
	a.printFeedFooter(feed)
	return nil
}

// More loads the next page of the current feed and prints what it added.
func (a *App) More(ctx context.Context) error {
	if a.feed == nil {
		return errNoList
	}
	if a.feed.IsEndReached() {
		fmt.Fprintln(a.out, "End of list.")
		return nil
	}

	before := len(a.feed.Items())
	loaded, err := a.feed.LoadMore(ctx)
	if err != nil {
		if errors.Is(err, pager.ErrStale) {
			return nil
		}
		return err
	}
	if !loaded {
		return nil
	}

	items := a.feed.Items()
	a.printVacancies(items[before:])
	a.printFeedFooter(a.feed)
	return nil
}

func (a *App) printVacancies(items []models.Vacancy) {
	for _, v := range items {
		line := fmt.Sprintf("%s  %s  [%s]", v.ID, v.Title, v.JobType)
		if v.Location != nil && *v.Location != "" {
			line += "  " + *v.Location
		}
		if s := v.SalaryRange(); s != "" {
			line += "  " + s
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) printFeedFooter(feed *pager.Feed[models.Vacancy]) {
	if feed.IsEndReached() {
		fmt.Fprintf(a.out, "%d vacancies, end of list.\n", len(feed.Items()))
		return
	}
	fmt.Fprintf(a.out, "%d vacancies loaded, type 'more' for the next page.\n", len(feed.Items()))
}

func (a *App) Show(ctx context.Context, id string) error {
	v, err := a.vacancyService.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n", v.Title, strings.Repeat("-", len(v.Title)))
	fmt.Fprintf(a.out, "ID:       %s\n", v.ID)
	fmt.Fprintf(a.out, "Company:  %s\n", v.CompanyID)
	fmt.Fprintf(a.out, "Type:     %s\n", v.JobType)
	fmt.Fprintf(a.out, "Status:   %s\n", v.Status)
	if v.Location != nil && *v.Location != "" {
		fmt.Fprintf(a.out, "Location: %s\n", *v.Location)
	}
	if s := v.SalaryRange(); s != "" {
		fmt.Fprintf(a.out, "Salary:   %s\n", s)
	}
	if !v.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "Updated:  %s\n", v.UpdatedAt.Local().Format(time.DateOnly))
	}
	if v.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", v.Description)
	}
	return nil
}

// Apply asks for a document (local path or s3://bucket/key) and an optional
// cover letter, then submits the application.
func (a *App) Apply(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return common.ErrorNotAuthenticated
	}

	src, err := getSimpleText(a.reader, "CV file (.pdf, .doc, .docx; local path or s3://bucket/key)", a.out)
	if err != nil {
		return err
	}
	letter, err := getMultiline(a.reader, "Cover letter (optional)", a.out)
	if err != nil {
		return err
	}

	if err := a.vacancyService.Apply(ctx, id, src, letter); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Application sent.")
	return nil
}

// Public lists the unauthenticated catalogue.
func (a *App) Public(ctx context.Context, query string) error {
	items, err := a.vacancyService.Public(ctx, api.PublicListParams{Query: query})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No vacancies found.")
		return nil
	}
	for _, v := range items {
		line := fmt.Sprintf("%s  %s", v.Slug, v.Title)
		if v.CompanyName != "" {
			line += "  @ " + v.CompanyName
		}
		if v.Location != "" {
			line += "  " + v.Location
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) PublicShow(ctx context.Context, slug string) error {
	v, err := a.vacancyService.PublicBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintf(a.out, "Vacancy %q not found.\n", slug)
			return nil
		}
		return err
	}

	fmt.Fprintf(a.out, "%s\n%s\n", v.Title, strings.Repeat("-", len(v.Title)))
	for _, f := range [][2]string{
		{"Company", v.CompanyName},
		{"Location", v.Location},
		{"Type", v.EmploymentType},
		{"Salary", v.Salary},
		{"Published", v.PublishedAt},
	} {
		if f[1] != "" {
			fmt.Fprintf(a.out, "%-10s %s\n", f[0]+":", f[1])
		}
	}
	if v.Description != "" {
		fmt.Fprintf(a.out, "\n%s\n", v.Description)
	}
	return nil
}

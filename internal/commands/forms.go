package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/balkashynov/punch/internal/models"
	"github.com/balkashynov/punch/internal/parser"
)

func statusOptions() []huh.Option[string] {
	return huh.NewOptions(models.StatusCompleted, models.StatusInProgress, models.StatusPaused)
}

func approvalOptions() []huh.Option[string] {
	return huh.NewOptions(models.ApprovalPending, models.ApprovalApproved)
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func checkDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func checkClock(s string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
		return errors.New("use HH:MM")
	}
	return nil
}

// runLoginForm asks for credentials
func runLoginForm(email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(email).Validate(requireText("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(requireText("password")),
		),
	).Run()
}

// runFinishForm asks what was done in the session being stopped
func runFinishForm(form *models.FinishForm) error {
	if form.Status == "" {
		form.Status = models.StatusCompleted
	}
	if form.ApprovedState == "" {
		form.ApprovedState = models.ApprovalPending
	}
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("What did you work on?").Value(&form.WorkDescription),
			huh.NewInput().Title("Project").Value(&form.Project),
			huh.NewInput().Title("Category").Value(&form.Category),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Status").Options(statusOptions()...).Value(&form.Status),
			huh.NewSelect[string]().Title("Approval").Options(approvalOptions()...).Value(&form.ApprovedState),
		),
	).Run()
	if err != nil {
		return err
	}
	pullTokens(form.WorkDescription, &form.WorkDescription, &form.Project, &form.Category)
	return nil
}

// runDraftForm edits a hand-entered session. Start and end are HH:MM; an end
// before the start means the session ran past midnight.
func runDraftForm(title string, d *models.Draft) error {
	descr := d.WorkDescription
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&d.Date).Validate(checkDate),
			huh.NewInput().Title("Start").Placeholder("HH:MM").Value(&d.StartTime).Validate(checkClock),
			huh.NewInput().Title("End").Placeholder("HH:MM").
				Description("An end before the start is split at midnight").
				Value(&d.EndTime).Validate(checkClock),
		),
		huh.NewGroup(
			huh.NewText().Title("Description").
				Description("Trailing @project and #category are picked up").
				Value(&descr),
			huh.NewInput().Title("Project").Value(&d.Project),
			huh.NewInput().Title("Category").Value(&d.Category),
		),
	).Run()
	if err != nil {
		return err
	}
	pullTokens(descr, &d.WorkDescription, &d.Project, &d.Category)
	return nil
}

// pullTokens strips inline @project and #category tokens from input into
// project and category unless those were filled in explicitly
func pullTokens(input string, descr, project, category *string) {
	parsed := parser.ParseDescription(input)
	*descr = parsed.Description
	if *project == "" {
		*project = parsed.Project
	}
	if *category == "" {
		*category = parsed.Category
	}
}

// runUserForm edits an account. An empty password keeps the current one
// unless the password is required.
func runUserForm(u *models.User, requirePassword bool) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	password := huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&u.Password)
	if requirePassword {
		password = password.Validate(requireText("password"))
	} else {
		password = password.Description("Leave empty to keep the current password")
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&u.Name).Validate(requireText("name")),
			huh.NewInput().Title("Email").Value(&u.Email).Validate(requireText("email")),
			password,
			huh.NewSelect[string]().Title("Role").
				Options(huh.NewOptions(models.RoleUser, models.RoleAdmin)...).
				Value(&u.Role),
		),
	).Run()
}

// confirm asks a yes/no question
func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

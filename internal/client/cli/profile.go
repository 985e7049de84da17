package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/spf13/cobra"
)

// profileField binds a flag and an onboarding prompt to one ProfileUpdate
// field.
type profileField struct {
	flag   string
	prompt string
	list   bool
	set    func(p *models.ProfileUpdate, v string)
}

func strSetter(field func(p *models.ProfileUpdate) **string) func(*models.ProfileUpdate, string) {
	return func(p *models.ProfileUpdate, v string) {
		*field(p) = &v
	}
}

var profileFields = []profileField{
	{flag: "first-name", prompt: "First name", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.FirstName })},
	{flag: "last-name", prompt: "Last name", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.LastName })},
	{flag: "location", prompt: "Location", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.Location })},
	{flag: "city", prompt: "City", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.City })},
	{flag: "skills", prompt: "Skills (comma separated)", list: true, set: func(p *models.ProfileUpdate, v string) { p.Skills = SplitList(v) }},
	{flag: "interests", prompt: "Interests (comma separated)", list: true, set: func(p *models.ProfileUpdate, v string) { p.Interests = SplitList(v) }},
	{flag: "specialization", prompt: "Specialization", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.Specialization })},
	{flag: "availability", prompt: "Availability", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.Availability })},
	{flag: "bio", prompt: "Short bio", set: strSetter(func(p *models.ProfileUpdate) **string { return &p.Bio })},
}

func (a *App) profileCommand() *cobra.Command {
	values := make(map[string]*string, len(profileFields))

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		Long: `Update profile fields. Only the flags you pass are sent; list flags take
comma separated values. Without flags the fields are prompted for.

Saving any field marks the profile as completed.`,
		Example: `  connectlink profile --first-name Alice --city Riga --skills go,sql`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p models.ProfileUpdate
			for _, f := range profileFields {
				if cmd.Flags().Changed(f.flag) {
					f.set(&p, *values[f.flag])
				}
			}

			if p.Empty() {
				var err error
				if p, err = a.promptProfile(); err != nil {
					return err
				}
			}
			if p.Empty() {
				return errors.New("nothing to update")
			}

			u, err := a.auth.UpdateProfile(cmd.Context(), p)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintln(a.out, "Profile saved.")
			printUser(a.out, u)
			return nil
		},
	}

	for _, f := range profileFields {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.prompt)
	}
	return cmd
}

// promptProfile asks for every field; empty answers are skipped.
func (a *App) promptProfile() (models.ProfileUpdate, error) {
	var p models.ProfileUpdate
	for _, f := range profileFields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return p, err
		}
		if v == "" || (f.list && SplitList(v) == nil) {
			continue
		}
		f.set(&p, v)
	}
	return p, nil
}

func printUser(w io.Writer, u *models.User) {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = "-"
	}
	status := "incomplete"
	if u.ProfileCompleted {
		status = "complete"
	}

	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	fmt.Fprintf(w, "Type:     %s\n", u.UserType)
	fmt.Fprintf(w, "Name:     %s\n", name)
	if u.City != "" || u.Location != "" {
		fmt.Fprintf(w, "Location: %s\n", strings.Trim(u.City+", "+u.Location, ", "))
	}
	if len(u.Skills) > 0 {
		fmt.Fprintf(w, "Skills:   %s\n", strings.Join(u.Skills, ", "))
	}
	fmt.Fprintf(w, "Profile:  %s\n", status)
}

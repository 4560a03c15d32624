package app

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/horizonten/gemenskap/pkg/auth"
	"gitlab.com/horizonten/gemenskap/pkg/nav"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

// loginForm is the sign-in or sign-up form. Sign-up adds a name field.
type loginForm struct {
	mode   nav.FormMode
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
}

func newLoginForm(mode nav.FormMode) *loginForm {
	email := textinput.New()
	email.Prompt = "E-post:    "
	email.Placeholder = "namn@example.se"
	email.CharLimit = 254

	password := textinput.New()
	password.Prompt = "Lösenord:  "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	inputs := []textinput.Model{email, password}
	if mode == nav.ModeSignUp {
		name := textinput.New()
		name.Prompt = "Namn:      "
		name.Placeholder = "Förnamn Efternamn"
		name.CharLimit = 80
		inputs = append(inputs, name)
	}

	f := &loginForm{mode: mode, inputs: inputs}
	f.inputs[fieldEmail].Focus()
	return f
}

func (f *loginForm) title(flavor nav.Flavor) string {
	switch {
	case f.mode == nav.ModeSignUp:
		return "Bli medlem"
	case flavor == nav.FlavorPremium:
		return "Logga in på Premium"
	default:
		return "Logga in"
	}
}

// cycle moves focus delta fields, wrapping at both ends.
func (f *loginForm) cycle(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

func (f *loginForm) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if f.err != "" {
		f.err = ""
	}
	return cmd
}

func (f *loginForm) values() (email, password, name string) {
	email = strings.TrimSpace(f.inputs[fieldEmail].Value())
	password = f.inputs[fieldPassword].Value()
	if len(f.inputs) > fieldName {
		name = strings.TrimSpace(f.inputs[fieldName].Value())
	}
	return email, password, name
}

// validate reports the first missing field as a user-facing message.
func (f *loginForm) validate() string {
	email, password, name := f.values()
	switch {
	case email == "":
		return "Ange din e-postadress"
	case password == "":
		return "Ange ditt lösenord"
	case f.mode == nav.ModeSignUp && name == "":
		return "Ange ditt namn"
	}
	return ""
}

func (f *loginForm) fields() []string {
	out := make([]string, len(f.inputs))
	for i := range f.inputs {
		out[i] = f.inputs[i].View()
	}
	return out
}

// formError turns a provider error into the message shown under the form.
func formError(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Fel e-post eller lösenord"
	case errors.Is(err, auth.ErrAccountExists):
		return "Det finns redan ett konto med den e-postadressen"
	case errors.Is(err, auth.ErrWeakPassword):
		return "Lösenordet måste ha minst 8 tecken"
	default:
		return "Något gick fel, försök igen"
	}
}

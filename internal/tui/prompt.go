package tui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Prompter abstracts interactive prompts so commands can be tested without a
// terminal.
type Prompter interface {
	Input(title, description string, validate func(string) error) (string, error)
	Select(title, description string, options []huh.Option[string]) (string, error)
}

// HuhPrompter runs prompts with charmbracelet/huh.
type HuhPrompter struct{}

// Input asks for a single line of text.
func (HuhPrompter) Input(title, description string, validate func(string) error) (string, error) {
	var value string
	field := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	if err := runField(field); err != nil {
		return "", err
	}
	return value, nil
}

// Select asks for one of options and returns its value.
func (HuhPrompter) Select(title, description string, options []huh.Option[string]) (string, error) {
	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Description(description).
		Options(options...).
		Value(&value)
	if err := runField(field); err != nil {
		return "", err
	}
	return value, nil
}

func runField(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).WithTheme(huh.ThemeBase()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrInterrupted
	}
	return err
}

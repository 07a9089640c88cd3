// Package prompt wraps interactive terminal questions behind a small Driver
// interface so command flows can be tested without a real terminal.
package prompt

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-licensekit/pkg/resolver"
)

// ErrAborted is returned when the user interrupts a prompt (Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// InputConfig configures a single text question.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// ConfirmConfig configures a yes/no question.
type ConfirmConfig struct {
	Message string
	Default bool
}

// Driver asks questions. The survey implementation talks to the terminal;
// tests supply scripted answers.
type Driver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

type surveyDriver struct{}

// NewSurveyDriver returns the terminal-backed driver.
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	question := &survey.Input{
		Message: cfg.Message,
		Default: cfg.Default,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(question, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	question := &survey.Confirm{
		Message: cfg.Message,
		Default: cfg.Default,
	}
	if err := survey.AskOne(question, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// Values walks a resolution and asks for each placeholder, offering the
// already resolved value as the default. An empty answer for an unfilled
// placeholder leaves it unfilled. Returns the answers keyed by canonical
// placeholder key, ready to be fed back as explicit values.
func Values(ctx context.Context, driver Driver, res resolver.Resolution) (map[string]string, error) {
	answers := make(map[string]string)
	for _, value := range res.Values {
		if _, done := answers[value.Spec.Key]; done {
			continue
		}
		message := value.Spec.Name
		if value.Spec.Description != "" {
			message = value.Spec.Description
		}
		answer, err := driver.Input(ctx, InputConfig{
			Message: message,
			Default: value.Value,
			Help:    "value for " + value.Spec.Token,
		})
		if err != nil {
			return nil, err
		}
		if answer == "" {
			continue
		}
		answers[value.Spec.Key] = answer
	}
	return answers, nil
}

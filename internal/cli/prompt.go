package cli

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/evcraddock/price-estimator/internal/predict"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

// Prompter asks the user for form values. It lets the interactive flow be
// tested without a terminal.
type Prompter interface {
	Select(message string, choices []string, def string) (string, error)
	Input(message, def, help string) (string, error)
}

// newPrompter is replaced in tests.
var newPrompter = func() Prompter { return surveyPrompter{} }

type surveyPrompter struct{}

func (surveyPrompter) Select(message string, choices []string, def string) (string, error) {
	var out string
	prompt := &survey.Select{
		Message:  message,
		Options:  choices,
		PageSize: 16,
	}
	if contains(choices, def) {
		prompt.Default = def
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(message, def, help string) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: def,
		Help:    help,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}

// promptForm walks the user through every field, starting from the form's
// current values.
func promptForm(p Prompter, form *predict.Controller) error {
	opts := form.Options()
	in := form.Input()

	propertyType, err := p.Select(predict.FieldPropertyType.Label()+":", opts.PropertyTypes, in.PropertyType)
	if err != nil {
		return err
	}
	if err := form.SetField(predict.FieldPropertyType, propertyType); err != nil {
		return err
	}

	township, err := p.Select(predict.FieldTownship.Label()+":", opts.Townships, in.Township)
	if err != nil {
		return err
	}
	if err := form.SetField(predict.FieldTownship, township); err != nil {
		return err
	}

	bedrooms, err := p.Input(predict.FieldBedrooms.Label()+":", predict.FormatNumber(in.Bedrooms),
		fmt.Sprintf("Usually between %d and %d", predict.MinBedrooms, predict.MaxBedrooms))
	if err != nil {
		return err
	}
	if err := form.SetField(predict.FieldBedrooms, bedrooms); err != nil {
		return err
	}

	size, err := p.Input(predict.FieldPropertySize.Label()+":", predict.FormatNumber(in.PropertySize),
		fmt.Sprintf("Usually between %d and %d", predict.MinPropertySize, predict.MaxPropertySize))
	if err != nil {
		return err
	}
	return form.SetField(predict.FieldPropertySize, size)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

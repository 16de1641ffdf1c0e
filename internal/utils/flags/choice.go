package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix  = "<"
	choicePlaceholderSuffix  = ">"
	choiceSeparatorLiteral   = "|"
	choiceUsageEmptyTemplate = "`%s`"
	choiceUsageFullTemplate  = "`%s` %s"
	choiceTypeNameConstant   = "string"
	choiceInvalidTemplate    = "invalid value %q, expected one of %s"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// AddChoiceFlag registers a string flag restricted to choices. Matching is case-insensitive
// and the canonical spelling from choices is stored in target.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target != nil {
		*target = defaultChoice
	}
	flagSet.Var(&choiceValue{currentValue: defaultChoice, choices: choices, target: target}, name, FormatChoiceUsage(defaultChoice, choices, description))
}

type choiceValue struct {
	currentValue string
	choices      []string
	target       *string
}

func (value *choiceValue) Set(rawValue string) error {
	trimmedValue := strings.TrimSpace(rawValue)
	for _, choice := range value.choices {
		if strings.EqualFold(strings.TrimSpace(choice), trimmedValue) {
			value.currentValue = strings.TrimSpace(choice)
			if value.target != nil {
				*value.target = value.currentValue
			}
			return nil
		}
	}
	return fmt.Errorf(choiceInvalidTemplate, rawValue, strings.Join(value.choices, choiceSeparatorLiteral))
}

func (value *choiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.currentValue
}

func (value *choiceValue) Type() string {
	return choiceTypeNameConstant
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		highlighted = append(highlighted, trimmedChoice)
	}

	return highlighted
}

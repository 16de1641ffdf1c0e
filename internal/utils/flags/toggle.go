package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleTypeNameConstant                 = "bool"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	longFlagPrefixConstant                 = "--"
	shortFlagPrefixConstant                = "-"
	flagValueSeparatorConstant             = "="
)

var (
	toggleLiterals = map[string]bool{
		"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
		"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
	}

	toggleRegistryMutex sync.RWMutex
	toggleRegistry      = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that accepts yes/no style values, either as
// "--flag=value", "--flag value" (after NormalizeToggleArguments) or bare "--flag".
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.VarP(newToggleValue(defaultValue, target), name, shorthand, formatToggleUsage(usage, defaultValue))
	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue

	toggleRegistryMutex.Lock()
	defer toggleRegistryMutex.Unlock()
	toggleRegistry[longFlagPrefixConstant+name] = struct{}{}
	if len(shorthand) > 0 {
		toggleRegistry[shortFlagPrefixConstant+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments rewrites "--flag value" into "--flag=value" for registered toggle
// flags so pflag does not treat the value as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == longFlagPrefixConstant {
			return append(normalized, arguments[index:]...)
		}

		if isRegisteredToggle(current) && index+1 < len(arguments) {
			if _, isLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(arguments[index+1]))]; isLiteral {
				normalized = append(normalized, current+flagValueSeparatorConstant+arguments[index+1])
				index++
				continue
			}
		}

		normalized = append(normalized, current)
	}
	return normalized
}

func isRegisteredToggle(argument string) bool {
	if !strings.HasPrefix(argument, shortFlagPrefixConstant) || strings.Contains(argument, flagValueSeparatorConstant) {
		return false
	}
	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := toggleRegistry[argument]
	return registered
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmed := strings.TrimSpace(description)
	if len(trimmed) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmed)
}

type toggleValue struct {
	currentValue bool
	target       *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{currentValue: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		normalizedValue = toggleTrueCanonicalValue
	}
	parsedValue, isLiteral := toggleLiterals[normalizedValue]
	if !isLiteral {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleValue) Type() string {
	return toggleTypeNameConstant
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
	OptionTypeList // String option that may be given more than once
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values        map[string]string
	lists         map[string][]string
	args          []string
	defs          map[string]*OptionDef
	order         []string          // Long names in definition order, for usage output
	shortMap      map[string]string // Maps short options to long options
	explicitlySet map[string]bool
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:        make(map[string]string),
		lists:         make(map[string][]string),
		defs:          make(map[string]*OptionDef),
		shortMap:      make(map[string]string),
		explicitlySet: make(map[string]bool),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, description string) {
	p.defs[long] = &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
	}
	p.order = append(p.order, long)
	if short != "" {
		p.shortMap[short] = long
	}
	if defaultValue != "" {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments. Everything after "--" is a plain argument.
func (p *ParsedOptions) Parse(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			p.args = append(p.args, args[i+1:]...)
			return nil
		case strings.HasPrefix(arg, "--"):
			if err := p.parseLongOption(arg, args, &i); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if err := p.parseShortOptions(arg, args, &i); err != nil {
				return err
			}
		default:
			p.args = append(p.args, arg)
		}
	}
	return nil
}

// set stores a value for an option after type checking it
func (p *ParsedOptions) set(def *OptionDef, value, shown string) error {
	switch def.Type {
	case OptionTypeBool:
		switch value {
		case "true", "1":
			value = "true"
		case "false", "0":
			value = "false"
		default:
			return fmt.Errorf("invalid boolean value for %s: %s", shown, value)
		}
	case OptionTypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", shown, value)
		}
	case OptionTypeList:
		p.lists[def.Long] = append(p.lists[def.Long], value)
	}
	p.values[def.Long] = value
	p.explicitlySet[def.Long] = true
	return nil
}

// parseLongOption parses --option, --option=value or --option value
func (p *ParsedOptions) parseLongOption(arg string, args []string, i *int) error {
	optName := strings.TrimPrefix(arg, "--")
	optValue := ""
	hasValue := false
	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optValue = optName[equalPos+1:]
		optName = optName[:equalPos]
		hasValue = true
	}

	def, exists := p.defs[optName]
	if !exists {
		return fmt.Errorf("unknown option: --%s", optName)
	}
	shown := "--" + optName

	if def.Type == OptionTypeBool {
		if !hasValue {
			optValue = "true"
		}
		return p.set(def, optValue, shown)
	}

	if !hasValue {
		if *i+1 >= len(args) {
			return fmt.Errorf("option %s requires a value", shown)
		}
		*i++
		optValue = args[*i]
	}
	return p.set(def, optValue, shown)
}

// parseShortOptions parses -o, -o value, and grouped flags like -vvv or -qv
func (p *ParsedOptions) parseShortOptions(arg string, args []string, i *int) error {
	shortOpts := strings.TrimPrefix(arg, "-")

	// Count repetitions so -vvv means level 3
	counts := make(map[string]int)
	var seen []string
	for _, r := range shortOpts {
		short := string(r)
		if _, exists := p.shortMap[short]; !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}
		if counts[short] == 0 {
			seen = append(seen, short)
		}
		counts[short]++
	}

	for _, short := range seen {
		def := p.defs[p.shortMap[short]]
		shown := "-" + short

		switch def.Type {
		case OptionTypeBool:
			if err := p.set(def, "true", shown); err != nil {
				return err
			}
		case OptionTypeInt:
			value := strconv.Itoa(counts[short])
			// A single -v may take an explicit level from the next argument
			if counts[short] == 1 && *i+1 < len(args) {
				if _, err := strconv.Atoi(args[*i+1]); err == nil {
					*i++
					value = args[*i]
				}
			}
			if err := p.set(def, value, shown); err != nil {
				return err
			}
		default:
			if len(shortOpts) != 1 {
				return fmt.Errorf("option %s takes a value and cannot be grouped", shown)
			}
			if *i+1 >= len(args) {
				return fmt.Errorf("option %s requires a value", shown)
			}
			*i++
			if err := p.set(def, args[*i], shown); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	return p.values[option] == "true"
}

// GetList returns every value given for a list option, in order
func (p *ParsedOptions) GetList(option string) []string {
	return p.lists[option]
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	return p.explicitlySet[option]
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// WriteUsage writes the option list in definition order
func (p *ParsedOptions) WriteUsage(w io.Writer) {
	for _, long := range p.order {
		def := p.defs[long]
		shortOpt := "    "
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString, OptionTypeList:
			valueDesc = "=VALUE"
		case OptionTypeInt:
			valueDesc = "=N"
		}

		fmt.Fprintf(w, "  %s--%s%s\n", shortOpt, def.Long, valueDesc)
		fmt.Fprintf(w, "        %s\n", def.Description)
	}
}

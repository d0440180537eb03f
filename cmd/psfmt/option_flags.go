package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"psfmt/internal/config"
)

// addOptionFlags registers one flag per formatter option, named in
// kebab-case (indentSize -> --indent-size).
func addOptionFlags(flags *pflag.FlagSet) {
	for _, f := range config.Schema() {
		name := config.FlagName(f.Name)
		usage := f.Description
		if len(f.Choices) > 0 {
			usage = fmt.Sprintf("%s (%s)", usage, joinChoices(f.Choices))
		}
		switch f.Type {
		case config.TypeBool:
			def, _ := strconv.ParseBool(f.Default)
			flags.Bool(name, def, usage)
		case config.TypeInt:
			def, _ := strconv.Atoi(f.Default)
			flags.Int(name, def, usage)
		default:
			flags.String(name, f.Default, usage)
		}
	}
	flags.String("config", "", "use this config file instead of discovering .psfmt.toml/.psfmt.yaml")
}

// optionsFromFlags collects the options set explicitly on the command line.
// Flags left at their defaults do not override config files.
func optionsFromFlags(flags *pflag.FlagSet) (config.Options, error) {
	var opts config.Options
	for _, f := range config.Schema() {
		flag := flags.Lookup(config.FlagName(f.Name))
		if flag == nil || !flag.Changed {
			continue
		}
		if err := f.Set(&opts, flag.Value.String()); err != nil {
			return config.Options{}, fmt.Errorf("--%s: %w", flag.Name, err)
		}
	}
	return opts, nil
}

func joinChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += "|"
		}
		out += c
	}
	return out
}

// Package cliargs parses "-name value" argument lists into a map.
//
// Every token starting with '-' is a flag name and the token after it is its
// value, even when that value itself starts with '-'. Tokens that are not flag
// names are only read as values, so stray positionals are ignored. A repeated
// flag keeps its last value.
package cliargs

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingValue = errors.New("flag needs a value")

func Parse(args []string) (map[string]string, error) {
	opts := make(map[string]string)
	for i, arg := range args {
		if !IsFlag(arg) {
			continue
		}
		if i+1 >= len(args) {
			return nil, fmt.Errorf("%s: %w", arg, ErrMissingValue)
		}
		opts[arg] = args[i+1]
	}
	return opts, nil
}

func IsFlag(arg string) bool {
	return strings.HasPrefix(arg, "-")
}

// Lookup returns the value of the first name present in opts.
func Lookup(opts map[string]string, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := opts[name]; ok {
			return v, true
		}
	}
	return "", false
}

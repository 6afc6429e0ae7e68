package config

import (
	"unicode/utf8"

	"github.com/unkn0wn-root/numfield/internal/errdef"
	"github.com/unkn0wn-root/numfield/internal/numeral"
)

// Profile is the on-disk numeric policy of one field. Separator is a single
// character; Limit uses the "intDigits.decDigits" form with either half
// optional; Max and Min are decimal strings.
type Profile struct {
	Separator string `json:"separator,omitempty" toml:"separator,omitempty" yaml:"separator,omitempty"`
	Limit     string `json:"limit,omitempty"     toml:"limit,omitempty"     yaml:"limit,omitempty"`
	Max       string `json:"max,omitempty"       toml:"max,omitempty"       yaml:"max,omitempty"`
	Min       string `json:"min,omitempty"       toml:"min,omitempty"       yaml:"min,omitempty"`
	Precise   bool   `json:"precise,omitempty"   toml:"precise,omitempty"   yaml:"precise,omitempty"`
}

// Options validates the profile and converts it to the field policy.
func (p Profile) Options() (numeral.Options, error) {
	var opts numeral.Options

	if p.Separator != "" {
		if utf8.RuneCountInString(p.Separator) != 1 {
			return numeral.Options{}, errdef.New(
				errdef.CodeConfig, "separator must be a single character, got %q", p.Separator,
			)
		}
		sep, _ := utf8.DecodeRuneInString(p.Separator)
		if sep == '-' || sep == '.' || (sep >= '0' && sep <= '9') {
			return numeral.Options{}, errdef.New(
				errdef.CodeConfig, "separator %q collides with numeral characters", p.Separator,
			)
		}
		opts.Separator = sep
	}

	limit, err := numeral.ParseLimit(p.Limit)
	if err != nil {
		return numeral.Options{}, errdef.Wrap(errdef.CodeConfig, err, "parse limit")
	}
	opts.Limit = limit

	opts.Max, err = numeral.ParseBound(p.Max)
	if err != nil {
		return numeral.Options{}, errdef.Wrap(errdef.CodeConfig, err, "parse max")
	}
	opts.Min, err = numeral.ParseBound(p.Min)
	if err != nil {
		return numeral.Options{}, errdef.Wrap(errdef.CodeConfig, err, "parse min")
	}
	if opts.Max != nil && opts.Min != nil && opts.Min.Cmp(opts.Max) > 0 {
		return numeral.Options{}, errdef.New(
			errdef.CodeConfig, "min %s exceeds max %s", p.Min, p.Max,
		)
	}

	opts.Precise = p.Precise
	return opts, nil
}

// Package namer composes the "YYYYMMDD - <label>" file names.
package namer

import (
	"regexp"
	"strings"
)

// IllegalChars is the set of characters that are not allowed in file names
// on common filesystems.
const IllegalChars = `\/:*?"<>|`

// LabelPrompt is the question asked for the new file label.
const LabelPrompt = "File name:"

// illegalCharsRegex matches any single character of IllegalChars.
var illegalCharsRegex = regexp.MustCompile(`[` + regexp.QuoteMeta(IllegalChars) + `]`)

// Asker supplies interactive answers.
type Asker interface {
	Ask(question string) (string, error)
}

// Draft is a composed but not yet applied file name.
type Draft struct {
	Date  string
	Label string
}

// Name returns the base name without extension.
func (d Draft) Name() string {
	return d.Date + " - " + d.Label
}

// CleanLabel removes illegal characters and surrounding whitespace.
//
// By default only the exact sequence IllegalChars is removed, and only where
// it appears verbatim; a lone "?" survives. With strict set, each illegal
// character is removed on its own.
func CleanLabel(label string, strict bool) string {
	if strict {
		label = illegalCharsRegex.ReplaceAllString(label, "")
	} else {
		label = strings.ReplaceAll(label, IllegalChars, "")
	}

	return strings.TrimSpace(label)
}

// Options configures a Composer.
type Options struct {
	// StrictNames strips every illegal character individually.
	StrictNames bool
}

// Composer asks for labels and builds drafts from them.
type Composer struct {
	asker  Asker
	strict bool
}

// New creates a Composer.
func New(asker Asker, opts Options) *Composer {
	return &Composer{
		asker:  asker,
		strict: opts.StrictNames,
	}
}

// Compose asks for a label and, when one is given, calls date to obtain the
// date prefix. A blank answer returns ok == false without calling date, so
// declining a rename never triggers a date prompt.
func (c *Composer) Compose(date func() (string, error)) (Draft, bool, error) {
	answer, err := c.asker.Ask(LabelPrompt)
	if err != nil {
		return Draft{}, false, err
	}

	if strings.TrimSpace(answer) == "" {
		return Draft{}, false, nil
	}

	label := CleanLabel(answer, c.strict)
	// A label emptied by cleaning counts as blank instead of yielding "<date> - <ext>".
	if label == "" {
		return Draft{}, false, nil
	}

	prefix, err := date()
	if err != nil {
		return Draft{}, false, err
	}

	return Draft{Date: prefix, Label: label}, true, nil
}

// Relabel keeps the date of d and replaces its label with a cleaned one.
// It returns ok == false when nothing is left after cleaning.
func (c *Composer) Relabel(d Draft, label string) (Draft, bool) {
	label = CleanLabel(label, c.strict)
	// Same rule as Compose: nothing left after cleaning means no rename.
	if label == "" {
		return Draft{}, false
	}

	return Draft{Date: d.Date, Label: label}, true
}

// Package review parses pipe-delimited restaurant review records into
// training items.
package review

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const fieldCount = 4

var (
	// ErrFieldCount is returned when a record has fewer than four fields.
	ErrFieldCount = errors.New("review record must have name|score|date|text fields")
	// ErrInvalidScore is returned when the score field is not an integer.
	ErrInvalidScore = errors.New("review score must be an integer")
	// ErrEmptyField is returned when the name or text field is blank.
	ErrEmptyField = errors.New("review field is empty")
)

// Review is a single reviewed business.
type Review struct {
	Name  string
	Score int
	Date  string
	Text  string
}

// Parse reads a name|score|date|text record. Pipes inside the text field
// are kept.
func Parse(record string) (Review, error) {
	fields := strings.SplitN(strings.TrimSpace(record), "|", fieldCount)
	if len(fields) != fieldCount {
		return Review{}, fmt.Errorf("%w: got %d", ErrFieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	score, err := strconv.Atoi(fields[1])
	if err != nil {
		return Review{}, fmt.Errorf("%w: %q", ErrInvalidScore, fields[1])
	}

	r := Review{
		Name:  fields[0],
		Score: score,
		Date:  fields[2],
		Text:  fields[3],
	}
	if r.Name == "" {
		return Review{}, fmt.Errorf("%w: name", ErrEmptyField)
	}
	if r.Text == "" {
		return Review{}, fmt.Errorf("%w: text", ErrEmptyField)
	}

	return r, nil
}

// FullText joins every field into the single item handed to the classifier.
func (r Review) FullText() string {
	return fmt.Sprintf("%s\n%d\n%s\n%s", r.Name, r.Score, r.Date, r.Text)
}

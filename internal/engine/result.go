package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/roach88/randseq/internal/random"
)

// Status is the terminal state of a generation.
type Status int

const (
	// StatusSuccess means a sequence satisfying every rule was found.
	StatusSuccess Status = iota
	// StatusBadRequest means the generation could not start.
	StatusBadRequest
	// StatusFailed means the attempt ceiling was reached.
	StatusFailed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusBadRequest:
		return "BadRequest"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LogLevel classifies a Result log entry.
type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelError
)

func (l LogLevel) String() string {
	if l == LevelError {
		return "Error"
	}
	return "Info"
}

// Log is one diagnostic entry recorded during a generation.
type Log struct {
	Level   LogLevel
	Message string
}

// String renders the entry with an aligned level prefix.
func (l Log) String() string {
	if l.Level == LevelError {
		return "Error : " + l.Message
	}
	return "Info  : " + l.Message
}

// attemptPrefix marks the first log entry of every attempt.
const attemptPrefix = "Attempt - "

// errNotSuccessful is returned by value accessors of a non-success Result.
var errNotSuccessful = errors.New("generation did not succeed, check logs")

// Result is the immutable outcome of one generation. Accessors return
// copies.
type Result struct {
	status   Status
	numbers  []int
	attempts int
	logs     []Log
	resets   []int
	runID    string
	err      error
	src      random.Source
}

// Status returns the terminal state.
func (r *Result) Status() Status { return r.status }

// Numbers returns the generated sequence, or an error if the generation
// did not succeed.
func (r *Result) Numbers() ([]int, error) {
	if r.status != StatusSuccess {
		return nil, r.failure()
	}
	return slices.Clone(r.numbers), nil
}

// Text renders the sequence as a string, reading every number as a
// Unicode code point. When shuffle is set the characters are permuted
// first, using the generation's source.
func (r *Result) Text(shuffle bool) (string, error) {
	nums, err := r.Numbers()
	if err != nil {
		return "", err
	}
	if shuffle && r.src != nil {
		random.Shuffle(r.src, len(nums), func(i, j int) {
			nums[i], nums[j] = nums[j], nums[i]
		})
	}
	var b strings.Builder
	for i, n := range nums {
		if n < 0 || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return "", fmt.Errorf("number %d at index %d is not a valid code point", n, i)
		}
		b.WriteRune(rune(n))
	}
	return b.String(), nil
}

// Attempts returns how many attempts were consumed.
func (r *Result) Attempts() int { return r.attempts }

// Logs returns the diagnostic log.
func (r *Result) Logs() []Log { return slices.Clone(r.logs) }

// Resets returns the attempt index of every reset, in order.
func (r *Result) Resets() []int { return slices.Clone(r.resets) }

// RunID returns the generation's identifier.
func (r *Result) RunID() string { return r.runID }

// Err returns the *RuntimeError explaining a non-success status, or nil.
func (r *Result) Err() error { return r.err }

func (r *Result) failure() error {
	if r.err != nil {
		return r.err
	}
	return errNotSuccessful
}

// String renders a diagnostic report: status, numbers, attempts, resets
// and the log, with a blank line before each attempt.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\nStatus - %s\nNumbers - %v\nAttempts - %d\nResets - %v\n",
		r.status, r.numbers, r.attempts, r.resets)
	for i, l := range r.logs {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.Level == LevelInfo && strings.HasPrefix(l.Message, attemptPrefix) {
			b.WriteByte('\n')
		}
		b.WriteString(l.String())
	}
	return b.String()
}

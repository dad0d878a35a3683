package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/random"
	"github.com/roach88/randseq/internal/rule"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Success", StatusSuccess.String())
	assert.Equal(t, "BadRequest", StatusBadRequest.String())
	assert.Equal(t, "Failed", StatusFailed.String())

	b, err := json.Marshal(map[string]Status{"status": StatusFailed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Failed"}`, string(b))
}

func TestResult_Text(t *testing.T) {
	settings := mustSettings(t, []rule.Rule{rule.NumberRangeAll('a', 'a')}, 3)
	res := Generate(settings, WithSource(random.NewSeeded(41)))
	require.Equal(t, StatusSuccess, res.Status())

	text, err := res.Text(false)
	require.NoError(t, err)
	assert.Equal(t, "aaa", text)

	text, err = res.Text(true)
	require.NoError(t, err)
	assert.Equal(t, "aaa", text)
}

func TestResult_TextShufflePermutes(t *testing.T) {
	res := &Result{status: StatusSuccess, numbers: []int{'a', 'b', 'c'}, src: random.NewFixed(1, 0)}

	// Shuffle swaps 0<->1 then leaves 1 in place
	text, err := res.Text(true)
	require.NoError(t, err)
	assert.Equal(t, "bac", text)

	// The stored numbers are untouched
	nums, err := res.Numbers()
	require.NoError(t, err)
	assert.Equal(t, []int{'a', 'b', 'c'}, nums)
}

func TestResult_TextInvalidCodePoint(t *testing.T) {
	for _, n := range []int{-1, 0xD800, 0x110000} {
		res := &Result{status: StatusSuccess, numbers: []int{'a', n}}
		_, err := res.Text(false)
		assert.Error(t, err, "code point %d", n)
	}
}

func TestResult_AccessorsReturnCopies(t *testing.T) {
	res := &Result{
		status:  StatusSuccess,
		numbers: []int{1, 2},
		logs:    []Log{{Level: LevelInfo, Message: "Attempt - 1"}},
		resets:  []int{3},
	}

	nums, _ := res.Numbers()
	nums[0] = 99
	logs := res.Logs()
	logs[0].Message = "changed"
	resets := res.Resets()
	resets[0] = 0

	again, _ := res.Numbers()
	assert.Equal(t, []int{1, 2}, again)
	assert.Equal(t, "Attempt - 1", res.Logs()[0].Message)
	assert.Equal(t, []int{3}, res.Resets())
}

func TestResult_String(t *testing.T) {
	res := &Result{
		status:   StatusSuccess,
		numbers:  []int{4, 2},
		attempts: 2,
		logs: []Log{
			{Level: LevelInfo, Message: "Attempt - 1"},
			{Level: LevelInfo, Message: "GEN_TYPE - RandomNumber; P - [4]; A&P - [4]"},
			{Level: LevelInfo, Message: "Attempt - 2"},
			{Level: LevelError, Message: "NoDuplicate/within_range: boom"},
		},
	}

	want := strings.Join([]string{
		"",
		"",
		"Status - Success",
		"Numbers - [4 2]",
		"Attempts - 2",
		"Resets - []",
		"",
		"Info  : Attempt - 1",
		"Info  : GEN_TYPE - RandomNumber; P - [4]; A&P - [4]",
		"",
		"Info  : Attempt - 2",
		"Error : NoDuplicate/within_range: boom",
	}, "\n")
	assert.Equal(t, want, res.String())
}

func TestLog_String(t *testing.T) {
	assert.Equal(t, "Info  : hello", Log{Level: LevelInfo, Message: "hello"}.String())
	assert.Equal(t, "Error : bad", Log{Level: LevelError, Message: "bad"}.String())
	assert.Equal(t, "Error", LevelError.String())
}

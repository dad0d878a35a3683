package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/randseq/internal/store"
)

type excludeAddResponse struct {
	Status string           `json:"status"`
	Data   ExcludeAddResult `json:"data"`
}

type excludeListResponse struct {
	Status string            `json:"status"`
	Data   []ExclusionOutput `json:"data"`
}

func TestExcludeAdd_Numbers(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	stdout, _, err := execute(t, "exclude", "add", "--db", db, "1,2,3", "3,2,1", "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, "✓ Added 2, skipped 1 (already present)\n", stdout)

	stdout, _, err = execute(t, "exclude", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SEQ")
	assert.Contains(t, stdout, "1,2,3")
	assert.Contains(t, stdout, "3,2,1")
}

func TestExcludeAdd_JSONReportsIDs(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	stdout, _, err := execute(t, "exclude", "add", "--db", db, "--format", "json", "4,5")
	require.NoError(t, err)

	var resp excludeAddResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Added)
	assert.Equal(t, 0, resp.Data.Skipped)
	assert.Equal(t, 1, resp.Data.Total)

	want, err := store.ExclusionID([]int{4, 5})
	require.NoError(t, err)
	assert.Equal(t, []string{want}, resp.Data.IDs)
}

func TestExcludeAdd_StringSharesIdentityWithNumbers(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	_, _, err := execute(t, "exclude", "add", "--db", db, "--string", "--note", "batch 7", "AB")
	require.NoError(t, err)

	// 'A' = 65, 'B' = 66
	stdout, _, err := execute(t, "exclude", "add", "--db", db, "65,66")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added 0, skipped 1")

	stdout, _, err = execute(t, "exclude", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var resp excludeListResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "string", resp.Data[0].Kind)
	assert.Equal(t, "AB", resp.Data[0].Value)
	assert.Equal(t, []int{65, 66}, resp.Data[0].Numbers)
	assert.Equal(t, "batch 7", resp.Data[0].Note)
}

func TestExcludeAdd_BadNumberAddsNothing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	_, _, err := execute(t, "exclude", "add", "--db", db, "1,2", "3,x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid number "x"`)

	stdout, _, err := execute(t, "exclude", "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Registry is empty.\n", stdout)
}

func TestExcludeList_Kind(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	_, _, err := execute(t, "exclude", "add", "--db", db, "9,9")
	require.NoError(t, err)
	_, _, err = execute(t, "exclude", "add", "--db", db, "--string", "zz")
	require.NoError(t, err)

	stdout, _, err := execute(t, "exclude", "list", "--db", db, "--kind", "numbers", "--format", "json")
	require.NoError(t, err)
	var resp excludeListResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []int{9, 9}, resp.Data[0].Numbers)

	_, _, err = execute(t, "exclude", "list", "--db", db, "--kind", "letters")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid kind "letters"`)
}

func TestExcludeList_EmptyJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "issued.db")

	stdout, _, err := execute(t, "exclude", "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var resp excludeListResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Data)
}

func TestExclude_UnopenableDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "missing-dir", "issued.db")

	_, _, err := execute(t, "exclude", "list", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open exclusion registry")
}

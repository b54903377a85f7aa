package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Text(t *testing.T) {
	out, err := execute(t, "compile", "--where", "_id = ?", "--param", "1", "--set", "title=hello")
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE (_id = ?) AND (title != ? OR title IS NULL)\nPARAMS [1, \"hello\"]\n",
		out)
}

func TestCompile_OrderAcrossFlags(t *testing.T) {
	out, err := execute(t, "compile",
		"--null", "body",
		"--set", "title=x",
		"--text", "code=007",
		"--set", "score=0.5")
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE (body NOT NULL OR title != ? OR title IS NULL OR code != ? OR code IS NULL OR score != ? OR score IS NULL)\n"+
			"PARAMS [\"x\", \"007\", 0.5]\n",
		out)
}

func TestCompile_TextParam(t *testing.T) {
	out, err := execute(t, "compile",
		"--where", "code = ? AND stars > ? AND tag = ?",
		"--text-param", "007",
		"--param", "2",
		"--text-param", "1.5",
		"--set", "title=x")
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE (code = ? AND stars > ? AND tag = ?) AND (title != ? OR title IS NULL)\n"+
			"PARAMS [\"007\", 2, \"1.5\", \"x\"]\n",
		out)
}

func TestCompile_LastWriteWins(t *testing.T) {
	out, err := execute(t, "compile", "--set", "a=1", "--set", "b=2", "--null", "a")
	require.NoError(t, err)
	assert.Equal(t, "WHERE (a NOT NULL OR b != ? OR b IS NULL)\nPARAMS [2]\n", out)
}

func TestCompile_JSON(t *testing.T) {
	out, err := execute(t, "compile", "--format", "json", "--where", "stars > ?", "--param", "2", "--null", "body")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   CompileResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "(stars > ?) AND (body NOT NULL)", resp.Data.Predicate)
	assert.Equal(t, []any{float64(2)}, resp.Data.Params)
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"empty assignment set", []string{"compile", "--where", "_id = ?", "--param", "1"}, "EMPTY_ASSIGNMENT_SET"},
		{"missing param", []string{"compile", "--where", "_id = ?", "--set", "a=1"}, "MALFORMED_FILTER"},
		{"extra param", []string{"compile", "--param", "1", "--set", "a=1"}, "MALFORMED_FILTER"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, append(tc.args, "--format", "json")...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestCompile_BadSetFlag(t *testing.T) {
	_, err := execute(t, "compile", "--set", "novalue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected column=value")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

package batch

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/dictlookup/internal/testutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Entry
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "only whitespace",
			content: "   \n\t\r\n   ",
			want:    nil,
		},
		{
			name:    "plain lines",
			content: "我喜欢苹果\nthe quick brown fox",
			want: []Entry{
				{Text: "我喜欢苹果", Line: 1},
				{Text: "the quick brown fox", Line: 2},
			},
		},
		{
			name:    "comments and blank lines",
			content: "# vocabulary\n\n  今天天气很好  \r\n# end\n",
			want: []Entry{
				{Text: "今天天气很好", Line: 3},
			},
		},
		{
			name:    "grammar entries",
			content: "~ I has a apple\n~\t他去了学校昨天\n~   \n",
			want: []Entry{
				{Text: "I has a apple", Grammar: true, Line: 1},
				{Text: "他去了学校昨天", Grammar: true, Line: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	testutil.CreateTestFile(t, path, []byte("苹果很好吃\n~ she go home\n"))

	got, err := ReadBatchFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Text: "苹果很好吃", Line: 1},
		{Text: "she go home", Grammar: true, Line: 2},
	}, got)
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read batch file")
}

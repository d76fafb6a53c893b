package fsworkspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readGitignore(t *testing.T, root string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	return string(b)
}

func TestEnsureGitignore(t *testing.T) {
	cases := []struct {
		name      string
		existing  *string
		want      string
		wantAdded bool
	}{
		{name: "creates file", want: "# cvx\n.cvx/\n", wantAdded: true},
		{name: "appends without trailing newline", existing: ptr("node_modules/"), want: "node_modules/\n\n# cvx\n.cvx/\n", wantAdded: true},
		{name: "appends after trailing newline", existing: ptr("bin/\n"), want: "bin/\n\n# cvx\n.cvx/\n", wantAdded: true},
		{name: "reuses header", existing: ptr("# cvx\n"), want: "# cvx\n\n.cvx/\n", wantAdded: true},
		{name: "already ignored", existing: ptr("dist/\n.cvx/\n"), want: "dist/\n.cvx/\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			if tc.existing != nil {
				require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(*tc.existing), 0o644))
			}

			added, err := ensureGitignore(root)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAdded, added)
			assert.Equal(t, tc.want, readGitignore(t, root))
		})
	}
}

func TestEnsureGitignore_Idempotent(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 3; i++ {
		_, err := ensureGitignore(root)
		require.NoError(t, err)
	}
	assert.Equal(t, "# cvx\n.cvx/\n", readGitignore(t, root))
}

func ptr(s string) *string { return &s }

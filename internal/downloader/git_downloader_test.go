package downloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestAuthMethodNone(t *testing.T) {
	auth, err := authMethod(Auth{Type: AuthNone})
	require.NoError(t, err)
	require.Nil(t, auth)
}

func TestAuthMethodTokenRequiresPassword(t *testing.T) {
	_, err := authMethod(Auth{Type: AuthToken})
	require.Error(t, err)
}

func TestAuthMethodBasicRequiresCredentials(t *testing.T) {
	_, err := authMethod(Auth{Type: AuthBasic, Username: "u"})
	require.Error(t, err)

	auth, err := authMethod(Auth{Type: AuthBasic, Username: "u", Password: "p"})
	require.NoError(t, err)
	require.NotNil(t, auth)
}

func TestAuthMethodUnsupported(t *testing.T) {
	_, err := authMethod(Auth{Type: "carrier-pigeon"})
	require.Error(t, err)
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
}

func TestIsAncestorCommit(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	commitFile(t, repo, dir, "a.txt", "a")
	headA, err := repo.Head()
	require.NoError(t, err)

	commitFile(t, repo, dir, "b.txt", "b")
	headB, err := repo.Head()
	require.NoError(t, err)

	ok, err := isAncestorCommit(repo, headA.Hash(), headB.Hash())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = isAncestorCommit(repo, headB.Hash(), headA.Hash())
	require.NoError(t, err)
	require.False(t, ok)
}

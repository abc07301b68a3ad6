package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// AuthType selects how GitDownloader authenticates against the upstream
// repository.
type AuthType string

const (
	AuthNone  AuthType = "none"
	AuthSSH   AuthType = "ssh"
	AuthToken AuthType = "token"
	AuthBasic AuthType = "basic"
)

// Auth carries the resolved credentials for one of the AuthType strategies.
// Username/Password are resolved ahead of time by the secrets collaborator;
// the downloader never looks them up itself.
type Auth struct {
	Type     AuthType
	Username string
	Password string
	KeyPath  string
}

// GitDownloader implements Downloader against a single upstream repository
// URL, using go-git, with a clone/fetch/fast-forward lifecycle keyed by an
// arbitrary per-call target path and stage (branch) rather than a fixed
// workspace of named repositories.
type GitDownloader struct {
	RepositoryURL string
	Auth          Auth

	// HardResetOnDiverge controls what happens when the local branch and the
	// remote tip have diverged (neither is an ancestor of the other). go-git
	// exposes no three-way merge API comparable to libgit2's merge_trees, so
	// divergence is resolved by resetting the local branch to the remote
	// tip rather than attempting a merge. When false, divergence is
	// reported as a git_error instead.
	HardResetOnDiverge bool
}

func NewGit(repositoryURL string, auth Auth) *GitDownloader {
	return &GitDownloader{RepositoryURL: repositoryURL, Auth: auth, HardResetOnDiverge: true}
}

func (d *GitDownloader) Download(ctx context.Context, targetPath, stage string) error {
	if _, err := os.Stat(filepath.Join(targetPath, ".git")); err == nil {
		return d.update(ctx, targetPath, stage)
	}
	return d.clone(ctx, targetPath, stage)
}

func (d *GitDownloader) clone(ctx context.Context, targetPath, stage string) error {
	if err := os.RemoveAll(targetPath); err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to clear target path before clone", err)
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to create parent directory", err)
	}

	auth, err := authMethod(d.Auth)
	if err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to build git credentials", err)
	}

	opts := &git.CloneOptions{
		URL:           d.RepositoryURL,
		ReferenceName: plumbing.NewBranchReferenceName(stage),
		SingleBranch:  true,
		Auth:          auth,
	}

	if _, err := git.PlainCloneContext(ctx, targetPath, false, opts); err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to clone stage "+stage, err)
	}

	slog.Debug("cloned stage", logfields.Stage(stage), logfields.Path(targetPath))
	return nil
}

func (d *GitDownloader) update(ctx context.Context, targetPath, stage string) error {
	repo, err := git.PlainOpen(targetPath)
	if err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to open repository at "+targetPath, err)
	}

	if err := d.fetch(ctx, repo); err != nil {
		return err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to access worktree", err)
	}

	localRef := plumbing.NewBranchReferenceName(stage)
	remoteRef := plumbing.NewRemoteReferenceName("origin", stage)

	remoteHead, err := repo.Reference(remoteRef, true)
	if err != nil {
		return cperr.Wrap(errorkind.GitError, "remote branch "+stage+" not found", err)
	}

	localHead, localErr := repo.Reference(localRef, true)
	if localErr != nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef, Hash: remoteHead.Hash(), Create: true, Force: true}); err != nil {
			return cperr.Wrap(errorkind.GitError, "failed to create local branch "+stage, err)
		}
		return nil
	}

	if localHead.Hash() == remoteHead.Hash() {
		return nil
	}

	isAncestor, ancErr := isAncestorCommit(repo, localHead.Hash(), remoteHead.Hash())
	if ancErr != nil {
		return cperr.Wrap(errorkind.GitError, "failed to compute fast-forward eligibility", ancErr)
	}

	if isAncestor {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef, Force: true}); err != nil {
			return cperr.Wrap(errorkind.GitError, "failed to checkout branch "+stage, err)
		}
		if err := wt.Reset(&git.ResetOptions{Commit: remoteHead.Hash(), Mode: git.HardReset}); err != nil {
			return cperr.Wrap(errorkind.GitError, "failed to fast-forward "+stage, err)
		}
		return nil
	}

	if !d.HardResetOnDiverge {
		return cperr.New(errorkind.GitError, "local branch "+stage+" diverged from remote")
	}

	slog.Warn("branch diverged from remote, resetting to remote tip", logfields.Stage(stage))
	if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef, Force: true}); err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to checkout branch "+stage, err)
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteHead.Hash(), Mode: git.HardReset}); err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to reset diverged branch "+stage, err)
	}
	return nil
}

func (d *GitDownloader) IsNewVersionAvailable(ctx context.Context, targetPath, stage string) (bool, error) {
	repo, err := git.PlainOpen(targetPath)
	if err != nil {
		return false, cperr.Wrap(errorkind.GitError, "failed to open repository at "+targetPath, err)
	}

	if err := d.fetch(ctx, repo); err != nil {
		return false, err
	}

	localRef, err := repo.Reference(plumbing.NewBranchReferenceName(stage), true)
	if err != nil {
		return false, cperr.Wrap(errorkind.GitError, "local branch "+stage+" not found", err)
	}
	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("origin", stage), true)
	if err != nil {
		return false, cperr.Wrap(errorkind.GitError, "remote branch "+stage+" not found", err)
	}

	return localRef.Hash() != remoteRef.Hash(), nil
}

func (d *GitDownloader) fetch(ctx context.Context, repo *git.Repository) error {
	auth, err := authMethod(d.Auth)
	if err != nil {
		return cperr.Wrap(errorkind.GitError, "failed to build git credentials", err)
	}

	opts := &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []ggitcfg.RefSpec{"+refs/heads/*:refs/remotes/origin/*"},
		Auth:       auth,
		Tags:       git.NoTags,
	}
	if err := repo.FetchContext(ctx, opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return cperr.Wrap(errorkind.GitError, "fetch failed", err)
	}
	return nil
}

func isAncestorCommit(repo *git.Repository, ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{descendant}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == ancestor {
			return true, nil
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			return false, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false, nil
}

func authMethod(a Auth) (transport.AuthMethod, error) {
	switch a.Type {
	case AuthNone, "":
		return nil, nil
	case AuthSSH:
		keyPath := a.KeyPath
		if keyPath == "" {
			keyPath = filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		}
		publicKeys, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key from %s: %w", keyPath, err)
		}
		return publicKeys, nil
	case AuthToken:
		if a.Password == "" {
			return nil, fmt.Errorf("token authentication requires a token")
		}
		return &http.BasicAuth{Username: "token", Password: a.Password}, nil
	case AuthBasic:
		if a.Username == "" || a.Password == "" {
			return nil, fmt.Errorf("basic authentication requires username and password")
		}
		return &http.BasicAuth{Username: a.Username, Password: a.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported authentication type: %s", a.Type)
	}
}

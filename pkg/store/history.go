package store

import "rowgit/pkg/types"

// ChainFrom follows parents[0] from tip back to the root, returning commits
// tip-first. It terminates because commit identities are content hashes
// that include their parents, making a cycle cryptographically infeasible.
func (r *Repository) ChainFrom(tip types.Hash) ([]*types.Commit, error) {
	var chain []*types.Commit

	current := tip
	for {
		commit, err := r.GetCommitByHash(current)
		if err != nil {
			return nil, err
		}
		chain = append(chain, commit)

		parent, ok := commit.Parent()
		if !ok {
			break
		}
		current = parent
	}
	return chain, nil
}

// GetCommitHistory returns ChainFrom(HEAD), or an empty slice if the
// repository has no commits yet.
func (r *Repository) GetCommitHistory() ([]*types.Commit, error) {
	head, ok, err := r.GetHead()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*types.Commit{}, nil
	}
	return r.ChainFrom(head)
}

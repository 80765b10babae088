package vcs

// Log returns every commit, newest first. Each commit's parents are listed
// in their stored order.
func (s *Service) Log() ([]*Commit, error) {
	commits, err := s.store.ListCommits()
	if err != nil {
		return nil, storageErr("listing commits", err)
	}
	return commits, nil
}

// RepoState returns the head commit id ("" if none) and the commit count.
func (s *Service) RepoState() (*RepoState, error) {
	head, err := s.store.Head()
	if err != nil {
		return nil, storageErr("reading head", err)
	}
	count, err := s.store.CountCommits()
	if err != nil {
		return nil, storageErr("counting commits", err)
	}
	return &RepoState{Head: head, CommitCount: count}, nil
}

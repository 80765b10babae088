package vcs

// Checkout makes the working tree match commit target and moves head to it.
//
// Files absent from target are deleted, every file of target is written,
// and head moves only after all filesystem changes succeed. The
// filesystem phase is not atomic: a failure part way leaves head on the
// previous commit with the tree partially updated.
func (s *Service) Checkout(target string) error {
	if err := s.requireCommit(target); err != nil {
		return err
	}

	files, err := s.store.SnapshotFiles(target)
	if err != nil {
		return storageErr("loading snapshot", err)
	}

	current, err := s.fsmgr.ListFiles(s.root)
	if err != nil {
		return storageErr("listing files", err)
	}

	keep := make(map[string]struct{}, len(files))
	for _, f := range files {
		keep[f.Path] = struct{}{}
	}

	removed := 0
	for _, p := range current {
		if _, ok := keep[p]; ok {
			continue
		}
		if err := s.fsmgr.RemoveFile(s.root, p); err != nil {
			return storageErr("removing "+p, err)
		}
		removed++
	}

	for _, f := range files {
		if err := s.fsmgr.WriteFile(s.root, f.Path, f.Content); err != nil {
			return storageErr("writing "+f.Path, err)
		}
	}

	if err := s.store.SetHead(target); err != nil {
		return storageErr("advancing head", err)
	}

	s.logger.Info("checked out", "id", target, "written", len(files), "removed", removed)
	return nil
}

// requireCommit returns a NotFoundError unless id names an existing commit.
func (s *Service) requireCommit(id string) error {
	if id == "" {
		return &NotFoundError{Kind: "commit", ID: id}
	}
	ok, err := s.store.CommitExists(id)
	if err != nil {
		return storageErr("looking up commit", err)
	}
	if !ok {
		return &NotFoundError{Kind: "commit", ID: id}
	}
	return nil
}

package vcs

// Status compares the working tree with the head snapshot. Paths are
// classified the same way DiffNodes classifies them; with no head every
// tracked file is Added.
func (s *Service) Status() ([]*FileStatus, error) {
	s.logger.Debug("computing status", "root", s.root)

	head, err := s.store.Head()
	if err != nil {
		return nil, storageErr("reading head", err)
	}

	committed := map[string]string{}
	if head != "" {
		committed, err = s.store.SnapshotBlobs(head)
		if err != nil {
			return nil, storageErr("loading head snapshot", err)
		}
	}

	files, err := s.readWorkingTree()
	if err != nil {
		return nil, err
	}
	working := make(map[string]string, len(files))
	for _, f := range files {
		working[f.Path] = f.BlobID
	}

	changes := classify(committed, working)
	statuses := make([]*FileStatus, 0, len(changes))
	for _, c := range changes {
		statuses = append(statuses, &FileStatus{Path: c.path, Kind: c.kind})
	}
	return statuses, nil
}

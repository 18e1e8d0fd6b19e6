package ranker

import "errors"

// ErrAllPathsInvalid is raised when every chain the PathFinder discovered
// turns out to have no valid paper realization (surfaced by the HTTP shell
// as an "all_paths_invalid" error envelope with status 200).
var ErrAllPathsInvalid = errors.New("all_paths_invalid")

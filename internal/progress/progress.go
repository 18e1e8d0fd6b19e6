// Package progress defines the snapshot shape the get_progress HTTP
// endpoint serves.
package progress

import "time"

// Record is a point-in-time snapshot of a running path-finding request.
type Record struct {
	NADSQueries        int  `json:"n_ads_queries"`
	NAuthorsQueried    int  `json:"n_authors_queried"`
	NDocsQueried       int  `json:"n_docs_queried"`
	NDocsRelevant      int  `json:"n_docs_relevant"`
	NDocsLoaded        int  `json:"n_docs_loaded"`
	PathFindingComplete bool `json:"path_finding_complete"`
	Timestamp          int64 `json:"timestamp"`
}

// Snapshot stamps the current time onto a copy of r.
func (r Record) Snapshot() Record {
	r.Timestamp = time.Now().Unix()
	return r
}

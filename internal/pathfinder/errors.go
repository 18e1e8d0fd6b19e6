package pathfinder

import "fmt"

// Error is a structured path-finding error with a stable key the HTTP
// shell forwards verbatim, plus a human message.
type Error struct {
	Key     string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}

func errInvalidCharInName(raw string, cause error) *Error {
	return &Error{Key: "invalid_char_in_name", Message: fmt.Sprintf("%q: %v", raw, cause)}
}

func errSrcInvalidLtGt() *Error {
	return &Error{Key: "src_invalid_lt_gt", Message: "source name may not use a strict < or > modifier"}
}

func errDestInvalidLtGt() *Error {
	return &Error{Key: "dest_invalid_lt_gt", Message: "destination name may not use a strict < or > modifier"}
}

func errSrcIsDest() *Error {
	return &Error{Key: "src_is_dest", Message: "source and destination name are equal"}
}

func errSrcIsDestAfterOrcid() *Error {
	return &Error{Key: "src_is_dest_after_orcid", Message: "source and destination resolved to the same ORCID-derived name"}
}

func errSrcEmpty() *Error {
	return &Error{Key: "src_empty", Message: "source author has no usable documents"}
}

func errDestEmpty() *Error {
	return &Error{Key: "dest_empty", Message: "destination author has no usable documents"}
}

func errNoAuthorsToExpand() *Error {
	return &Error{Key: "no_authors_to_expand", Message: "one side of the search ran out of authors to expand"}
}

func errTooFar() *Error {
	return &Error{Key: "too_far", Message: "path exceeds the maximum search depth"}
}

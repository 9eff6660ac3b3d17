package repository

import "errors"

// ErrNotFound is wrapped by all repositories when a row does not exist.
// Callers match with errors.Is and map it to a 404 at the API boundary.
var ErrNotFound = errors.New("not found")

// ErrRevisionConflict reports a compare-and-swap failure on a project's
// task document: another writer rewrote the document since it was read.
// Callers re-read and retry.
var ErrRevisionConflict = errors.New("task document revision conflict")

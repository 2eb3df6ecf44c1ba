package persistence

import "errors"

var (
	errStoreClosed = errors.New("store is closed")
	errDuplicateID = errors.New("task id already exists")
)

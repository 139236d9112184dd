package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyExists   = errors.New("record already exists")
	ErrAlreadyRecorded = errors.New("match already recorded")
	ErrDuplicateScore  = errors.New("player already scored on match")
)

package repository

import "errors"

// Package repository contains data access layer abstractions. Implementations
// live in subpackages (postgres for the remote backend, memory for the
// in-process fallback).

// ErrNotFound is returned when a document or relation id does not exist.
// Callers decide whether absence is an error.
var ErrNotFound = errors.New("record not found")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

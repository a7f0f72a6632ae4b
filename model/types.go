package model

import (
	"fmt"
	"slices"
)

// Hash is the content hash of a query string.
type Hash uint64

// String returns the hash in hex notation.
func (h Hash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// DataSource names a collection, view or other dataset a query reads from.
type DataSource = string

// Entry is one cached query result.
//
// Hash and QueryText identify the query; QueryText disambiguates hash
// collisions. DataSources lists every data source the result was computed
// from, in the order the query read them.
type Entry struct {
	Hash        Hash
	QueryText   string
	Result      *Payload
	Stats       *Payload
	DataSources []DataSource
}

// NewEntry creates an entry. The data source slice is cloned.
func NewEntry(hash Hash, queryText string, result, stats *Payload, dataSources []DataSource) *Entry {
	return &Entry{
		Hash:        hash,
		QueryText:   queryText,
		Result:      result,
		Stats:       stats,
		DataSources: slices.Clone(dataSources),
	}
}

// Matches reports whether e caches the given query.
func (e *Entry) Matches(hash Hash, queryText string) bool {
	return e != nil && e.Hash == hash && e.QueryText == queryText
}

// Retain adds a handle on both Result and Stats.
func (e *Entry) Retain() {
	e.Result.Retain()
	e.Stats.Retain()
}

// Release drops the handles taken by Retain.
func (e *Entry) Release() {
	e.Result.Release()
	e.Stats.Release()
}

// SizeBytes returns the number of bytes the entry keeps alive.
func (e *Entry) SizeBytes() int64 {
	if e == nil {
		return 0
	}
	n := int64(len(e.QueryText)) + int64(e.Result.Len()) + int64(e.Stats.Len())
	for _, ds := range e.DataSources {
		n += int64(len(ds))
	}
	return n
}

// String returns a short description of the entry.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry(%s, sources=%d)", e.Hash, len(e.DataSources))
}

package models

import "fmt"

// Scope identifies the tenant+branch pair that partitions all synchronized
// state. Every cache row, outbox entry, remote call, and change-feed
// subscription belongs to exactly one scope; the engine never mutates state
// across scope boundaries.
type Scope struct {
	Tenant string `json:"tenant"`
	Branch string `json:"branch"`
}

// Key returns the canonical string form used as the partition key in local
// storage and in remote request paths.
func (s Scope) Key() string {
	return s.Tenant + "/" + s.Branch
}

// IsZero reports whether the scope is unset.
func (s Scope) IsZero() bool {
	return s.Tenant == "" && s.Branch == ""
}

func (s Scope) String() string {
	return fmt.Sprintf("scope(%s/%s)", s.Tenant, s.Branch)
}

package links

import "errors"

var (
	// ErrAliasInUse is returned by AddNamed when the alias already exists.
	ErrAliasInUse = errors.New("alias already in use")

	// ErrNotFound is returned when the requested alias does not exist.
	ErrNotFound = errors.New("alias not found")

	// ErrKeyspaceExhausted is returned when every candidate prefix of the
	// link's hash is taken by a different link. With an 11-character hash
	// this should never happen outside of adversarial input.
	ErrKeyspaceExhausted = errors.New("alias keyspace exhausted")

	// ErrParse is returned by Load when the link data file is malformed.
	ErrParse = errors.New("link data malformed")
)

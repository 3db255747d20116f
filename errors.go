// File: lixenwraith/cascade/errors.go
package cascade

import "errors"

// ErrKeyNotFound is returned when a key is absent from the local store,
// every ancestor store, and has no registered default.
var ErrKeyNotFound = errors.New("config key not found")

// ErrValidation is returned by Write when a registered validator rejects
// the value. The value is never stored.
var ErrValidation = errors.New("config value validation failed")

// ErrIdentifierAssigned is returned when attempting to assign a game
// config id to a stack that already has a permanent one. Assigning an id
// is a one-way, one-time operation.
var ErrIdentifierAssigned = errors.New("game config id already assigned")

// ErrMalformedFile is returned when a backing file exists but cannot be
// parsed. A malformed file never silently becomes an empty config, so a
// later Save cannot clobber the user's settings.
var ErrMalformedFile = errors.New("malformed config file")

// ErrNoBackingFile is returned by Save on a level that has no persisted
// identity, such as a temporary game config.
var ErrNoBackingFile = errors.New("config has no backing file")

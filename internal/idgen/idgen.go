// Package idgen mints the opaque handles (§3, box_instance_id and
// friends) and the Config Loader's random key prefix (§4.5) used to
// isolate reloads of the same document in the flat namespace.
package idgen

import "github.com/google/uuid"

// Handle returns a fresh opaque entity handle.
func Handle() string {
	return uuid.NewString()
}

// Prefix returns a short random string suitable for prepending to every
// key parsed from one configuration document, so that two loads of the
// same document never collide in a shared flat namespace.
func Prefix() string {
	return uuid.NewString()[:8] + "___"
}

package connection

import "strconv"

// Record describes how to reach one cluster endpoint. Records are shared by
// pointer between the store and sessions and are never mutated once
// persisted; switching a session's connection replaces the pointer.
type Record struct {
	Name     string
	Host     string
	Port     int
	Username string
	// Password holds the ciphertext produced by Encrypt. The store treats
	// it as opaque; callers encrypt before adding a record.
	Password string
}

// URL returns the base HTTP URL of the endpoint.
func (r *Record) URL() string {
	return "http://" + r.Host + ":" + strconv.Itoa(r.Port)
}

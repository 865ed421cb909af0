// Package destinations holds the concrete catalog destination adapters
// and the HTTP plumbing they share. Each destination lives in its own
// subpackage (shopping, social, pins) and implements
// driven.DestinationAdapter; the shared Client here carries the
// per-provider differences down to a base URL and an authorization
// strategy so timeout, audit logging, and error mapping exist once.
package destinations

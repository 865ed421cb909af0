// Package driving defines the interfaces the outer surfaces call
// (driving ports). The CLI and any scheduled trigger talk to the core
// exclusively through these interfaces.
package driving

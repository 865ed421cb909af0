// Package file provides the TOML-backed settings store. Destination
// settings live under a destinations.<name> table in the config file,
// so a shopping merchant ID is addressed as
// "destinations.shopping.merchant_id".
package file

// Package factory provides the generic registry behind pluggable fleet
// sources and metrics sinks. A module is configured by a type string and a
// raw conf map; its factory decodes the map into a typed struct with Decode
// and returns the concrete implementation.
//
//	source:
//	  type: postgres
//	  conf:
//	    dsn: postgres://fleet@localhost/fleet
//	    query_timeout: 5s
package factory

// Package config loads quotecard's YAML configuration.
//
// ${VAR} references are expanded from the environment before parsing, and
// an optional .env file is exported first, so the Finnhub token and
// database password can live outside the YAML. Unset fields take the values
// in defaults.go; Validate reports the first problem found.
package config

// Package config loads, validates and persists dictlookup settings. It wraps
// a private viper instance, unmarshals it into a typed Config and keeps the
// YAML file in sync when settings are changed at runtime.
package config

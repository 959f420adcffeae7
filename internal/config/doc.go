/*
Package config defines the server's configuration, loaded from an optional
YAML file and layered under CLI flag overrides.
*/
package config

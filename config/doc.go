// Package config loads the httpkit CLI configuration.
//
// Values come from a YAML file, then a .env file, then the process
// environment. Environment variables use the HTTPKIT_ prefix and
// underscore-separated paths, so HTTPKIT_CLIENT_BASE_URL sets client.base_url
// and HTTPKIT_MIDDLEWARE_RETRY_MAX_ATTEMPTS sets middleware.retry.max_attempts.
//
//	cfg, err := config.Load(config.WithConfigFile("httpkit.yml"))
//
// Struct tags are checked with go-playground/validator; field names in
// error messages follow the yaml tags.
package config

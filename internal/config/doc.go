// Package config loads and validates inkwell configuration.
//
// Configuration is YAML with ${VAR} environment variable expansion, so
// secrets like the JWT signing key can live in the environment:
//
//	server:
//	  http_addr: ":8080"
//	database:
//	  path: "/var/lib/inkwell/inkwell.db"
//	auth:
//	  jwt_secret: "${INKWELL_JWT_SECRET}"
//	  session_ttl: "168h"
//	logging:
//	  level: "info"
//	  format: "text"
//
// Duration fields are written as Go duration strings and parsed at load
// time. Load returns an error for missing required fields rather than
// failing later at first use.
package config

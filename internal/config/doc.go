// Package config provides configuration management for the reconciler.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults are declared next to each field with a
// `default` struct tag.
//
// # Configuration Structure
//
//   - Dataset: SODA host, dataset id, field names and optional app token
//   - Fetch: overall fetch timeout and request pacing
//   - Cache: session memoization of fetch results
//   - Server: HTTP port for the interactive surface
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Dataset.ID)
package config

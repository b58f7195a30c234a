// Package config loads service configuration with viper.
//
// Values come from a YAML file found next to the binary's cmd directory,
// an optional .env file (godotenv), and the process environment. Nested keys
// are reachable from upper-case variables: SERVER_PORT sets server.port.
// Variables that predate that convention, such as PORT, are mapped with
// WithEnvAliases.
//
// # Usage
//
//	var cfg Config
//	err := config.LoadConfig("alignment-service", &cfg,
//	    config.WithEnvAliases(map[string]string{"PORT": "server.port"}))
package config

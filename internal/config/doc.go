// Package config loads the server settings from defaults, an optional TOML
// file and TEXT_ISLANDS_* environment variables, applied in that order.
//
// Example file:
//
//	log_level = "debug"
//
//	[detection]
//	canny_low = 40
//	canny_high = 120
//	island_padding = 8
//
//	[crop]
//	margin = 4
//	scale = 2.0
package config

// Package config loads the daemon configuration.
//
// Configuration lives in a TOML file:
//
//	guild_id = "1296093968579821570"
//	category_id = "1296094023810241517"
//	interval = "30s"
//	log_tail = 40
//
// The Discord bot token is read from the DISCORD_TOKEN environment variable
// only; it never appears in the file. A missing file at the default
// location is not an error, so a fully flag- and environment-driven setup
// needs no file at all.
package config

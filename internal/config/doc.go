// Package config loads Easel's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/easel/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// After loading, ApplyEnv reads an optional .env file and lets EASEL_API_URL
// override api_url.
//
// # Default Values
//
//   - API base URL: http://127.0.0.1:3000
//   - Images path: /images
//   - Page size: 10
//   - Request timeout: 10s
//   - Search policy: reconciled
//   - Storage: file backend at ~/.local/share/easel/storage.json
//     (badger backend defaults to ~/.local/share/easel/badger)
//   - Log file: ~/.local/state/easel/easel.log
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:3000"
//	images_path = "/images"
//	page_size = 10
//	request_timeout = "10s"
//	page_rate_per_second = 0
//	search_policy = "reconciled"
//	log_file = "~/.local/state/easel/easel.log"
//
//	[storage]
//	backend = "file"
//	path = "~/.local/share/easel/storage.json"
//
// All fields are optional. Tilde expansion is performed on paths.
//
// Missing config files are NOT an error. Malformed TOML, negative sizes or
// rates, and unparsable durations are.
package config

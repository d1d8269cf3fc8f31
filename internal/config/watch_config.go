package config

// setWatchDefaults installs default values for the expiration and heartbeat watchers.
func setWatchDefaults() {
	setDefault("watch_lookahead", "720h0m0s")
	setDefault("watch_interval", "24h0m0s")
	setDefault("heartbeat_timeout", "15m0s")
	setDefault("heartbeat_interval", "1m0s")
}

// registerWatchValidators registers validators for watcher settings.
func registerWatchValidators() {
	RegisterValidator("watch_lookahead", DurationValidator(false))
	RegisterValidator("watch_interval", PositiveDurationValidator())
	RegisterValidator("heartbeat_timeout", PositiveDurationValidator())
	RegisterValidator("heartbeat_interval", PositiveDurationValidator())
}

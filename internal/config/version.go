package config

// Version is the blastview binary version.
// Set at build time via: -ldflags "-X github.com/blastview/blastview/internal/config.Version=<tag>"
var Version = "dev"

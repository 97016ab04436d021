package config

import (
	"os"
	"sync"
)

var detectDocker = sync.OnceValue(func() bool {
	// Docker creates /.dockerenv in every container.
	_, err := os.Stat("/.dockerenv")
	return err == nil
})

// IsRunningInDocker reports whether the engine is running inside a Docker
// container. The result is cached after the first call.
func IsRunningInDocker() bool {
	return detectDocker()
}

// ResolveHostForDocker maps loopback database hosts to host.docker.internal
// when the engine runs in a container, so a sandbox running on the host
// machine stays reachable. Any other host is returned unchanged.
func ResolveHostForDocker(host string) string {
	if !IsRunningInDocker() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}

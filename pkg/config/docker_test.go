package config

import "testing"

func TestResolveHostForDockerLeavesRemoteHosts(t *testing.T) {
	// Non-loopback hosts are never rewritten regardless of Docker status.
	hosts := []string{
		"sandbox.example.com",
		"192.168.1.100",
		"host.docker.internal",
	}

	for _, host := range hosts {
		if got := ResolveHostForDocker(host); got != host {
			t.Errorf("ResolveHostForDocker(%q) = %q, want unchanged", host, got)
		}
	}
}

func TestResolveHostForDockerLoopback(t *testing.T) {
	// The rewrite only fires inside a container, so assert consistency
	// with the detector rather than a fixed value.
	for _, host := range []string{"localhost", "127.0.0.1"} {
		got := ResolveHostForDocker(host)
		if IsRunningInDocker() {
			if got != "host.docker.internal" {
				t.Errorf("ResolveHostForDocker(%q) = %q, want host.docker.internal", host, got)
			}
		} else if got != host {
			t.Errorf("ResolveHostForDocker(%q) = %q, want unchanged", host, got)
		}
	}
}

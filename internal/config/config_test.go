package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DefaultRoom != "main" {
		t.Errorf("default_room = %q, want main", cfg.DefaultRoom)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Errorf("ping_period = %v, want 54s", cfg.PingPeriod)
	}
	if cfg.ReadLimit != 32768 {
		t.Errorf("read_limit = %d, want 32768", cfg.ReadLimit)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("send_buffer = %d, want 32", cfg.SendBuffer)
	}
	if cfg.JoinLimit != 8 {
		t.Errorf("join_limit = %d, want 8", cfg.JoinLimit)
	}
}

func TestICEServers(t *testing.T) {
	cfg := Config{STUNURLs: []string{"stun:stun.example.com:3478"}}
	servers := cfg.ICEServers()
	if len(servers) != 1 {
		t.Fatalf("got %d servers, want 1", len(servers))
	}
	if servers[0].URLs[0] != "stun:stun.example.com:3478" {
		t.Fatalf("urls %v", servers[0].URLs)
	}

	cfg.TURNURL = "turn:turn.example.com:3478"
	cfg.TURNUser = "u"
	cfg.TURNPassword = "p"
	servers = cfg.ICEServers()
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}
	if servers[1].Username != "u" {
		t.Fatalf("turn username %q", servers[1].Username)
	}
	if cred, ok := servers[1].Credential.(string); !ok || cred != "p" {
		t.Fatalf("turn credential %v", servers[1].Credential)
	}
}

func TestICEServersEmpty(t *testing.T) {
	var cfg Config
	if servers := cfg.ICEServers(); len(servers) != 0 {
		t.Fatalf("got %d servers, want 0", len(servers))
	}
}

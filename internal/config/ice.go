package config

import "github.com/pion/webrtc/v4"

// ICEServers builds the client-facing ICE server list. Served over the REST
// API so browsers construct their RTCPeerConnection against the same STUN and
// TURN endpoints the deployment is provisioned with. The negotiation itself
// happens peer-to-peer; this server only relays the resulting blobs.
func (c *Config) ICEServers() []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, 2)
	if len(c.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: c.STUNURLs})
	}
	if c.TURNURL != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:       []string{c.TURNURL},
			Username:   c.TURNUser,
			Credential: c.TURNPassword,
		})
	}
	return servers
}

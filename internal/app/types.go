package app

// GameStatus represents one entry of the CTD status feed (status.json)
type GameStatus struct {
	Name      string         `json:"name"`
	Game      string         `json:"game"`
	Status    string         `json:"status"`
	Version   *string        `json:"version"`
	BuildType string         `json:"build_type"`
	Quality   string         `json:"quality"`
	Features  []string       `json:"features"`
	Published PublishedLinks `json:"published"`
}

// PublishedLinks holds the distribution channels a build is published to.
// A nil entry means the build is not available on that channel.
type PublishedLinks struct {
	GitHub *string `json:"github"`
	Nexus  *string `json:"nexus"`
	EzMode *string `json:"ezmode"`
}

// StatusFeed is the full status.json document keyed by game identifier
type StatusFeed map[string]GameStatus

package status

import (
	"sort"

	"ezmode_site/internal/app"
)

// DisplayGame is a status feed entry prepared for rendering
type DisplayGame struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Tier        VisibilityTier `json:"status"`
	Description string         `json:"description"`
	DownloadURL *string        `json:"githubUrl"`
}

// HasDownload reports whether the game has a published GitHub release
func (g DisplayGame) HasDownload() bool {
	return g.DownloadURL != nil && *g.DownloadURL != ""
}

// Transform converts one feed entry into display data (pure function)
func Transform(id string, game app.GameStatus) DisplayGame {
	tier := LifecycleStage(game.Status).Tier()

	return DisplayGame{
		ID:          id,
		Name:        game.Game,
		Tier:        tier,
		Description: Describe(tier, game.Version),
		DownloadURL: game.Published.GitHub,
	}
}

// Describe builds the one-line blurb for a tier. An empty version counts as unreleased.
func Describe(tier VisibilityTier, version *string) string {
	hasVersion := version != nil && *version != ""

	switch tier {
	case TierLive:
		if hasVersion {
			return "v" + *version + ". Go break things."
		}
		return "Available. Go break things."
	case TierAlpha:
		if hasVersion {
			return "v" + *version + ". Experimental but functional."
		}
		return "Alpha. Experimental but functional."
	default:
		return "Planned. Stay tuned."
	}
}

// BuildCatalog transforms the whole feed and orders it for display.
// Feed order is identifier order since the JSON object carries none.
func BuildCatalog(feed app.StatusFeed) []DisplayGame {
	ids := make([]string, 0, len(feed))
	for id := range feed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	games := make([]DisplayGame, 0, len(ids))
	for _, id := range ids {
		games = append(games, Transform(id, feed[id]))
	}

	return Order(games)
}

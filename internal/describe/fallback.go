package describe

import "github.com/talgya/hexcrawl/internal/terrain"

// fallbacks is the canned description table used when the generation
// server is unreachable.
var fallbacks = map[terrain.Type][]string{
	terrain.Forest: {
		"Ancient trees tower overhead, their branches creating a verdant canopy. The air is thick with the scent of moss and decay.",
		"The forest whispers with unseen life and hidden paths. Shadows dance between the massive trunks.",
	},
	terrain.Plains: {
		"Endless grasslands ripple in the wind like a golden sea. The horizon seems infinitely distant.",
		"The open plains stretch to the horizon under vast skies. Wild flowers dot the landscape.",
	},
	terrain.Mountains: {
		"Jagged peaks pierce the clouds, eternal and imposing. The air grows thin and cold.",
		"Rocky cliffs and steep paths challenge any traveler. Eagles circle overhead.",
	},
	terrain.Water: {
		"Deep waters reflect the sky, hiding depths unknown. Gentle waves lap at unseen shores.",
		"The water's surface conceals aquatic mysteries. Strange ripples disturb the calm.",
	},
	terrain.Desert: {
		"Sand dunes shift endlessly under the scorching sun. Mirages dance on the horizon.",
		"The desert's harsh beauty masks hidden oases. Wind-carved rocks create natural sculptures.",
	},
	terrain.Swamp: {
		"Murky waters and twisted trees create an eerie landscape. Strange bubbles rise from the depths.",
		"The swamp bubbles with mysterious life and decay. Fog drifts between gnarled roots.",
	},
	terrain.Tundra: {
		"Frozen wastes stretch endlessly, beautiful and desolate. The wind cuts like ice.",
		"Ice and snow dominate this harsh, unforgiving land. Aurora lights dance overhead.",
	},
	terrain.Hills: {
		"Rolling hills create a patchwork of light and shadow. Ancient paths wind between them.",
		"Gentle slopes hide valleys and ancient secrets. Wildflowers carpet the hillsides.",
	},
}

const genericFallback = "An unexplored region awaits discovery."

// Fallback returns canned text for a terrain, picked at random from the
// per-terrain variants. Terrains outside the table get a generic line.
func (c *Client) Fallback(t terrain.Type) string {
	options, ok := fallbacks[t]
	if !ok {
		return genericFallback
	}
	return options[c.rng.IntN(len(options))]
}

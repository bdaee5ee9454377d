package scheduler

import (
	"goflare.io/display/models"
	"goflare.io/display/models/enum"
)

// ResolveModes returns the display modes a promotion belongs to. Precedence:
//
//  1. every showAs* flag set to true in DisplaySettings;
//  2. otherwise the promotion's DisplayMode field, when it is a known mode;
//  3. otherwise banner.
//
// The result is never empty.
func ResolveModes(p *models.Promotion) []enum.DisplayMode {
	if modes := p.DisplaySettings.ExplicitModes(); len(modes) > 0 {
		return modes
	}
	if p.DisplayMode.IsValid() {
		return []enum.DisplayMode{p.DisplayMode}
	}
	return []enum.DisplayMode{enum.DisplayModeBanner}
}

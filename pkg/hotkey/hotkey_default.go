//go:build !darwin && !windows

package hotkey

import "golang.design/x/hotkey"

const (
	supported = false

	modCtrl = hotkey.Modifier(0) // Dummy for default
	modAlt  = hotkey.Modifier(0)

	keyRight = hotkey.Key(0)
	keyV     = hotkey.Key(0)
)

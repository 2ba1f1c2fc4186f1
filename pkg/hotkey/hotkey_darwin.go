//go:build darwin

package hotkey

import "golang.design/x/hotkey"

const (
	supported = true

	modCtrl = hotkey.ModCmd
	modAlt  = hotkey.ModOption

	keyRight = hotkey.KeyRight
	keyV     = hotkey.KeyV
)

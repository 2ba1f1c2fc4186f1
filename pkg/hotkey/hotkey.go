package hotkey

import (
	"time"

	"golang.design/x/hotkey"

	"github.com/folio-ebooks/folio/pkg/viewmanager"
	"github.com/folio-ebooks/folio/util/log"
)

// StartListeners initializes and starts the global hotkey listeners.
// It registers shortcuts for cycling to the next view and re-applying
// the last one, so views can be switched while another application has
// focus.
func StartListeners(vm *viewmanager.Plugin) {
	if !supported {
		log.Printf("Global hotkeys not supported on this platform")
		return
	}

	// Ctrl + Alt + Right Arrow (Next View)
	hkNext := hotkey.New([]hotkey.Modifier{modCtrl, modAlt}, keyRight)

	// Ctrl + Alt + V (Reapply Last View)
	hkReapply := hotkey.New([]hotkey.Modifier{modCtrl, modAlt}, keyV)

	// Helper to register and listen
	registerAndListen := func(hk *hotkey.Hotkey, name string, action func()) {
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register hotkey %s: %v", name, err)
			return
		}
		log.Printf("Registered hotkey: %s", name)

		go func() {
			for range hk.Keydown() {
				log.Debugf("Hotkey pressed: %s", name)
				action()
				time.Sleep(200 * time.Millisecond)
			}
		}()
	}

	registerAndListen(hkNext, "Next View", vm.ApplyNextView)
	registerAndListen(hkReapply, "Reapply Last View", vm.ReapplyLastView)
}

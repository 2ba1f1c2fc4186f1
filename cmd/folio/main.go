package main

import (
	"flag"

	"github.com/folio-ebooks/folio/config"
	"github.com/folio-ebooks/folio/pkg/favourites"
	"github.com/folio-ebooks/folio/pkg/hotkey"
	"github.com/folio-ebooks/folio/pkg/viewmanager"
	"github.com/folio-ebooks/folio/ui"
	"github.com/folio-ebooks/folio/util/log"
)

func main() {
	libraryPath := flag.String("library", "", "path to the library directory (defaults to the last used library)")
	flag.Parse()

	fa := ui.GetInstance()
	cfg := config.GetConfig(fa.GetPreferences())

	vm := viewmanager.New()
	fa.Register(vm)
	fa.Register(favourites.New())

	var err error
	if *libraryPath != "" {
		err = fa.OpenLibrary(*libraryPath)
	} else {
		err = fa.OpenDefaultLibrary()
	}
	if err != nil {
		log.Printf("open library: %v", err)
	}

	hotkey.StartListeners(vm)

	if cfg.GetCheckUpdatesOnStart() {
		go fa.CheckForUpdates(false)
	}

	fa.Run()
}

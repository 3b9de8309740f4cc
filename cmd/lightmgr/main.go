package main

import (
	"os"

	"github.com/go-home-io/lightmgr/settings"
	"github.com/go-home-io/lightmgr/worker"
	"github.com/jessevdk/go-flags"
)

func main() {
	options := &settings.StartUpOptions{}
	_, err := flags.Parse(options)
	if err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}

		os.Exit(1)
	}

	s, err := settings.Load(options)
	if err != nil {
		panic(err)
	}

	s.SystemLogger().Info("Starting light manager")

	w, err := worker.NewLightManager(s)
	if err != nil {
		s.SystemLogger().Fatal("Failed to start light manager", err)
	}

	w.Start()
}

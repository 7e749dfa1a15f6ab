/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-gl/engine"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/testbed"
)

func main() {
	configPath := flag.String("config", "anima.toml", "path to the engine options")
	assetsDir := flag.String("assets", "assets", "directory holding shaders and textures")
	hotReload := flag.Bool("hot-reload", true, "reload shaders when their files change")
	flag.Parse()

	options, err := core.LoadOptions(*configPath)
	if err != nil {
		core.LogFatal("failed to load options: %s", err)
	}
	core.ConfigureLogging(options.Core)

	tb := testbed.NewTestGame(*assetsDir, *hotReload)

	e, err := engine.New(tb.Game, options)
	if err != nil {
		core.LogFatal("failed to create the engine: %s", err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("failed to initialize the engine: %s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		// GL calls stay on the main goroutine, so only ask the loop to stop
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
	}
	if runErr != nil {
		core.LogFatal("engine stopped: %s", runErr)
	}
}

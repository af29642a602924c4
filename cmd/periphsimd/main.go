// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// periphsimd runs a simulated ESPHome device described by a YAML config
// file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/periphsim/esphome-device/config"
)

// autoCancellingContext returns a context canceled on SIGINT or if the
// executable or config file is modified on disk, so `go build && run`
// loops pick up changes without a manual restart.
func autoCancellingContext(cfg string) (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	chanSignal := make(chan os.Signal, 1)
	go func() {
		<-chanSignal
		cancel()
	}()
	signal.Notify(chanSignal, os.Interrupt)

	exe, err := os.Executable()
	if err != nil {
		return ctx, cancel, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ctx, cancel, err
	}

	lookup := map[string]time.Time{}
	for _, n := range []string{exe, cfg} {
		fi, err := os.Stat(n)
		if err != nil {
			_ = watcher.Close()
			return ctx, cancel, err
		}
		if err := watcher.Add(n); err != nil {
			_ = watcher.Close()
			return ctx, cancel, err
		}
		lookup[n] = fi.ModTime()
		log.Printf("watching: %s @ %s", n, lookup[n])
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case err := <-watcher.Errors:
				log.Printf("got error while watching for file changes, exiting. %s", err)
				cancel()
				return
			case e := <-watcher.Events:
				log.Printf("got file event %s", e.Name)
				fi2, err2 := os.Stat(e.Name)
				if err2 != nil {
					log.Printf("file %s doesn't exist anymore, ignoring", e.Name)
					continue
				}
				if mod := fi2.ModTime(); !mod.Equal(lookup[e.Name]) {
					log.Printf("file %s was modified, exiting.", e.Name)
					cancel()
					return
				}
			}
		}
	}()
	return ctx, cancel, nil
}

func mainImpl() error {
	flag.Usage = func() {
		o := flag.CommandLine.Output()
		fmt.Fprintf(o, "usage: %s <config.yaml> <command>\n", os.Args[0])
		fmt.Fprintf(o, "\nCommands are:\n")
		fmt.Fprintf(o, "  install  Install the simulator to run on boot\n")
		fmt.Fprintf(o, "  run      Run the simulator\n")
		fmt.Fprintf(o, "\n")
		flag.PrintDefaults()
	}
	apiPort := flag.Int("api-port", 6053, "native API TCP port")
	webPort := flag.Int("web-port", 8080, "HTTP/SSE port")
	flag.Parse()
	if flag.NArg() != 2 {
		return errors.New("expect 2 arguments. Use -help for more information")
	}
	configFile := flag.Arg(0)
	cmd := flag.Arg(1)

	configFile, err := filepath.Abs(configFile)
	if err != nil {
		return err
	}

	ctx, cancel, err := autoCancellingContext(configFile)
	defer cancel()
	if err != nil {
		return err
	}

	/* #nosec G304 */
	b, err := ioutil.ReadFile(configFile)
	if err != nil {
		return err
	}

	cfg := config.Root{}
	if err := cfg.LoadYaml(b); err != nil {
		return err
	}

	switch cmd {
	case "install":
		return install(configFile)
	case "run":
		return run(ctx, &cfg, *apiPort, *webPort)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "periphsimd: %s.\n", err)
		os.Exit(1)
	}
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/periphsim/esphome-device/apiserver"
	"github.com/periphsim/esphome-device/config"
	"github.com/periphsim/esphome-device/device"
	"github.com/periphsim/esphome-device/httpapi"
	"github.com/periphsim/esphome-device/runtime"
)

func run(ctx context.Context, cfg *config.Root, apiPort, webPort int) error {
	dev, err := runtime.Build(cfg)
	if err != nil {
		return err
	}

	api := apiserver.New(dev, clockwork.NewRealClock())
	if err := dev.AddEntity(api); err != nil {
		return err
	}
	if err := api.Start(ctx, fmt.Sprintf(":%d", apiPort)); err != nil {
		return err
	}
	log.Printf("native API listening on %s", api.Addr())

	web := httpapi.New(dev)
	if err := dev.AddEntity(web); err != nil {
		return err
	}
	httpSrv := &http.Server{Addr: fmt.Sprintf(":%d", webPort), Handler: web.Router()}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http server: %s", err)
		}
	}()
	log.Printf("http/sse listening on %s", httpSrv.Addr)

	adv, err := device.Advertise(dev, apiPort, nil)
	if err != nil {
		log.Printf("mdns advertise failed, continuing without it: %s", err)
	}

	log.Printf("device %q initialized", dev.Info.Name)
	<-ctx.Done()
	log.Printf("shutting down")

	if adv != nil {
		adv.Shutdown()
	}
	_ = httpSrv.Shutdown(context.Background())
	return api.Close()
}

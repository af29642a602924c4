// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package device

import (
	"fmt"
	"net"
	"strings"

	"github.com/grandcat/zeroconf"
)

// Advertiser wraps the zeroconf mDNS registration for this device, exposing
// it on the network as "_esphomelib._tcp.local." the way a real ESPHome
// node does, so Home Assistant's discovery flow finds it unprompted.
type Advertiser struct {
	server *zeroconf.Server
}

// Advertise registers d on the network at the given native-API port. The
// returned Advertiser must be Shutdown when the device is torn down.
func Advertise(d *Device, port int, ifaces []net.Interface) (*Advertiser, error) {
	txt := []string{
		"network=wifi",
		"board=esp32",
		"platform=" + d.Info.Model,
		"mac=" + strings.ReplaceAll(d.mac, ":", ""),
		"version=" + d.Info.EsphomeVersion,
		"friendly_name=" + d.name,
		"api_version=1.5.0",
		"manufacturer=" + d.Info.Manufacturer,
		"model=" + d.Info.Model,
		"name=" + d.name,
		"project_name=" + d.Info.ProjectName,
	}
	srv, err := zeroconf.Register(slugify(d.name), "_esphomelib._tcp", "local.", port, txt, ifaces)
	if err != nil {
		return nil, fmt.Errorf("device: mdns advertise: %w", err)
	}
	return &Advertiser{server: srv}, nil
}

// Shutdown withdraws the mDNS advertisement.
func (a *Advertiser) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}

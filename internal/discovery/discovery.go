// Package discovery advertises a running emulator over mDNS via
// brutella/dnssd, so a LAN receiver-testing tool can discover which
// station, format, and rate a host is currently emitting without
// needing that information passed out-of-band. Purely additive: the
// core engine has no notion of network discovery.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"

	"github.com/kangtastic/timesignal/internal/codec"
	"github.com/kangtastic/timesignal/internal/station"
)

const serviceType = "_timesignal._udp"

// Advertiser owns one mDNS service registration for the lifetime of a
// running emulation.
type Advertiser struct {
	responder dnssd.Responder
	handle    dnssd.ServiceHandle
	cancel    context.CancelFunc
}

// Advertise registers an mDNS service record naming the station,
// format, and rate the host is emitting, and starts the responder in
// the background. Call Shutdown to withdraw it.
func Advertise(host string, port int, id station.ID, format codec.Format, rate codec.Rate) (*Advertiser, error) {
	cfg := dnssd.Config{
		Name: fmt.Sprintf("%s-%s", id, host),
		Type: serviceType,
		Port: port,
		Text: map[string]string{
			"station": id.String(),
			"format":  format.String(),
			"rate":    fmt.Sprintf("%d", rate),
		},
	}
	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("discovery: new service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return nil, fmt.Errorf("discovery: new responder: %w", err)
	}
	handle, err := responder.Add(svc)
	if err != nil {
		return nil, fmt.Errorf("discovery: add service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = responder.Respond(ctx)
	}()

	return &Advertiser{responder: responder, handle: handle, cancel: cancel}, nil
}

// Shutdown withdraws the service record and stops the responder.
func (a *Advertiser) Shutdown() {
	if a == nil {
		return
	}
	a.cancel()
}

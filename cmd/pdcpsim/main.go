// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

// Command pdcpsim drives a handful of pdcp.Entity instances from a JSON
// config file, the way cmd/gnbsim.go drove a GNB/UE session from
// gnbsim.json. It wires each bearer's lower_dn to a GTP-U tunnel
// (internal/gtpshim) and its upper_cn to an F1AP-style SCTP notifier
// (internal/f1notify), then feeds it a handful of sample SDUs.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hhorai/gnbpdcp/internal/f1notify"
	"github.com/hhorai/gnbpdcp/internal/gtpshim"
	"github.com/hhorai/gnbpdcp/pdcp"
)

// bearerConfig mirrors the JSON shape of a single PDCP bearer, the way
// gnbsim.json described a single UE/RAN session.
type bearerConfig struct {
	LCID        uint8  `json:"lcid"`
	BearerKind  string `json:"bearer_kind"` // "srb" or "drb"
	SNSize      int    `json:"sn_size"`     // 12 or 18
	RLCMode     string `json:"rlc_mode"`    // "um" or "am"
	DiscardMS   int    `json:"discard_ms"`  // 0 = not_configured
	NotifyCount uint32 `json:"notify_count"`
	HardCount   uint32 `json:"hard_count"`
	PeerGTPAddr string `json:"peer_gtp_addr"`
	LocalTEID   uint32 `json:"local_teid"`
	PeerTEID    uint32 `json:"peer_teid"`
	CUAddr      string `json:"cu_addr"`
	CUPort      int    `json:"cu_port"`
}

type simConfig struct {
	Bearers []bearerConfig `json:"bearers"`
}

func main() {
	cfg, err := loadConfig("pdcpsim.json")
	if err != nil {
		fmt.Printf("loadConfig failed: %v\n", err)
		return
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	for _, bc := range cfg.Bearers {
		if err := runBearer(bc, logger); err != nil {
			logger.WithError(err).WithField("lcid", bc.LCID).Error("pdcpsim: bearer failed")
		}
	}
}

func loadConfig(jsonFile string) (cfg simConfig, err error) {
	buf, err := os.ReadFile(jsonFile)
	if err != nil {
		return cfg, fmt.Errorf("pdcpsim: reading %s: %w", jsonFile, err)
	}
	if err = json.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("pdcpsim: parsing %s: %w", jsonFile, err)
	}
	return cfg, nil
}

func runBearer(bc bearerConfig, logger *logrus.Logger) error {
	entCfg := pdcp.Config{
		SNSize:       pdcp.SNSize(bc.SNSize),
		BearerKind:   parseBearerKind(bc.BearerKind),
		RLCMode:      parseRLCMode(bc.RLCMode),
		Direction:    pdcp.Downlink,
		LCID:         bc.LCID,
		DiscardTimer: discardTimerFromMS(bc.DiscardMS),
		MaxCount:     pdcp.MaxCount{Notify: bc.NotifyCount, Hard: bc.HardCount},
	}

	sec := pdcp.SecurityConfig{
		IntegAlgo:        pdcp.NIA2,
		CipherAlgo:       pdcp.NEA2,
		IntegrityEnabled: true,
		CipheringEnabled: true,
	}

	tun, err := gtpshim.NewTunnel(net.ParseIP(bc.PeerGTPAddr), bc.LocalTEID, bc.PeerTEID,
		func(count uint32) {
			logger.WithField("count", count).Info("pdcpsim: PDU discarded before transmission")
		},
		func(e error) {
			logger.WithError(e).Warn("pdcpsim: GTP-U tunnel write failed")
		})
	if err != nil {
		return fmt.Errorf("gtpshim.NewTunnel: %w", err)
	}
	defer tun.Close()

	notifier, err := f1notify.Dial(net.IPAddr{IP: net.ParseIP(bc.CUAddr)}, bc.CUPort,
		func(e error) {
			logger.WithError(e).Warn("pdcpsim: F1AP notification failed")
		})
	if err != nil {
		return fmt.Errorf("f1notify.Dial: %w", err)
	}
	defer notifier.Close()

	ent, err := pdcp.NewEntity(entCfg, sec, notifier, tun, nil, pdcp.NewRealTimerService(), logger)
	if err != nil {
		return fmt.Errorf("pdcp.NewEntity: %w", err)
	}

	for i := 0; i < 8; i++ {
		sdu := []byte{0xde, 0xad, 0xbe, 0xef, byte(i)}
		if err := ent.HandleSDU(sdu); err != nil {
			return fmt.Errorf("HandleSDU: %w", err)
		}
	}

	logger.WithField("tx_next", ent.TXNext()).WithField("pending", ent.PendingCount()).
		Info("pdcpsim: bearer drained")
	return nil
}

func parseBearerKind(s string) pdcp.BearerKind {
	if s == "srb" {
		return pdcp.SRB
	}
	return pdcp.DRB
}

func parseRLCMode(s string) pdcp.RLCMode {
	if s == "am" {
		return pdcp.RLCAcknowledged
	}
	return pdcp.RLCUnacknowledged
}

func discardTimerFromMS(ms int) pdcp.DiscardTimer {
	switch ms {
	case 0:
		return pdcp.DiscardNotConfigured
	case 10:
		return pdcp.Discard10ms
	case 1500:
		return pdcp.Discard1500ms
	default:
		return pdcp.DiscardInfinity
	}
}

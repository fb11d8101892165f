// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/tembolo1284/georisk/fragility"
	"github.com/tembolo1284/georisk/inp"
	"github.com/tembolo1284/georisk/persist"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// message
	io.PfWhite("\nGeorisk -- Fragility Scoring Engine\n\n")

	// scenario filenamepath
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a scenario filename. Ex.: scenario.scn\n")
	}
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".scn"
	}

	// top-N regions to report
	topN := 10
	if len(flag.Args()) > 1 {
		topN = io.Atoi(flag.Arg(1))
	}

	// read scenario and build the state space
	scn := inp.ReadScenario(fnamepath)
	space, err := scn.BuildSpace()
	if err != nil {
		chk.Panic("cannot build state space: %v\n", err)
	}
	surface, err := scn.BuildSurface()
	if err != nil {
		chk.Panic("cannot build constraint surface: %v\n", err)
	}
	cfg, err := scn.BuildConfig()
	if err != nil {
		chk.Panic("cannot build fragility config: %v\n", err)
	}

	// sweep
	m, err := fragility.New(space, surface, cfg)
	if err != nil {
		chk.Panic("cannot build fragility map: %v\n", err)
	}
	if err := m.Compute(); err != nil {
		chk.Panic("fragility sweep failed: %v\n", err)
	}
	io.Pf("%v", m.Report(topN))

	// persist, if requested
	if scn.DirOut != "" {
		store, err := persist.Open(scn.DirOut + "/georisk.db")
		if err != nil {
			chk.Panic("cannot open snapshot store: %v\n", err)
		}
		defer store.Close()
		id, err := store.Save(scn.Desc, m)
		if err != nil {
			chk.Panic("cannot save snapshot: %v\n", err)
		}
		io.Pf("snapshot saved: %s\n", id)
	}
}

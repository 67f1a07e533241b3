// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"context"
	"fmt"
	"os"

	"github.com/quickplug/quickplug/pkg/host"
	"github.com/quickplug/quickplug/pkg/logging"
)

// Run dispatches one host invocation for a plugin binary: it picks the
// host implementation (pipe host under the interactive driver, terminal
// host otherwise), wires logging, and runs a single dispatch cycle from
// the process arguments. Intended as the body of a plugin's main:
//
//	func main() {
//		reg := route.NewRegistry()
//		if err := reg.RegisterAll(routes); err != nil {
//			...
//		}
//		os.Exit(route.Run(reg))
//	}
func Run(reg *Registry) int {
	logger := logging.Setup("quickplug", "text", os.Stderr)

	var (
		h host.Host
		r host.Renderer
	)
	if os.Getenv(host.EnvIPC) == "1" {
		ph, err := host.PipeHostFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "quickplug: %v\n", err)
			return 1
		}
		defer func() { _ = ph.Close() }()
		h, r = ph, ph
	} else {
		th := host.NewTermHost(os.Stdout)
		h, r = th, th
	}

	d, err := NewDispatcher(reg, h, r, WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "quickplug: %v\n", err)
		return 1
	}

	d.Dispatch(context.Background(), os.Args[1:])
	return 0
}

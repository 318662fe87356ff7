// flexsdrd is the flexsdr primary daemon.
//
// It creates the shared-memory pools and rings its role declares, writes a
// readiness file for orchestrators, serves the RF control plane over gRPC
// and observability over HTTP, and blocks until terminated by signal.
// Secondary processes attach to the objects it created.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/daemon"
	"github.com/flexsdr/flexsdr/pkg/logging"
)

const version = "0.3.0"

func main() {
	configFile := flag.String("config", "/etc/flexsdr/flexsdr.yaml", "configuration file path")
	apiAddr := flag.String("api-addr", "127.0.0.1:8080", "HTTP observability listen address (empty to disable)")
	grpcAddr := flag.String("grpc-addr", "127.0.0.1:50051", "gRPC control-plane listen address (empty to disable)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "flexsdrd: unexpected argument %q\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	level := logging.LevelFromEnv()
	if *debug {
		level = logging.NumericLevel(3)
	}
	logging.Setup(level)

	d := daemon.New(daemon.Options{
		ConfigFile: *configFile,
		APIAddr:    *apiAddr,
		GRPCAddr:   *grpcAddr,
		Version:    version,
	})

	if err := d.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "flexsdrd: %v\n", err)
		if errors.Is(err, config.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

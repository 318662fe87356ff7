// flexsdrctl is the remote control CLI for flexsdrd.
//
// It connects to the daemon's gRPC control plane and drives the RF
// parameters interactively or from a single command line.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/flexsdr/flexsdr/pkg/device"
)

func main() {
	addr := flag.String("addr", "", "flexsdrd gRPC address (default $DEVICE_ADDR or 127.0.0.1:50051)")
	flag.Parse()

	client, err := device.Dial(device.Endpoint(*addr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "flexsdrctl: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// Verify connectivity before dropping into the shell.
	info, err := client.DeviceInfo()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flexsdrctl: cannot reach flexsdrd: %v\n", err)
		os.Exit(1)
	}

	if flag.NArg() > 0 {
		if err := runCommand(client, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "flexsdrctl: %v\n", err)
			os.Exit(2)
		}
		return
	}

	fmt.Printf("connected to %s (serial %s, version %s)\n",
		info.GetMboard(), info.GetSerial(), info.GetVersion())

	rl, err := readline.New("flexsdr> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "flexsdrctl: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "help", "?":
			usage()
			continue
		}
		if err := runCommand(client, fields); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func usage() {
	fmt.Println(`commands:
  set <freq|gain|rate> <rx|tx> <chan> <value>
  get <freq|gain|rate> <rx|tx> <chan>
  info
  quit`)
}

func runCommand(client *device.Client, args []string) error {
	switch args[0] {
	case "info":
		info, err := client.DeviceInfo()
		if err != nil {
			return err
		}
		fmt.Printf("mboard:      %s\nserial:      %s\nversion:     %s\nrx channels: %d\ntx channels: %d\n",
			info.GetMboard(), info.GetSerial(), info.GetVersion(),
			info.GetNumRxChannels(), info.GetNumTxChannels())
		return nil

	case "set":
		if len(args) != 5 {
			return fmt.Errorf("usage: set <freq|gain|rate> <rx|tx> <chan> <value>")
		}
		unit, ch, err := parseTarget(args[2], args[3])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return fmt.Errorf("bad value %q", args[4])
		}
		var actual float64
		switch args[1] {
		case "freq":
			actual, err = client.SetFreq(unit, ch, value)
		case "gain":
			actual, err = client.SetGain(unit, ch, value)
		case "rate":
			actual, err = client.SetRate(unit, ch, value)
		default:
			return fmt.Errorf("unknown parameter %q", args[1])
		}
		if err != nil {
			return err
		}
		fmt.Printf("actual: %g\n", actual)
		return nil

	case "get":
		if len(args) != 4 {
			return fmt.Errorf("usage: get <freq|gain|rate> <rx|tx> <chan>")
		}
		unit, ch, err := parseTarget(args[2], args[3])
		if err != nil {
			return err
		}
		var actual float64
		switch args[1] {
		case "freq":
			actual, err = client.GetFreq(unit, ch)
		case "gain":
			actual, err = client.GetGain(unit, ch)
		case "rate":
			actual, err = client.GetRate(unit, ch)
		default:
			return fmt.Errorf("unknown parameter %q", args[1])
		}
		if err != nil {
			return err
		}
		fmt.Printf("%g\n", actual)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func parseTarget(unit, chanStr string) (string, uint32, error) {
	if unit != "rx" && unit != "tx" {
		return "", 0, fmt.Errorf("unit must be rx or tx, got %q", unit)
	}
	ch, err := strconv.ParseUint(chanStr, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("bad channel %q", chanStr)
	}
	return unit, uint32(ch), nil
}

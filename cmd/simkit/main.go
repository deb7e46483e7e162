// Command simkit drives the simulator device-management tool from the
// terminal: list the inventory, watch it for changes, run device actions, and
// record video.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"simkit/internal/adapter/simctl"
	"simkit/internal/domain"
	"simkit/internal/infra/config"
	"simkit/internal/infra/logger"
	"simkit/internal/infra/tracer"
	"simkit/internal/usecase/capture"
	"simkit/internal/usecase/eventbus"
	"simkit/internal/usecase/executor"
	"simkit/internal/usecase/runner"
)

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "--help", "-h", "help":
		showUsage()
		return
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "simkit: %v\n", err)
		os.Exit(1)
	}
}

func run(verb string, args []string) error {
	cfg, err := config.Load(os.Getenv("SIMKIT_CONFIG"))
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	bus := eventbus.New(log)
	defer bus.Close()

	captures := capture.NewManager(capture.ManagerConfig{
		MaxSessions:     cfg.Capture.MaxSessions,
		SessionTTL:      cfg.SessionTTL(),
		OutputBufferMax: cfg.Capture.OutputBufferMax,
	}, bus, log)
	defer captures.Stop(context.Background())

	exec := executor.New(executor.Config{
		ToolPath: cfg.Tool.Path,
		ToolArgs: cfg.Tool.Args,
	}, runner.New(log), captures, log)

	client := simctl.NewClient(exec, cfg.PollInterval(), log)

	switch verb {
	case "devices":
		return listDevices(ctx, client)
	case "apps":
		if len(args) < 1 {
			return fmt.Errorf("usage: simkit apps <udid>")
		}
		return listApps(ctx, client, args[0])
	case "watch":
		return watchDevices(ctx, client)
	case "boot":
		if len(args) < 1 {
			return fmt.Errorf("usage: simkit boot <udid>")
		}
		return client.Boot(ctx, args[0])
	case "shutdown":
		if len(args) < 1 {
			return fmt.Errorf("usage: simkit shutdown <udid>")
		}
		return client.Shutdown(ctx, args[0])
	case "record":
		if len(args) < 2 {
			return fmt.Errorf("usage: simkit record <udid> <out.mov>")
		}
		return recordVideo(ctx, client, args[0], args[1])
	default:
		return fmt.Errorf("unknown command: %s", verb)
	}
}

func listDevices(ctx context.Context, client *simctl.Client) error {
	inv, err := client.Devices(ctx)
	if err != nil {
		return err
	}
	printInventory(inv)
	return nil
}

func listApps(ctx context.Context, client *simctl.Client, udid string) error {
	apps, err := client.Apps(ctx, udid)
	if err != nil {
		return err
	}
	for _, app := range apps {
		fmt.Printf("%-40s %s\n", app.BundleIdentifier, app.DisplayName)
	}
	return nil
}

func watchDevices(ctx context.Context, client *simctl.Client) error {
	sub := client.WatchDevices(ctx)
	defer sub.Stop()

	for inv := range sub.Updates() {
		printInventory(inv)
		fmt.Println("---")
	}
	if err := sub.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func recordVideo(ctx context.Context, client *simctl.Client, udid, outPath string) error {
	handle, err := client.RecordVideo(ctx, udid, outPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "recording %s: press Ctrl-C to stop\n", outPath)
	<-ctx.Done()

	if err := handle.Interrupt(); err != nil {
		return handle.Kill(context.Background())
	}
	return handle.Wait(context.Background())
}

func printInventory(inv domain.Inventory) {
	for _, rt := range inv.Runtimes {
		devices := inv.Devices[rt.Identifier]
		if len(devices) == 0 {
			continue
		}
		fmt.Printf("%s\n", rt.Name)
		for _, d := range devices {
			fmt.Printf("  %-36s %-24s %s\n", d.UDID, d.Name, d.State)
		}
	}
}

func showUsage() {
	fmt.Print(`simkit - simulator tool orchestration

Usage:
  simkit devices                    list the device inventory
  simkit apps <udid>                list installed apps on a device
  simkit watch                      stream inventory changes until interrupted
  simkit boot <udid>                boot a device
  simkit shutdown <udid>            shut a device down
  simkit record <udid> <out.mov>    record video until interrupted

Configuration is read from $SIMKIT_CONFIG (YAML) with SIMKIT_* env overrides.
`)
}

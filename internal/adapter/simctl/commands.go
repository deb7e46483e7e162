// Package simctl holds the catalog of simulator-tool subcommands and the
// high-level client that drives them. Constructors here are pure: they only
// assemble domain.Command values, which the executor renders and runs.
package simctl

import "simkit/internal/domain"

// List describes "list -j": the full device/runtime/devicetype inventory as
// JSON.
func List() domain.Command {
	return domain.Command{Name: "list", Args: []string{"-j"}}
}

// ListApps describes "listapps <udid>": installed applications on a device,
// emitted as a property list.
func ListApps(udid string) domain.Command {
	return domain.Command{Name: "listapps", Args: []string{udid}}
}

// Boot describes booting a device.
func Boot(udid string) domain.Command {
	return domain.Command{Name: "boot", Args: []string{udid}}
}

// Shutdown describes shutting a device down.
func Shutdown(udid string) domain.Command {
	return domain.Command{Name: "shutdown", Args: []string{udid}}
}

// Erase describes erasing a device's content and settings.
func Erase(udid string) domain.Command {
	return domain.Command{Name: "erase", Args: []string{udid}}
}

// Delete describes deleting a device.
func Delete(udid string) domain.Command {
	return domain.Command{Name: "delete", Args: []string{udid}}
}

// Create describes creating a device from a device type and runtime.
func Create(name, deviceTypeID, runtimeID string) domain.Command {
	return domain.Command{Name: "create", Args: []string{name, deviceTypeID, runtimeID}}
}

// OpenURL describes opening a URL on a booted device.
func OpenURL(udid, url string) domain.Command {
	return domain.Command{Name: "openurl", Args: []string{udid, url}}
}

// InstallApp describes installing an app bundle on a device.
func InstallApp(udid, bundlePath string) domain.Command {
	return domain.Command{Name: "install", Args: []string{udid, bundlePath}}
}

// UninstallApp describes removing an app from a device.
func UninstallApp(udid, bundleID string) domain.Command {
	return domain.Command{Name: "uninstall", Args: []string{udid, bundleID}}
}

// LaunchApp describes launching an app. env entries are forwarded to the
// launched process via the tool's SIMCTL_CHILD_ convention.
func LaunchApp(udid, bundleID string, env map[string]string) domain.Command {
	cmd := domain.Command{Name: "launch", Args: []string{udid, bundleID}}
	if len(env) > 0 {
		cmd.Env = make(map[string]string, len(env))
		for k, v := range env {
			cmd.Env["SIMCTL_CHILD_"+k] = v
		}
	}
	return cmd
}

// TerminateApp describes terminating a running app.
func TerminateApp(udid, bundleID string) domain.Command {
	return domain.Command{Name: "terminate", Args: []string{udid, bundleID}}
}

// Screenshot describes capturing a screenshot to outPath.
func Screenshot(udid, outPath string) domain.Command {
	return domain.Command{Name: "io", Args: []string{udid, "screenshot", outPath}}
}

// RecordVideo describes starting a video recording to outPath. The command
// runs until interrupted, so it is executed detached.
func RecordVideo(udid, outPath string) domain.Command {
	return domain.Command{Name: "io", Args: []string{udid, "recordVideo", "--force", outPath}}
}

package simctl

import (
	"context"
	"log/slog"
	"time"

	"simkit/internal/codec"
	"simkit/internal/domain"
	"simkit/internal/usecase/capture"
	"simkit/internal/usecase/executor"
	"simkit/internal/usecase/feed"
)

// Client is the stateless coordinating surface over the simulator tool. It is
// dependency-injected rather than global: construct one and pass it to
// whatever consumes device data.
type Client struct {
	exec     *executor.Executor
	interval time.Duration
	logger   *slog.Logger
}

// NewClient creates a Client. interval is the device-feed poll period;
// interval <= 0 uses feed.DefaultInterval.
func NewClient(exec *executor.Executor, interval time.Duration, logger *slog.Logger) *Client {
	return &Client{exec: exec, interval: interval, logger: logger}
}

// Devices returns the current device inventory.
func (c *Client) Devices(ctx context.Context) (domain.Inventory, error) {
	return executor.Decoded(ctx, c.exec, List(), codec.JSON[domain.Inventory]())
}

// Apps returns the applications installed on a device.
func (c *Client) Apps(ctx context.Context, udid string) (domain.AppList, error) {
	return executor.Decoded(ctx, c.exec, ListApps(udid), codec.PropertyList[domain.AppList]())
}

// WatchDevices starts a deduplicated inventory feed. The first snapshot is
// emitted immediately; afterwards a snapshot is emitted only when the decoded
// inventory changes. The subscription ends on the first failed poll or when
// the caller stops it.
func (c *Client) WatchDevices(ctx context.Context) *feed.Subscription[domain.Inventory] {
	poller := feed.New(c.Devices, c.interval, c.logger)
	return poller.Subscribe(ctx)
}

// Boot boots a device.
func (c *Client) Boot(ctx context.Context, udid string) error {
	_, err := c.exec.Execute(ctx, Boot(udid))
	return err
}

// Shutdown shuts a device down.
func (c *Client) Shutdown(ctx context.Context, udid string) error {
	_, err := c.exec.Execute(ctx, Shutdown(udid))
	return err
}

// Erase erases a device's content and settings.
func (c *Client) Erase(ctx context.Context, udid string) error {
	_, err := c.exec.Execute(ctx, Erase(udid))
	return err
}

// Delete deletes a device.
func (c *Client) Delete(ctx context.Context, udid string) error {
	_, err := c.exec.Execute(ctx, Delete(udid))
	return err
}

// Create creates a device and returns its UDID (the tool prints it alone on
// stdout).
func (c *Client) Create(ctx context.Context, name, deviceTypeID, runtimeID string) (string, error) {
	out, err := c.exec.Execute(ctx, Create(name, deviceTypeID, runtimeID))
	if err != nil {
		return "", err
	}
	return trimLine(out), nil
}

// OpenURL opens a URL on a booted device.
func (c *Client) OpenURL(ctx context.Context, udid, url string) error {
	_, err := c.exec.Execute(ctx, OpenURL(udid, url))
	return err
}

// InstallApp installs an app bundle on a device.
func (c *Client) InstallApp(ctx context.Context, udid, bundlePath string) error {
	_, err := c.exec.Execute(ctx, InstallApp(udid, bundlePath))
	return err
}

// UninstallApp removes an app from a device.
func (c *Client) UninstallApp(ctx context.Context, udid, bundleID string) error {
	_, err := c.exec.Execute(ctx, UninstallApp(udid, bundleID))
	return err
}

// LaunchApp launches an app, forwarding env to the launched process.
func (c *Client) LaunchApp(ctx context.Context, udid, bundleID string, env map[string]string) error {
	_, err := c.exec.Execute(ctx, LaunchApp(udid, bundleID, env))
	return err
}

// TerminateApp terminates a running app.
func (c *Client) TerminateApp(ctx context.Context, udid, bundleID string) error {
	_, err := c.exec.Execute(ctx, TerminateApp(udid, bundleID))
	return err
}

// Screenshot captures a screenshot to outPath.
func (c *Client) Screenshot(ctx context.Context, udid, outPath string) error {
	_, err := c.exec.Execute(ctx, Screenshot(udid, outPath))
	return err
}

// RecordVideo starts a detached video recording and returns the handle. Stop
// the recording with Handle.Interrupt; the tool finalizes the file on SIGINT.
func (c *Client) RecordVideo(ctx context.Context, udid, outPath string) (*capture.Handle, error) {
	return c.exec.Detach(ctx, RecordVideo(udid, outPath))
}

func trimLine(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

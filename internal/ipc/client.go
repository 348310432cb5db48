package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tagtile/internal/runtimepath"
)

// Client sends one request per connection to the daemon socket.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client for the daemon managing $DISPLAY.
func NewClient() *Client {
	// A resolution error leaves the path empty; the dial reports it.
	socketPath, _ := runtimepath.SocketPath()
	return NewClientAt(socketPath)
}

// NewClientAt returns a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

// call sends cmd with an optional payload and decodes the reply data into
// out when out is non-nil.
func (c *Client) call(cmd CommandType, payload, out any) error {
	req := Request{Command: cmd}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	line, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if _, err := conn.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(reply, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return fmt.Errorf("daemon error: %s", resp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus returns screens, workspaces and daemon uptime.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors returns the screen rectangles the daemon tiles into.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ListLayouts returns the layout names with the default and active one.
func (c *Client) ListLayouts() (*LayoutsData, error) {
	var layouts LayoutsData
	if err := c.call(CommandListLayouts, nil, &layouts); err != nil {
		return nil, err
	}
	return &layouts, nil
}

// SetLayout switches the current workspace's layout.
func (c *Client) SetLayout(layoutName string) error {
	return c.call(CommandSetLayout, SetLayoutPayload{LayoutName: layoutName}, nil)
}

// CycleLayout steps the current workspace's layout and returns the new name.
func (c *Client) CycleLayout(delta int) (string, error) {
	var data CycleLayoutData
	if err := c.call(CommandCycleLayout, CycleLayoutPayload{Delta: delta}, &data); err != nil {
		return "", err
	}
	return data.Layout, nil
}

// View makes the workspace at tag position index current.
func (c *Client) View(index int) error {
	return c.call(CommandView, ViewPayload{Index: index}, nil)
}

// Ping checks that the daemon answers.
func (c *Client) Ping() error {
	return c.call(CommandGetStatus, nil, nil)
}

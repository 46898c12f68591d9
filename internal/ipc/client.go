package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientWithPath(socketPath)
}

// NewClientWithPath creates a client for the socket at socketPath.
func NewClientWithPath(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.call(CommandGetMonitors, nil, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ListGroups retrieves a snapshot of every group.
func (c *Client) ListGroups() ([]group.GroupInfo, error) {
	var data GroupsData
	if err := c.call(CommandListGroups, nil, &data); err != nil {
		return nil, err
	}
	return data.Groups, nil
}

// GroupWindows merges windows into one group.
func (c *Client) GroupWindows(windows []uint32) (*ActionData, error) {
	return c.action(CommandGroupWindows, GroupWindowsPayload{Windows: windows})
}

// Ungroup dissolves the group of window. Zero means the active window.
func (c *Client) Ungroup(window uint32) (*ActionData, error) {
	return c.action(CommandUngroup, WindowPayload{Window: window})
}

// RemoveWindow takes window out of its group.
func (c *Client) RemoveWindow(window uint32) (*ActionData, error) {
	return c.action(CommandRemoveWindow, WindowPayload{Window: window})
}

// Tab collapses the group of window into a tab stack.
func (c *Client) Tab(window uint32) (*ActionData, error) {
	return c.action(CommandTab, WindowPayload{Window: window})
}

// Untab spreads the group of window back out.
func (c *Client) Untab(window uint32) (*ActionData, error) {
	return c.action(CommandUntab, WindowPayload{Window: window})
}

// ChangeTab switches the top tab. An empty direction raises window itself.
func (c *Client) ChangeTab(window uint32, direction string) (*ActionData, error) {
	return c.action(CommandChangeTab, ChangeTabPayload{Window: window, Direction: direction})
}

// ChangeColor assigns a new random color to the group of window.
func (c *Client) ChangeColor(window uint32) (*ActionData, error) {
	return c.action(CommandChangeColor, WindowPayload{Window: window})
}

// CloseGroup closes every window in the group of window.
func (c *Client) CloseGroup(window uint32) (*ActionData, error) {
	return c.action(CommandCloseGroup, WindowPayload{Window: window})
}

func (c *Client) action(command CommandType, payload any) (*ActionData, error) {
	var data ActionData
	if err := c.call(command, payload, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

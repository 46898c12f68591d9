package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tabgroup/internal/group"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandListGroups   CommandType = "LIST_GROUPS"
	CommandGroupWindows CommandType = "GROUP_WINDOWS"
	CommandUngroup      CommandType = "UNGROUP"
	CommandRemoveWindow CommandType = "REMOVE_WINDOW"
	CommandTab          CommandType = "TAB"
	CommandUntab        CommandType = "UNTAB"
	CommandChangeTab    CommandType = "CHANGE_TAB"
	CommandChangeColor  CommandType = "CHANGE_COLOR"
	CommandCloseGroup   CommandType = "CLOSE_GROUP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Windows       int    `json:"windows"`
	Groups        int    `json:"groups"`
	TabbedGroups  int    `json:"tabbed_groups"`
	Selected      int    `json:"selected"`
	Pending       int    `json:"pending"`
	Ignoring      bool   `json:"ignoring"`
	ConfigFile    string `json:"config_file,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// GroupsData represents the data returned by LIST_GROUPS
type GroupsData struct {
	Groups []group.GroupInfo `json:"groups"`
}

// WindowPayload names the window an action applies to. Zero means the
// active window.
type WindowPayload struct {
	Window uint32 `json:"window,omitempty"`
}

// GroupWindowsPayload lists the windows merged by GROUP_WINDOWS.
type GroupWindowsPayload struct {
	Windows []uint32 `json:"windows"`
}

// Tab change directions for CHANGE_TAB.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// ChangeTabPayload is the payload for CHANGE_TAB. With no direction the
// window itself becomes the top tab of its group.
type ChangeTabPayload struct {
	Window    uint32 `json:"window,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// ActionData reports whether an action changed engine state.
type ActionData struct {
	Window  uint32 `json:"window"`
	Changed bool   `json:"changed"`
	Group   uint64 `json:"group,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tagtile/internal/wm"
)

// CommandType names a request. Requests and responses travel as one JSON
// object per line.
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandListLayouts CommandType = "LIST_LAYOUTS"
	CommandSetLayout   CommandType = "SET_LAYOUT"
	CommandCycleLayout CommandType = "CYCLE_LAYOUT"
	CommandView        CommandType = "VIEW"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request is sent by a client.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response answers a Request. Data is set on success, Error on failure.
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData answers GET_STATUS.
type StatusData struct {
	ActiveLayout  string              `json:"active_layout"`
	WindowCount   int                 `json:"window_count"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	DaemonRunning bool                `json:"daemon_running"`
	Screens       []wm.ScreenState    `json:"screens"`
	Workspaces    []wm.WorkspaceState `json:"workspaces"`
}

// MonitorInfo is one screen rectangle.
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData answers GET_MONITORS.
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type LayoutsData struct {
	Layouts       []string `json:"layouts"`
	DefaultLayout string   `json:"default_layout"`
	ActiveLayout  string   `json:"active_layout"`
}

type SetLayoutPayload struct {
	LayoutName string `json:"layout_name"`
}

type CycleLayoutPayload struct {
	Delta int `json:"delta"`
}

type CycleLayoutData struct {
	Layout string `json:"layout"`
}

// ViewPayload addresses a workspace by its position in the tag list.
type ViewPayload struct {
	Index int `json:"index"`
}

// NewOKResponse wraps data, which may be nil, in a successful response.
func NewOKResponse(data any) (*Response, error) {
	resp := &Response{Status: StatusOK}
	if data == nil {
		return resp, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	resp.Data = raw
	return resp, nil
}

// NewErrorResponse reports errMsg to the client.
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: StatusError, Error: errMsg}
}

// ParseRequest decodes one request line.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

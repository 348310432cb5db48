package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/tagtile/internal/platform"
	"github.com/1broseidon/tagtile/internal/runtimepath"
	"github.com/1broseidon/tagtile/internal/wm"
)

// Controller is the daemon surface the server exposes.
type Controller interface {
	State() wm.State
	View(index int) error
	SetLayout(name string) error
	CycleLayout(delta int) (string, error)
	LayoutNames() []string
	Displays() ([]platform.Display, error)
}

type commandFunc func(payload json.RawMessage) (any, error)

// Server answers requests on a unix socket, one request per connection.
type Server struct {
	socketPath    string
	controller    Controller
	defaultLayout string
	startTime     time.Time
	commands      map[CommandType]commandFunc

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// NewServer creates a server on the socket for display ("" means $DISPLAY).
func NewServer(controller Controller, display, defaultLayout string) (*Server, error) {
	socketPath, err := runtimepath.SocketPathFor(display)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, controller, defaultLayout), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, controller Controller, defaultLayout string) *Server {
	s := &Server{
		socketPath:    socketPath,
		controller:    controller,
		defaultLayout: defaultLayout,
		startTime:     time.Now(),
	}
	s.commands = map[CommandType]commandFunc{
		CommandGetStatus:   s.status,
		CommandGetMonitors: s.monitors,
		CommandListLayouts: s.layouts,
		CommandSetLayout:   s.setLayout,
		CommandCycleLayout: s.cycleLayout,
		CommandView:        s.view,
	}
	return s
}

// Start replaces any stale socket and begins accepting connections.
func (s *Server) Start() error {
	os.Remove(s.socketPath)
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	log.Printf("IPC server listening on %s", s.socketPath)
	go s.serve(listener)
	return nil
}

// Stop closes the listener and removes the socket.
func (s *Server) Stop() {
	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) serve(listener net.Listener) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Printf("IPC accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	var resp *Response
	if req, err := ParseRequest(line); err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		resp = s.handleCommand(req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if _, err := conn.Write(append(out, '\n')); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	fn, ok := s.commands[req.Command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
	data, err := fn(req.Payload)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decodePayload(cmd CommandType, payload json.RawMessage, into any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("invalid %s payload: %w", cmd, err)
	}
	return nil
}

func currentLayout(state wm.State) string {
	for _, ws := range state.Workspaces {
		if ws.Current {
			return ws.Layout
		}
	}
	return ""
}

func (s *Server) status(json.RawMessage) (any, error) {
	state := s.controller.State()
	status := StatusData{
		ActiveLayout:  currentLayout(state),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		Screens:       state.Screens,
		Workspaces:    state.Workspaces,
	}
	for _, ws := range state.Workspaces {
		status.WindowCount += len(ws.Windows)
	}
	return status, nil
}

func (s *Server) monitors(json.RawMessage) (any, error) {
	displays, err := s.controller.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to get monitors: %w", err)
	}
	data := MonitorsData{Monitors: make([]MonitorInfo, 0, len(displays))}
	for _, d := range displays {
		data.Monitors = append(data.Monitors, MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		})
	}
	return data, nil
}

func (s *Server) layouts(json.RawMessage) (any, error) {
	return LayoutsData{
		Layouts:       s.controller.LayoutNames(),
		DefaultLayout: s.defaultLayout,
		ActiveLayout:  currentLayout(s.controller.State()),
	}, nil
}

func (s *Server) setLayout(payload json.RawMessage) (any, error) {
	var req SetLayoutPayload
	if err := decodePayload(CommandSetLayout, payload, &req); err != nil {
		return nil, err
	}
	if req.LayoutName == "" {
		return nil, errors.New("layout_name is required")
	}
	log.Printf("IPC: set layout %s", req.LayoutName)
	if err := s.controller.SetLayout(req.LayoutName); err != nil {
		return nil, fmt.Errorf("failed to set layout: %w", err)
	}
	return nil, nil
}

func (s *Server) cycleLayout(payload json.RawMessage) (any, error) {
	req := CycleLayoutPayload{Delta: 1}
	if err := decodePayload(CommandCycleLayout, payload, &req); err != nil {
		return nil, err
	}
	name, err := s.controller.CycleLayout(req.Delta)
	if err != nil {
		return nil, fmt.Errorf("failed to cycle layout: %w", err)
	}
	return CycleLayoutData{Layout: name}, nil
}

func (s *Server) view(payload json.RawMessage) (any, error) {
	if len(payload) == 0 {
		return nil, errors.New("index is required")
	}
	var req ViewPayload
	if err := decodePayload(CommandView, payload, &req); err != nil {
		return nil, err
	}
	log.Printf("IPC: view %d", req.Index)
	if err := s.controller.View(req.Index); err != nil {
		return nil, fmt.Errorf("failed to view workspace: %w", err)
	}
	return nil, nil
}

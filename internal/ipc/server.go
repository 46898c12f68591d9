package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/1broseidon/tabgroup/internal/group"
	"github.com/1broseidon/tabgroup/internal/platform"
	"github.com/1broseidon/tabgroup/internal/runtimepath"
)

const requestTimeout = 5 * time.Second

// Engine runs functions against the engine on its owning goroutine.
type Engine interface {
	Do(ctx context.Context, fn func(e *group.Engine) (any, error)) (any, error)
}

// displayLister is implemented by backends that know the monitor layout.
type displayLister interface {
	Displays() ([]platform.Display, error)
}

// ServerConfig holds the collaborators of a Server.
type ServerConfig struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Backend    platform.Backend
	// Reload re-reads the configuration and applies it.
	Reload func() error
	// ConfigFile is reported by GET_STATUS.
	ConfigFile string
	Logger     logrus.FieldLogger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath string
	engine     Engine
	backend    platform.Backend
	reload     func() error
	configFile string
	log        logrus.FieldLogger
	startTime  time.Time
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig, engine Engine) (*Server, error) {
	socketPath := cfg.SocketPath
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		socketPath: socketPath,
		engine:     engine,
		backend:    cfg.Backend,
		reload:     cfg.Reload,
		configFile: cfg.ConfigFile,
		log:        logger,
		startTime:  time.Now(),
	}, nil
}

func (s *Server) String() string { return "ipc-server" }

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Serve listens on the socket and handles connections until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	// Remove a stale socket left by a previous run
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.log.WithField("socket", s.socketPath).Info("IPC server listening")

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.log.WithError(err).Warn("IPC accept error")
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.WithError(err).Debug("IPC read error")
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp = s.handleCommand(reqCtx, req)
		cancel()
	}

	respData, err := resp.Marshal()
	if err != nil {
		s.log.WithError(err).Error("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.WithError(err).Debug("failed to send response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.log.WithField("command", req.Command).Debug("IPC request")

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandListGroups:
		return s.handleListGroups(ctx)
	case CommandGroupWindows:
		return s.handleGroupWindows(ctx, req.Payload)
	case CommandUngroup:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).DeleteGroupOf)
	case CommandRemoveWindow:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).RemoveWindow)
	case CommandTab:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).TabGroup)
	case CommandUntab:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).UntabGroup)
	case CommandChangeTab:
		return s.handleChangeTab(ctx, req.Payload)
	case CommandChangeColor:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).ChangeColor)
	case CommandCloseGroup:
		return s.handleWindowAction(ctx, req.Payload, (*group.Engine).CloseGroup)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.log.Info("IPC: received RELOAD command")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus(ctx context.Context) *Response {
	v, err := s.engine.Do(ctx, func(e *group.Engine) (any, error) {
		status := StatusData{
			Windows:  e.WindowCount(),
			Selected: len(e.Selected()),
			Pending:  e.Pending(),
			Ignoring: e.Ignoring(),
		}
		for _, g := range e.Groups() {
			status.Groups++
			if g.Tabbed {
				status.TabbedGroups++
			}
		}
		return status, nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get status: %v", err))
	}

	status := v.(StatusData)
	status.ConfigFile = s.configFile
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DaemonRunning = true

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	lister, ok := s.backend.(displayLister)
	if !ok {
		return NewErrorResponse("monitor information is not available")
	}
	displays, err := lister.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}

	monitorInfos := make([]MonitorInfo, len(displays))
	for i, d := range displays {
		monitorInfos[i] = MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}

	resp, _ := NewOKResponse(MonitorsData{Monitors: monitorInfos})
	return resp
}

func (s *Server) handleListGroups(ctx context.Context) *Response {
	v, err := s.engine.Do(ctx, func(e *group.Engine) (any, error) {
		return e.Groups(), nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list groups: %v", err))
	}
	resp, _ := NewOKResponse(GroupsData{Groups: v.([]group.GroupInfo)})
	return resp
}

func (s *Server) handleGroupWindows(ctx context.Context, payload json.RawMessage) *Response {
	var req GroupWindowsPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid group payload: %v", err))
	}
	if len(req.Windows) == 0 {
		return NewErrorResponse("windows is required")
	}

	ids := make([]platform.WindowID, len(req.Windows))
	for i, w := range req.Windows {
		ids[i] = platform.WindowID(w)
	}
	v, err := s.engine.Do(ctx, func(e *group.Engine) (any, error) {
		changed := e.GroupWindows(ids)
		data := ActionData{Window: req.Windows[0], Changed: changed}
		if g := e.GroupOf(ids[0]); g != nil {
			data.Group = g.Identifier()
		}
		return data, nil
	})
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to group windows: %v", err))
	}
	resp, _ := NewOKResponse(v)
	return resp
}

func (s *Server) handleChangeTab(ctx context.Context, payload json.RawMessage) *Response {
	var req ChangeTabPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid change tab payload: %v", err))
		}
	}

	var action func(*group.Engine, platform.WindowID) bool
	switch req.Direction {
	case "":
		action = (*group.Engine).ChangeTab
	case DirectionLeft:
		action = (*group.Engine).ChangeTabLeft
	case DirectionRight:
		action = (*group.Engine).ChangeTabRight
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown direction: %s", req.Direction))
	}
	return s.runWindowAction(ctx, req.Window, action)
}

// handleWindowAction runs action on the window named by a WindowPayload.
func (s *Server) handleWindowAction(ctx context.Context, payload json.RawMessage, action func(*group.Engine, platform.WindowID) bool) *Response {
	var req WindowPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
		}
	}
	return s.runWindowAction(ctx, req.Window, action)
}

func (s *Server) runWindowAction(ctx context.Context, window uint32, action func(*group.Engine, platform.WindowID) bool) *Response {
	id := platform.WindowID(window)
	if id == 0 {
		active, err := s.backend.ActiveWindow()
		if err != nil {
			return NewErrorResponse(fmt.Sprintf("Failed to resolve active window: %v", err))
		}
		id = active
	}

	v, err := s.engine.Do(ctx, func(e *group.Engine) (any, error) {
		if _, ok := e.Window(id); !ok {
			return nil, fmt.Errorf("unknown window %#x", uint32(id))
		}
		data := ActionData{Window: uint32(id), Changed: action(e, id)}
		if g := e.GroupOf(id); g != nil {
			data.Group = g.Identifier()
		}
		return data, nil
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(v)
	return resp
}

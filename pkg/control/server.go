// Package control implements the FlexSDRControl gRPC service: the RF
// parameter table of the device the primary fronts, plus device identity.
package control

//go:generate protoc --go_out=../.. --go_opt=module=github.com/flexsdr/flexsdr --go-grpc_out=../.. --go-grpc_opt=module=github.com/flexsdr/flexsdr --proto_path=../../proto flexsdr/v1/flexsdr.proto

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/flexsdr/flexsdr/pkg/control/flexsdrv1"
)

// Limits clamp the parameter ranges the device accepts.
type Limits struct {
	MinFreq, MaxFreq float64
	MinGain, MaxGain float64
	MinRate, MaxRate float64
}

// DefaultLimits covers the tuning range of the reference front end.
func DefaultLimits() Limits {
	return Limits{
		MinFreq: 70e6, MaxFreq: 6e9,
		MinGain: 0, MaxGain: 89.75,
		MinRate: 200e3, MaxRate: 61.44e6,
	}
}

// Info is the device identity reported by GetDeviceInfo.
type Info struct {
	Mboard        string
	Serial        string
	Version       string
	NumRxChannels uint32
	NumTxChannels uint32
}

type chanParams struct {
	freq float64
	gain float64
	rate float64
}

// Server implements the FlexSDRControl service over an in-memory
// parameter table. Set operations clamp to the limits and return the
// value actually applied.
type Server struct {
	pb.UnimplementedFlexSDRControlServer

	limits Limits
	info   Info
	addr   string

	mu sync.Mutex
	rx map[uint32]*chanParams
	tx map[uint32]*chanParams
}

// NewServer creates a control server listening at addr once Run is called.
func NewServer(addr string, info Info, limits Limits) *Server {
	return &Server{
		limits: limits,
		info:   info,
		addr:   addr,
		rx:     make(map[uint32]*chanParams),
		tx:     make(map[uint32]*chanParams),
	}
}

// Run serves the control plane until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("control listen: %w", err)
	}
	return s.Serve(ctx, lis)
}

// Serve runs the control plane on an existing listener.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	pb.RegisterFlexSDRControlServer(srv, s)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("control server listening", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	srv.GracefulStop()
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Server) params(unit string, ch uint32) (*chanParams, error) {
	var m map[uint32]*chanParams
	switch unit {
	case "rx":
		m = s.rx
	case "tx":
		m = s.tx
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown unit %q", unit)
	}
	p, ok := m[ch]
	if !ok {
		p = &chanParams{freq: 2.45e9, gain: 10, rate: 10e6}
		m[ch] = p
	}
	return p, nil
}

// SetFrequency tunes a channel and returns the frequency applied.
func (s *Server) SetFrequency(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	p.freq = clamp(req.GetValue(), s.limits.MinFreq, s.limits.MaxFreq)
	slog.Debug("set frequency", "unit", req.GetUnit(), "chan", req.GetChan(), "freq", p.freq)
	return &pb.ParamResponse{Actual: p.freq}, nil
}

func (s *Server) GetFrequency(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	return &pb.ParamResponse{Actual: p.freq}, nil
}

// SetGain applies a gain and returns the clamped value.
func (s *Server) SetGain(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	p.gain = clamp(req.GetValue(), s.limits.MinGain, s.limits.MaxGain)
	return &pb.ParamResponse{Actual: p.gain}, nil
}

func (s *Server) GetGain(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	return &pb.ParamResponse{Actual: p.gain}, nil
}

// SetRate applies a sample rate and returns the clamped value.
func (s *Server) SetRate(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	p.rate = clamp(req.GetValue(), s.limits.MinRate, s.limits.MaxRate)
	return &pb.ParamResponse{Actual: p.rate}, nil
}

func (s *Server) GetRate(_ context.Context, req *pb.ParamRequest) (*pb.ParamResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.params(req.GetUnit(), req.GetChan())
	if err != nil {
		return nil, err
	}
	return &pb.ParamResponse{Actual: p.rate}, nil
}

func (s *Server) GetDeviceInfo(_ context.Context, _ *pb.DeviceInfoRequest) (*pb.DeviceInfoResponse, error) {
	return &pb.DeviceInfoResponse{
		Mboard:        s.info.Mboard,
		Serial:        s.info.Serial,
		Version:       s.info.Version,
		NumRxChannels: s.info.NumRxChannels,
		NumTxChannels: s.info.NumTxChannels,
	}, nil
}

// Package device exposes the SDR user's view of the dataplane: streamer
// factories over a secondary's handle tables plus RF-parameter passthrough
// to the control plane.
package device

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/flexsdr/flexsdr/pkg/control/flexsdrv1"
)

// EnvDeviceAddr names the environment variable holding the default
// control-plane endpoint.
const EnvDeviceAddr = "DEVICE_ADDR"

// DefaultEndpoint is used when no endpoint is configured anywhere.
const DefaultEndpoint = "127.0.0.1:50051"

// Endpoint resolves the control-plane address: explicit argument, then
// DEVICE_ADDR, then the default.
func Endpoint(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(EnvDeviceAddr); v != "" {
		return v
	}
	return DefaultEndpoint
}

// Client wraps the FlexSDRControl gRPC API.
type Client struct {
	conn *grpc.ClientConn
	api  pb.FlexSDRControlClient

	timeout time.Duration
}

// Dial connects to the control plane at addr.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("device: connect %s: %w", addr, err)
	}
	return &Client{
		conn:    conn,
		api:     pb.NewFlexSDRControlClient(conn),
		timeout: 5 * time.Second,
	}, nil
}

// Close tears the connection down.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *Client) set(call func(context.Context, *pb.ParamRequest, ...grpc.CallOption) (*pb.ParamResponse, error),
	unit string, ch uint32, value float64) (float64, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	resp, err := call(ctx, &pb.ParamRequest{Unit: unit, Chan: ch, Value: value})
	if err != nil {
		return 0, err
	}
	return resp.GetActual(), nil
}

// SetFreq tunes one channel and returns the frequency actually applied.
func (c *Client) SetFreq(unit string, ch uint32, target float64) (float64, error) {
	return c.set(c.api.SetFrequency, unit, ch, target)
}

// GetFreq returns the current frequency of one channel.
func (c *Client) GetFreq(unit string, ch uint32) (float64, error) {
	return c.set(c.api.GetFrequency, unit, ch, 0)
}

// SetGain applies a gain and returns the value actually applied.
func (c *Client) SetGain(unit string, ch uint32, gain float64) (float64, error) {
	return c.set(c.api.SetGain, unit, ch, gain)
}

// GetGain returns the current gain of one channel.
func (c *Client) GetGain(unit string, ch uint32) (float64, error) {
	return c.set(c.api.GetGain, unit, ch, 0)
}

// SetRate applies a sample rate and returns the value actually applied.
func (c *Client) SetRate(unit string, ch uint32, rate float64) (float64, error) {
	return c.set(c.api.SetRate, unit, ch, rate)
}

// GetRate returns the current sample rate of one channel.
func (c *Client) GetRate(unit string, ch uint32) (float64, error) {
	return c.set(c.api.GetRate, unit, ch, 0)
}

// DeviceInfo queries device identity from the control plane.
func (c *Client) DeviceInfo() (*pb.DeviceInfoResponse, error) {
	ctx, cancel := c.ctx()
	defer cancel()
	return c.api.GetDeviceInfo(ctx, &pb.DeviceInfoRequest{})
}

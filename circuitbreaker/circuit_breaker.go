// Package circuitbreaker shields the provider from a misbehaving upstream
// node: once the upstream starts timing out or erroring, calls fail fast
// until the sleep window passes.
package circuitbreaker

import (
	"context"
	"fmt"

	"github.com/afex/hystrix-go/hystrix"
)

type Config struct {
	Timeout                int
	MaxConcurrentRequests  int
	RequestVolumeThreshold int
	SleepWindow            int
	ErrorPercentThreshold  int
}

// DefaultConfig is tuned for a single upstream JSON-RPC endpoint.
func DefaultConfig() Config {
	return Config{
		Timeout:                20000,
		MaxConcurrentRequests:  100,
		RequestVolumeThreshold: 25,
		SleepWindow:            5000,
		ErrorPercentThreshold:  50,
	}
}

type CircuitBreaker struct {
	config Config
}

func NewCircuitBreaker(config Config) *CircuitBreaker {
	return &CircuitBreaker{
		config: config,
	}
}

// Execute runs fn inside the named circuit, configuring the circuit lazily on
// first use. This is a blocking function.
func (cb *CircuitBreaker) Execute(ctx context.Context, circuitName string, fn func(ctx context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("circuit function is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if hystrix.GetCircuitSettings()[circuitName] == nil {
		hystrix.ConfigureCommand(circuitName, hystrix.CommandConfig{
			Timeout:                cb.config.Timeout,
			MaxConcurrentRequests:  cb.config.MaxConcurrentRequests,
			RequestVolumeThreshold: cb.config.RequestVolumeThreshold,
			SleepWindow:            cb.config.SleepWindow,
			ErrorPercentThreshold:  cb.config.ErrorPercentThreshold,
		})
	}

	return hystrix.DoC(ctx, circuitName, fn, nil)
}

// CircuitOpen reports whether the named circuit currently rejects calls.
func CircuitOpen(circuitName string) bool {
	circuit, _, err := hystrix.GetCircuit(circuitName)
	if err != nil {
		return false
	}
	return circuit.IsOpen()
}

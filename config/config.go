package config

import (
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ListenerConstructor creates a listening socket for a bound url. The network is always
// "tcp", the address is host:port with the host taken from NET.Host.
type ListenerConstructor func(network, addr string) (net.Listener, error)

type (
	ConnBuffer struct {
		// Default is the initial capacity of every connection's buffer.
		Default int
		// Maximal limits how much a single connection may buffer. A request, which head and
		// body together exceed the limit, closes the connection.
		Maximal int
	}

	NET struct {
		// Host is the interface address every url is bound on. The host part of urls is used
		// only to route requests, listening always happens on this address.
		Host string `test:"nullable"`
		// ReadBufferSize is the amount of bytes read from a socket at once.
		ReadBufferSize int
		// WriteTimeout limits how long sending a response may block.
		WriteTimeout time.Duration
		// Listen constructs the listening sockets.
		Listen ListenerConstructor
	}

	Body struct {
		// PreviewSize limits how many body bytes are copied into a request received with
		// http.FlagCopyBody.
		PreviewSize int
	}
)

// Config holds settings used across the broker. You must ALWAYS modify defaults (returned
// via Default()) and never try to initialize the config manually.
type Config struct {
	NET    NET
	Buffer ConnBuffer
	Body   Body
	// Logger receives the broker's diagnostics.
	Logger *slog.Logger
	// MeterProvider provides the instruments the broker reports to.
	MeterProvider metric.MeterProvider
}

// Default returns default config.
func Default() *Config {
	return &Config{
		NET: NET{
			ReadBufferSize: 4 * 1024,
			WriteTimeout:   30 * time.Second,
			Listen:         net.Listen,
		},
		Buffer: ConnBuffer{
			Default: 8 * 1024,
			Maximal: 64 * 1024 * 1024,
		},
		Body: Body{
			PreviewSize: 4 * 1024,
		},
		Logger:        slog.Default(),
		MeterProvider: otel.GetMeterProvider(),
	}
}

// FromEnv applies REQQUEUE_* environment overrides on top of the config. Malformed values
// are reported and the field keeps its previous value.
func (c *Config) FromEnv() error {
	var firstErr error
	record := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if host, ok := os.LookupEnv("REQQUEUE_HOST"); ok {
		c.NET.Host = host
	}

	if err := envInt("REQQUEUE_READ_BUFFER", &c.NET.ReadBufferSize); err != nil {
		record(err)
	}
	if err := envInt("REQQUEUE_BUFFER_MAX", &c.Buffer.Maximal); err != nil {
		record(err)
	}
	if err := envInt("REQQUEUE_PREVIEW", &c.Body.PreviewSize); err != nil {
		record(err)
	}

	if raw, ok := os.LookupEnv("REQQUEUE_WRITE_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			record(err)
		} else {
			c.NET.WriteTimeout = timeout
		}
	}

	return firstErr
}

func envInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}

	*dst = value
	return nil
}

// Command httpqueued binds request queues to the given urls and answers every request
// with a JSON document describing it.
//
//	httpqueued -url http://+:8080/ -url http://localhost:9090/ -context 42
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/indigo-web/reqqueue"
	"github.com/indigo-web/reqqueue/config"
	"github.com/indigo-web/reqqueue/http"
	"github.com/indigo-web/reqqueue/http/proto"
	"github.com/indigo-web/reqqueue/http/status"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "httpqueued"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// urlList collects every -url occurrence.
type urlList []string

func (u *urlList) String() string {
	return strings.Join(*u, ",")
}

func (u *urlList) Set(url string) error {
	*u = append(*u, url)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "httpqueued:", err)
		os.Exit(1)
	}
}

func run() error {
	var urls urlList
	flag.Var(&urls, "url", "url to bind a queue to, e.g. http://+:8080/ (repeatable)")
	value := flag.Uint64("context", 0, "opaque value passed along with every request")
	debug := flag.Bool("debug", false, "log debug messages")
	flag.Parse()

	if len(urls) == 0 {
		return errors.New("at least one -url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}

	logger, shutdown, err := setupTelemetry(ctx, level)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "httpqueued: telemetry shutdown:", err)
		}
	}()
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	cfg := config.Default()
	if err := cfg.FromEnv(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.Logger = logger
	cfg.MeterProvider = otel.GetMeterProvider()

	srv, err := reqqueue.New(cfg)
	if err != nil {
		return err
	}

	for _, url := range urls {
		q := srv.Open()
		if err := q.AddURL(url, *value); err != nil {
			return fmt.Errorf("bind %s: %w", url, err)
		}

		go serveQueue(ctx, q, logger)
	}

	srv.NotifyOnStart(func() {
		logger.Info("serving", "urls", urls.String())
	}).NotifyOnStop(func() {
		logger.Info("stopped")
	})

	return srv.Serve(ctx)
}

func serveQueue(ctx context.Context, q *reqqueue.Queue, logger *slog.Logger) {
	tracer := otel.Tracer(serviceName)
	log := logger.With("url", q.URL())

	for {
		req, err := q.Next(ctx, http.FlagCopyBody)
		switch {
		case err == nil:
		case ctx.Err() != nil, status.CodeOf(err) == status.Cancelled:
			return
		default:
			log.Error("failed to receive request", "error", err)
			continue
		}

		handle(ctx, tracer, q, req, log)
	}
}

func handle(ctx context.Context, tracer trace.Tracer, q *reqqueue.Queue, req *http.Request, log *slog.Logger) {
	ctx, span := tracer.Start(ctx, req.RawMethod, trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", req.RawMethod),
			attribute.String("url.full", req.URL),
			attribute.String("server.address", req.Host),
			attribute.Int64("reqqueue.request.id", int64(req.ID)),
		),
	)
	defer span.End()

	body, err := readBody(q, req)
	if err != nil {
		span.RecordError(err)
		log.WarnContext(ctx, "failed to read request body", "id", req.ID, "error", err)
	}

	doc, err := json.Marshal(describe(req, body))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.ErrorContext(ctx, "failed to render response", "id", req.ID, "error", err)
		return
	}

	if err = q.SendResponse(req.ID, appendResponse(nil, req.Version, doc)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.WarnContext(ctx, "failed to send response", "id", req.ID, "error", err)
		return
	}

	log.DebugContext(ctx, "answered request", "id", req.ID, "url", req.URL, "bytes", len(doc))
}

// readBody returns the whole body, starting with the preview copied into the request.
func readBody(q *reqqueue.Queue, req *http.Request) ([]byte, error) {
	body := make([]byte, len(req.Body), req.ContentLength)
	copy(body, req.Body)

	for uint64(len(body)) < req.ContentLength {
		n, err := q.ReceiveBody(req.ID, body[len(body):cap(body)])
		if err != nil {
			return body, err
		}

		body = body[:len(body)+n]
	}

	return body, nil
}

type header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type document struct {
	ID      uint64   `json:"id"`
	Context uint64   `json:"context"`
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Host    string   `json:"host"`
	Version string   `json:"version"`
	Headers []header `json:"headers"`
	Body    string   `json:"body,omitempty"`
	Remote  string   `json:"remote,omitempty"`
}

func describe(req *http.Request, body []byte) document {
	doc := document{
		ID:      uint64(req.ID),
		Context: req.Context,
		Method:  req.RawMethod,
		URL:     req.URL,
		Host:    req.Host,
		Version: req.Version.String(),
		Headers: make([]header, 0, req.Headers.Len()),
		Body:    string(body),
	}

	for name, value := range req.Headers.Iter() {
		doc.Headers = append(doc.Headers, header{Name: name, Value: value})
	}

	if req.Remote != nil {
		doc.Remote = req.Remote.String()
	}

	return doc
}

// appendResponse renders a 200 response carrying the JSON document. HTTP/1.0 clients are
// answered in their own version.
func appendResponse(buff []byte, version proto.Version, doc []byte) []byte {
	if !version.AtLeast(1, 1) {
		version = proto.HTTP10
	} else {
		version = proto.HTTP11
	}

	buff = version.AppendTo(buff)
	buff = append(buff, " 200 OK\r\nContent-Type: application/json\r\nContent-Length: "...)
	buff = strconv.AppendInt(buff, int64(len(doc)), 10)
	buff = append(buff, "\r\n\r\n"...)

	return append(buff, doc...)
}

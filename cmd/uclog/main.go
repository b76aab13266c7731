// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Command uclog runs the log server/viewer: it bridges a bootloader's
// COBS-framed serial link to per-stream TCP listeners and a CBOR-coded
// log channel, optionally displaying trace records locally.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/unitcircleinc/sbl/mux"
)

const defaultHost = "localhost"

func main() {
	target := flag.String("target", "", "serial device to use when connecting")
	host := flag.String("host", "", "host[:port] when serving/connecting")
	serverOnly := flag.Bool("s", false, "server only, no local display")
	client := flag.Bool("c", false, "connect as a client to a running server")
	debug := flag.Bool("debug", false, "debug output")
	flag.Parse()

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	h, base := parseHostPort(*host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if *client {
		err = runLogClient(ctx, h, base)
	} else {
		err = runLogServer(ctx, h, base, *target, *serverOnly)
	}
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func parseHostPort(h string) (string, int) {
	if h == "" {
		return defaultHost, mux.LogPort
	}
	host, portStr, err := net.SplitHostPort(h)
	if err != nil {
		return h, mux.LogPort
	}
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	if host == "" {
		host = defaultHost
	}
	if port == 0 {
		port = mux.LogPort
	}
	return host, port
}

func runLogClient(ctx context.Context, host string, base int) error {
	conn, err := mux.DialLogChannel(ctx, host, base)
	if err != nil {
		return err
	}
	defer conn.Close()

	r := mux.NewLogChannelReader(conn)
	for {
		var rec []interface{}
		if err := r.ReadRecord(&rec); err != nil {
			return err
		}
		displayRecord(rec)
	}
}

func runLogServer(ctx context.Context, host string, base int, target string, serverOnly bool) error {
	if target == "" {
		return fmt.Errorf("uclog: --target serial device is required in server mode")
	}
	f, err := os.OpenFile(target, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("uclog: opening %s: %w", target, err)
	}
	defer f.Close()

	m := mux.New(f)

	var logMu sync.Mutex
	logConns := map[net.Conn]*mux.LogChannelWriter{}

	m.OnTrace(func(frame mux.Frame) {
		rec := []interface{}{frame.Address, frame.Payload}
		if !serverOnly {
			displayRecord(rec)
		}
		logMu.Lock()
		for conn, w := range logConns {
			if err := w.WriteRecord(rec); err != nil {
				delete(logConns, conn)
				conn.Close()
			}
		}
		logMu.Unlock()
	})

	m.OnImageHash(func(hash []byte) {
		fmt.Printf("----- Image hash: %x -----\n", hash)
	})

	logLn, err := mux.ListenTCP(fmt.Sprintf("%s:%d", host, base))
	if err != nil {
		return err
	}
	go func() {
		for {
			conn, err := mux.AcceptOne(ctx, logLn)
			if err != nil {
				return
			}
			logMu.Lock()
			logConns[conn] = mux.NewLogChannelWriter(conn)
			logMu.Unlock()
		}
	}()
	defer logLn.Close()

	srv := mux.NewServer(m, host, base)
	go srv.Serve(ctx)

	return m.Run(ctx)
}

func displayRecord(rec []interface{}) {
	fmt.Printf("%s %v\n", time.Now().Format("15:04:05.000"), rec)
}

// SPDX-FileCopyrightText: (C) 2025 Unit Circle Inc.
// SPDX-License-Identifier: Apache-2.0

// Command uccon is an interactive console for stream 0 of a secure
// bootloader target, either connecting to a running uclog server over
// TCP or opening the serial device directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/unitcircleinc/sbl/mux"
)

const consoleStream = 0

func main() {
	host := flag.String("host", "", "host[:port] to use when connecting to a server")
	target := flag.String("target", "", "serial port to use when connecting directly")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *host, *target); err != nil {
		fmt.Fprintln(os.Stderr, "uccon:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, host, target string) error {
	stream, err := openStream(ctx, host, target)
	if err != nil {
		return err
	}
	defer stream.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := stream.Read(buf)
			if n > 0 {
				os.Stdout.Write(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	in := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(in)
		if err != nil {
			return nil
		}
		if n == 0 {
			continue
		}
		if in[0] == 0x03 { // Ctrl-C
			return nil
		}
		out := in
		if in[0] == '\r' {
			out = []byte("\r\n")
		}
		os.Stdout.Write(out)
		if _, err := stream.Write(in[:1]); err != nil {
			return err
		}
	}
}

func openStream(ctx context.Context, host, target string) (io.ReadWriteCloser, error) {
	switch {
	case target != "":
		f, err := os.OpenFile(target, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", target, err)
		}
		return newDirectStream(ctx, f), nil
	default:
		h, base := parseHostPort(host)
		conn, err := mux.DialStream(ctx, h, base, consoleStream)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

func parseHostPort(h string) (string, int) {
	if h == "" {
		return "localhost", mux.LogPort
	}
	host, portStr, err := net.SplitHostPort(h)
	if err != nil {
		return h, mux.LogPort
	}
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = mux.LogPort
	}
	return host, port
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"twixsite/config"
	"twixsite/favicon"
	"twixsite/server"
	"twixsite/watcher"
)

// options holds the parsed command line
type options struct {
	port  int
	watch bool
}

// parseArgs parses `[-watch] [port]`. Flags must precede the port.
func parseArgs(args []string, defaultPort int) (*options, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	watch := fs.Bool("watch", false, "regenerate favicons when the source SVG changes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{port: defaultPort, watch: *watch}
	switch fs.NArg() {
	case 0:
	case 1:
		port, err := strconv.Atoi(fs.Arg(0))
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q", fs.Arg(0))
		}
		opts.port = port
	default:
		return nil, fmt.Errorf("unexpected arguments after port: %s", strings.Join(fs.Args()[1:], " "))
	}

	return opts, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: serve [-watch] [port]\n")
	fmt.Fprintf(os.Stderr, "  -watch\tregenerate favicons when the source SVG changes\n")
}

func main() {
	cfg, err := config.Default()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	opts, err := parseArgs(os.Args[1:], cfg.Server.Port)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		}
		usage()
		os.Exit(1)
	}
	port := opts.port

	root, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to resolve working directory: %v", err)
	}

	srv := server.NewServer(cfg, root, port, nil)

	ln, err := srv.Listen()
	if err != nil {
		if errors.Is(err, server.ErrPortInUse) {
			fmt.Printf("\n❌ Error: Port %d is already in use.\n", port)
			fmt.Printf("   Try a different port: serve %d\n", port+1)
		} else {
			fmt.Printf("\n❌ Error: %v\n", err)
		}
		os.Exit(1)
	}

	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Println("🚀 TWIX Chain Landing Page - Local Server")
	fmt.Println(rule)
	fmt.Printf("\n✅ Server running at: http://localhost:%d\n", port)
	fmt.Printf("📁 Serving files from: %s\n", root)
	fmt.Printf("\n🌐 Open in browser: http://localhost:%d\n", port)
	fmt.Printf("\n⌨️  Press Ctrl+C to stop the server\n\n")
	fmt.Println(rule)

	if opts.watch {
		gen := favicon.NewGenerator(cfg, root, log.New(os.Stdout, "", 0))
		w, err := watcher.NewWatcher(cfg, root, gen)
		if err != nil {
			log.Fatalf("Failed to create watcher: %v", err)
		}
		if err := w.Start(); err != nil {
			log.Fatalf("Failed to start watcher: %v", err)
		}
		defer w.Stop()

		go func() {
			for event := range w.Events() {
				if event.Err == nil {
					log.Printf("🎨 Favicons regenerated from %s", event.Path)
				}
			}
		}()
	}

	// Wait for interrupt signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := srv.Serve(ctx, ln); err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n\n👋 Server stopped. Goodbye!")
}

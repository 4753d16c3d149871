// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command lineecho is a small demonstration CLI exercising LineManager
// end to end: a "serve" subcommand accepts connections on any registered
// scheme and echoes frames back; a "dial" subcommand connects and sends
// one message. Logging, unlike the core line package, is opinionated
// here — this is the ambient-stack home for go.uber.org/zap and
// github.com/spf13/cobra.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	iol "code.hybscloud.com/line"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lineecho",
		Short: "Echo messages over any code.hybscloud.com/line transport",
	}
	root.AddCommand(newServeCmd(), newDialCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "serve [uri]",
		Short: "Accept connections and echo every received message back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			mgr := iol.DefaultManager()
			acceptor, err := mgr.CreateServer(args[0])
			if err != nil {
				return err
			}
			defer acceptor.Close()

			logger.Info("listening", zap.String("uri", args[0]))
			for {
				ln, err := acceptor.Accept(timeout)
				if err != nil {
					return err
				}
				if ln == nil {
					continue // bounded-wait timeout; keep accepting
				}
				logger.Info("accepted connection")
				go echoLoop(logger, ln)
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "accept-timeout", time.Second, "bounded wait per Accept call, 0 blocks indefinitely on socket and pipe schemes")
	return cmd
}

func echoLoop(logger *zap.Logger, ln iol.Line) {
	defer ln.Close()
	proto := iol.NewMessageProtocol(ln)
	for {
		m := iol.NewMessage()
		if err := proto.ReadMessage(m); err != nil {
			logger.Info("connection ended", zap.Error(err))
			return
		}
		if err := proto.SendMessage(m); err != nil {
			logger.Warn("failed to echo message", zap.Error(err))
			return
		}
	}
}

func newDialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dial [uri] [payload]",
		Short: "Connect, send one single-frame message, print the echoed reply",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := iol.DefaultManager()
			ln, err := mgr.CreateClient(args[0])
			if err != nil {
				return err
			}
			defer ln.Close()

			proto := iol.NewMessageProtocol(ln)
			out := iol.NewMessage()
			out.AppendFrame(iol.FrameFromString(args[1]))
			if err := proto.SendMessage(out); err != nil {
				return err
			}

			in := iol.NewMessage()
			if err := proto.ReadMessage(in); err != nil {
				return err
			}
			for i := 0; i < in.FrameCount(); i++ {
				fmt.Println(in.Frame(i).String())
			}
			return nil
		},
	}
	return cmd
}

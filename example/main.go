// Command example runs a demo command-line service, either as a telnet
// server or directly on the local terminal with --stdio.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/termcmd/termcmd"
)

func demoTable() []termcmd.Command {
	return []termcmd.Command{
		{
			Name:     "time",
			Params:   "",
			Synopsis: "",
			Summary:  "print the current time",
			Handler: func(args *termcmd.Args, out io.Writer) error {
				fmt.Fprintf(out, "%s\r\n", time.Now().Format(time.RFC3339))
				return nil
			},
		},
		{
			Name:     "add",
			Params:   "dd",
			Synopsis: "<a> <b>",
			Summary:  "add two integers",
			Description: "\tAdds two integers and prints the sum.\r\n" +
				"\tValues may be decimal or 0x-prefixed hex.\r\n",
			Handler: func(args *termcmd.Args, out io.Writer) error {
				if args.Count < 2 {
					return fmt.Errorf("add needs two integers")
				}
				fmt.Fprintf(out, "%d\r\n", args.V[0].N+args.V[1].N)
				return nil
			},
		},
		{
			Name:     "greet",
			Params:   "s",
			Synopsis: "[name]",
			Summary:  "say hello",
			Handler: func(args *termcmd.Args, out io.Writer) error {
				name := "world"
				if args.Count > 0 {
					name = args.V[0].Str
				}
				fmt.Fprintf(out, "hello, %s\r\n", name)
				return nil
			},
		},
		{
			Name:     "uptime",
			Params:   "",
			Synopsis: "",
			Summary:  "print time since start",
			Hidden:   true,
			Handler: func(args *termcmd.Args, out io.Writer) error {
				fmt.Fprintf(out, "%s\r\n", time.Since(startTime).Round(time.Second))
				return nil
			},
		},
	}
}

var startTime = time.Now()

func main() {
	root := &cobra.Command{
		Use:          "example",
		Short:        "demo command-line service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := termcmd.DefaultConfig()
			cfg.Prompt = viper.GetString("prompt")
			cfg.WelcomeMsg = viper.GetString("welcome")
			cfg.Echo = viper.GetBool("echo")
			cfg.EnableExit = true
			if viper.GetBool("stdio") {
				return runStdio(cfg)
			}
			return runServer(viper.GetString("addr"), cfg)
		},
	}

	flags := root.Flags()
	flags.String("addr", ":2323", "telnet listen address")
	flags.String("prompt", "cmd> ", "prompt string")
	flags.String("welcome", "Demo command service. Type 'help' for commands.", "welcome message")
	flags.Bool("echo", true, "echo typed characters")
	flags.Bool("stdio", false, "run on the local terminal instead of telnet")
	viper.BindPFlags(flags)
	viper.SetEnvPrefix("TERMCMD")
	viper.AutomaticEnv()

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(addr string, cfg termcmd.Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := termcmd.NewServer(addr, cfg, demoTable(), logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

// runStdio wires the engine to the local terminal in raw mode.
func runStdio(cfg termcmd.Config) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	var svc *termcmd.Service
	cfg.Transmit = func(p []byte) error {
		_, err := os.Stdout.Write(p)
		svc.TxComplete()
		return err
	}
	svc, err = termcmd.New(cfg, demoTable())
	if err != nil {
		return err
	}
	svc.Pump()
	svc.Flush()

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return nil
		}
		// Ctrl-D ends the local session.
		if buf[0] == 0x04 {
			return nil
		}
		svc.RxByte(buf[0])
		svc.Pump()
		svc.Flush()
		if svc.ExitRequested() {
			return nil
		}
	}
}

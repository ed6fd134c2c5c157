package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"ringlight/client"
	"ringlight/config"
	"ringlight/protocol"
)

// runCtl talks to the running daemon. With arguments it executes one
// command; without, it reads commands from stdin (shlex-tokenized, so
// quoted monitor ids work).
func runCtl(args []string) error {
	ctl := client.New(config.SocketPath())
	if len(args) > 0 {
		return execCtl(ctl, args)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		if err := execCtl(ctl, tokens); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	return scanner.Err()
}

func execCtl(ctl *client.Client, tokens []string) error {
	cmd := tokens[0]
	argv := tokens[1:]

	switch cmd {
	case "state":
		st, err := ctl.State()
		if err != nil {
			return err
		}
		fmt.Printf("color        #%s\n", st.Color)
		fmt.Printf("thickness    %d px\n", st.Thickness)
		fmt.Printf("opacity      %.2f\n", st.Opacity)
		fmt.Printf("glow         %d px\n", st.Glow)
		fmt.Printf("corner       %.2f\n", st.CornerRadius)
		fmt.Printf("animation    %s (%d f/cycle)\n", st.Animation, st.AnimationSpeed)
		fmt.Printf("visible      %v\n", st.Visible)
		return nil
	case "monitors":
		monitors, err := ctl.Monitors()
		if err != nil {
			return err
		}
		for _, m := range monitors {
			mark := "on"
			if !m.Enabled {
				mark = "off"
			}
			fmt.Printf("%-12s %-4s %s\n", m.ID, mark, m.DisplayName)
		}
		return nil
	case "quit":
		return ctl.Send(protocol.Quit{})
	case "show":
		return ctl.Send(protocol.SetVisible{Visible: true})
	case "hide":
		return ctl.Send(protocol.SetVisible{Visible: false})
	}

	if len(argv) < 1 {
		return fmt.Errorf("%s needs a value", cmd)
	}
	switch cmd {
	case "set-color":
		return ctl.Send(protocol.SetColor{Hex: strings.TrimPrefix(argv[0], "#")})
	case "set-thickness":
		v, err := parseU32(argv[0])
		if err != nil {
			return err
		}
		return ctl.Send(protocol.SetThickness{Pixels: v})
	case "set-opacity":
		v, err := strconv.ParseFloat(argv[0], 64)
		if err != nil {
			return err
		}
		return ctl.Send(protocol.SetOpacity{Opacity: v})
	case "set-glow":
		v, err := parseU32(argv[0])
		if err != nil {
			return err
		}
		return ctl.Send(protocol.SetGlow{Pixels: v})
	case "set-corner-radius":
		v, err := strconv.ParseFloat(argv[0], 64)
		if err != nil {
			return err
		}
		return ctl.Send(protocol.SetCornerRadius{Ratio: v})
	case "set-animation":
		return ctl.Send(protocol.SetAnimation{Name: argv[0]})
	case "set-animation-speed":
		v, err := parseU32(argv[0])
		if err != nil {
			return err
		}
		return ctl.Send(protocol.SetAnimationSpeed{FramesPerCycle: v})
	case "monitor":
		if len(argv) < 2 {
			return fmt.Errorf("usage: monitor <id> on|off")
		}
		return ctl.Send(protocol.SetMonitorEnabled{ID: argv[0], Enabled: argv[1] == "on"})
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

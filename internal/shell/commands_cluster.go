package shell

import (
	"context"
	"strconv"
	"strings"
)

// health prints the cluster status, colored by severity, and the node
// counts.
func (s *Shell) health(ctx context.Context, _ []string) {
	s.runner.Run(func() error {
		cl, err := s.client()
		if err != nil {
			return err
		}
		health, err := cl.ClusterHealth(ctx)
		if err != nil {
			return err
		}

		status := statusColor(health.Status).Render(health.Status)
		s.console.WriteLine("The cluster status is '%s' and it has %d nodes (where %d node(s) are data nodes)",
			status, health.NumberOfNodes, health.NumberOfDataNodes)
		return nil
	}, nil)
}

func statusColor(status string) Color {
	switch status {
	case "green":
		return Green
	case "yellow":
		return Yellow
	default:
		return Red
	}
}

// nodeInfo prints CPU and memory statistics of one node.
func (s *Shell) nodeInfo(ctx context.Context, args []string) {
	s.runner.Run(func() error {
		if len(args) != 1 {
			return NewCommandError("Usage: node <name>")
		}

		cl, err := s.client()
		if err != nil {
			return err
		}
		node, err := cl.NodeInfo(ctx, args[0])
		if err != nil {
			return err
		}

		memory := node.OS.Memory
		s.console.WriteColorLine(White, "CPU usage: %d%%", node.OS.CPU.Percent)
		s.console.WriteColorLine(White, "Memory usage: %d%%", memory.UsedPercent)
		s.console.WriteColorLine(White, "Memory used: %s", humanReadableBytes(memory.UsedInBytes))
		s.console.WriteColorLine(White, "Memory free: %s", humanReadableBytes(memory.FreeInBytes))
		return nil
	}, nil)
}

// humanReadableBytes formats a byte count with 1000-based units and at most
// two decimals, trailing zeros stripped.
func humanReadableBytes(n uint64) string {
	kilobytes := float64(n) / 1000
	if kilobytes < 1 {
		return strconv.FormatUint(n, 10) + " B"
	}
	megabytes := kilobytes / 1000
	if megabytes < 1 {
		return formatScaled(kilobytes) + " kB"
	}
	gigabytes := megabytes / 1000
	if gigabytes < 1 {
		return formatScaled(megabytes) + " MB"
	}
	return formatScaled(gigabytes) + " GB"
}

func formatScaled(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

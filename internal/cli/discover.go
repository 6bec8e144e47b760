package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	lsnet "LocalSketch/internal/net"
)

type DiscoverOptions struct {
	*RootOptions
	Timeout time.Duration
}

func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiscoverOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List LocalSketch servers on the LAN",
		Long: `Browse the LAN over mDNS and print every LocalSketch server that answers,
with the share link that opens it in the desktop window.

Example:
  localsketch discover --timeout 5s
  localsketch discover --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hosts, err := lsnet.Browse(cmd.Context(), opts.Timeout)
			if err != nil {
				return WrapExitError(ExitFailure, "discovery failed", err)
			}
			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Success(hosts, formatHosts(hosts))
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 3*time.Second, "how long to listen for answers")

	return cmd
}

func formatHosts(hosts []lsnet.Host) string {
	if len(hosts) == 0 {
		return "No LocalSketch servers found.\n"
	}
	var b strings.Builder
	for _, h := range hosts {
		fmt.Fprintf(&b, "%-24s %-22s %s\n", h.Instance, h.Addr, lsnet.ShareLink(h.Addr))
	}
	return b.String()
}

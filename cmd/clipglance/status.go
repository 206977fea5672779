package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipglance/clipglance/internal/ipc"
	"github.com/clipglance/clipglance/internal/status"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the live notifications of a running monitor",
		Long: `Displays the state of a running clipglance monitor: backend, uptime,
accepted/suppressed change counts, and every live notification with its
lifecycle phase. The request is sent over the local IPC socket.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	f.Duration("timeout", 3*time.Second, "query timeout")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	if !ipc.IsRunning() {
		return fmt.Errorf("no monitor listening on %s — is clipglance running?", ipc.SocketPath())
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("timeout"))
	defer cancel()

	resp, err := status.Query(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	printStatus(resp)
	return nil
}

func printStatus(resp *status.Response) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Host:\t%s (clipglance %s)\n", resp.Hostname, resp.Version)
	fmt.Fprintf(w, "Backend:\t%s\n", resp.Backend)
	fmt.Fprintf(w, "Uptime:\t%s\n", time.Since(resp.Started).Round(time.Second))
	fmt.Fprintf(w, "Changes:\t%d accepted, %d debounced\n", resp.Accepted, resp.Suppressed)
	fmt.Fprintln(w)
	_ = w.Flush()

	if len(resp.Notifications) == 0 {
		fmt.Println("No live notifications.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\tKIND\tPHASE\tPINNED\tAGE\tTEXT\n")
	_, _ = fmt.Fprintf(tw, "--\t----\t-----\t------\t---\t----\n")
	for _, n := range resp.Notifications {
		pinned := ""
		if n.Sticky {
			pinned = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(n.ID.String()), n.Kind, n.Phase, pinned,
			fmtAge(n.CreatedAt), oneLine(n.TopText),
		)
	}
	_ = tw.Flush()
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return s
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sonix/internal/shared"
	"github.com/desertthunder/sonix/internal/subsonic"
	"github.com/desertthunder/sonix/internal/ui"
)

// Ping checks that the server answers and accepts the configured credentials.
func (r *Runner) Ping(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.client()
	if err != nil {
		return err
	}

	if err := subsonic.Ping(ctx, svc); err != nil {
		r.writePlain("%s\n", ui.Err("%s: %v", svc.Name(), err))
		return err
	}

	r.writePlain("%s\n", ui.OK("Connected to %s", svc.Name()))
	return nil
}

// ScanStatus shows whether the server is scanning its media library.
func (r *Runner) ScanStatus(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.client()
	if err != nil {
		return err
	}

	status, err := subsonic.GetScanStatus(ctx, svc)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"scanning": status.Scanning, "count": status.Count}, cmd.Bool("pretty"))
	}

	if status.Scanning {
		r.writePlain("Scanning... %d files so far\n", status.Count)
	} else {
		r.writePlain("Idle, %d files in library\n", status.Count)
	}
	return nil
}

// parseRawArgs turns key=value arguments into a query, keeping their order.
func parseRawArgs(args []string) (subsonic.Query, error) {
	var q subsonic.Query
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return q, fmt.Errorf("%w: %q is not key=value", shared.ErrInvalidArgument, arg)
		}
		q = q.Arg(key, value)
	}
	return q, nil
}

// Raw performs any operation and prints the response as the server sent it.
func (r *Runner) Raw(ctx context.Context, cmd *cli.Command) error {
	op := cmd.Args().First()
	if op == "" {
		return fmt.Errorf("%w: operation", shared.ErrMissingArgument)
	}

	q, err := parseRawArgs(cmd.Args().Tail())
	if err != nil {
		return err
	}

	svc, err := r.client()
	if err != nil {
		return err
	}

	resp, err := svc.Raw(ctx, op, q)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Warn("non-2xx response", "op", op, "status", resp.StatusCode)
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, resp.Body, 0644); err != nil {
			return fmt.Errorf("failed to save response: %w", err)
		}
		r.logger.Info("response saved", "file", path, "bytes", len(resp.Body))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	return r.writePlain("%d bytes of %s (use --output to save)\n", len(resp.Body), resp.Headers.Get("Content-Type"))
}

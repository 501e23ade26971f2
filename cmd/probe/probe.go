package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/config"
	"github.com/selendra/did-wallet/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	verboseFlag string = "verbose"
)

var ErrProbeFailed = errors.New("probe failed")

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}

// runProbe calls a management endpoint of the running server and fails on any non 200 status.
func runProbe(cmd *cobra.Command, path string) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool(verboseFlag)

	body, err := probe(cmd.Context(), cfg, path)
	if verbose && body != "" {
		fmt.Fprintln(cmd.OutOrStdout(), body)
	}

	return err
}

func probe(ctx context.Context, cfg config.Server, path string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Management.ProbeTimeout)
	defer cancel()

	url := "http://" + cfg.Echo.ListenAddress + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build probe request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(ErrProbeFailed, "%s: %v", url, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	if err != nil {
		return "", errors.Wrap(err, "failed to read probe response")
	}

	body := strings.TrimSpace(string(data))

	if res.StatusCode != http.StatusOK {
		return body, errors.Wrapf(ErrProbeFailed, "%s: status %d", url, res.StatusCode)
	}

	return body, nil
}

package main

import (
	"net/http"
	"os"
	"time"
	"zemedic-service/internal/app/drivers/logger"
	"zemedic-service/internal/pkg/synth"
	"zemedic-service/pkg/client"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version and Tag are set at build time via -ldflags.
var (
	Version = "develop"
	Tag     = "0.0.1-rc"
)

const defaultAPIURL = "http://localhost:8080/api"

// app is the state shared by every command for one invocation.
type app struct {
	apiURL    string
	statePath string
	verbose   bool
	latency   time.Duration
	timeout   time.Duration

	fs    afero.Fs
	log   *zap.Logger
	store *client.Store
	now   func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs(), now: time.Now}

	rootCmd := &cobra.Command{
		Use:     "zemedic",
		Short:   "ZemedicAI synthetic diagnostics from the command line",
		Long:    "zemedic fabricates demonstration diagnostic results for X-ray, CT and skin images,\neither locally or through the ZemedicAI API.",
		Version: Version + " (" + Tag + ")",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVar(&a.apiURL, "api-url", envOr("ZEMEDIC_API_URL", defaultAPIURL), "API base URL")
	f.StringVar(&a.statePath, "state", os.Getenv("ZEMEDIC_STATE"), "client state file (default: user config dir)")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	f.DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "API request timeout")
	f.DurationVar(&a.latency, "latency", client.DefaultLatency, "simulated analysis latency in demo mode")
	_ = f.MarkHidden("latency")

	rootCmd.AddCommand(
		newSynthesizeCmd(a),
		newHeatmapCmd(a),
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newProfileCmd(a),
		newAnalyzeCmd(a),
		newHistoryCmd(a),
		newShowCmd(a),
		newReportCmd(a),
		newDemoModeCmd(a),
	)
	return rootCmd
}

func (a *app) setup() error {
	a.log = logger.NewCLILogger(a.verbose)
	if a.statePath == "" {
		path, err := client.DefaultStorePath()
		if err != nil {
			return err
		}
		a.statePath = path
	}
	a.store = client.NewStore(a.fs, a.statePath, a.log)
	return nil
}

func (a *app) newClient() *client.Client {
	return client.New(a.apiURL, client.WithHTTPClient(&http.Client{Timeout: a.timeout}))
}

// api returns a client authenticated with the stored session, if any.
func (a *app) api() *client.Client {
	return a.newClient().WithSession(a.store.Session())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func modalityFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "modality", "m", string(synth.XRay), "xray, ct or skin")
}

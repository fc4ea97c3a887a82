package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/d21d3q/goelsys/internal/config"
	"github.com/d21d3q/goelsys/internal/options"
	"github.com/d21d3q/goelsys/pkg/goelsys"
)

const (
	exitOK             = 0
	exitFailure        = 1
	exitUnknownDecoder = 2
)

type cliFlags struct {
	configPath string
	format     string
	logLevel   string
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)
	cmd := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	os.Exit(handleError(cmd.OutOrStdout(), err))
}

func newRootCmd() *cobra.Command {
	var flags cliFlags
	var cfg config.Config

	root := &cobra.Command{
		Use:   "goelsys-decode [decoder] [hex]",
		Short: "Decode Elsys sensor payloads",
		Long: "goelsys-decode decodes binary sensor payloads given as hex.\n" +
			"Without a hex argument payloads are read line by line from stdin.\n" +
			"A lone hex argument is decoded with the configured default decoder.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			cfg = loaded
			logrus.SetLevel(cfg.Level())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := goelsys.CheckDecoder(args[0]); err != nil {
				if len(args) == 1 {
					if _, herr := options.ParseHex(args[0]); herr == nil {
						opts := goelsys.DecodeOptions{Decoder: cfg.Decoder}
						return runDecode(cmd.Context(), cmd.OutOrStdout(), opts, cfg, args[0])
					}
				}
				return err
			}
			opts := goelsys.DecodeOptions{Decoder: args[0]}
			if len(args) == 1 {
				return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, cfg)
			}
			return runDecode(cmd.Context(), cmd.OutOrStdout(), opts, cfg, args[1])
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&flags.format, "format", "", "output format: json, text or telemetry")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available decoders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printDecoders(cmd.OutOrStdout())
		},
	})
	return root
}

func loadConfig(cmd *cobra.Command, flags cliFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = flags.format
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	logrus.WithFields(logrus.Fields{
		"config": flags.configPath,
		"format": cfg.Format,
	}).Debug("configuration loaded")
	return cfg, nil
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer, opts goelsys.DecodeOptions, cfg config.Config) error {
	scanner := bufio.NewScanner(in)
	logrus.Infof("goelsys %s mode. Paste a hex payload and press Enter (Ctrl+D to exit).", opts.Decoder)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := runDecode(ctx, out, opts, cfg, line); err != nil {
			logrus.WithError(err).Error("failed to decode payload")
		}
	}
	return scanner.Err()
}

func runDecode(ctx context.Context, out io.Writer, opts goelsys.DecodeOptions, cfg config.Config, hex string) error {
	result, err := goelsys.DecodeHexWithOptions(ctx, hex, opts)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"decoder": result.Decoder,
		"bytes":   result.ByteCount,
		"fields":  len(result.Fields),
	}).Debug("payload decoded")

	var ts time.Time
	if cfg.Telemetry.IncludeTimestamp {
		ts = time.Now()
	}
	rendered, err := result.Render(cfg.OutputFormat(), ts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return err
	}
	if !strings.HasSuffix(rendered, "\n") {
		_, err = io.WriteString(out, "\n")
	}
	return err
}

func printDecoders(out io.Writer) error {
	data, err := json.Marshal(goelsys.Decoders())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// handleError reports err and maps it to the process exit code. Unknown
// decoder names print the available decoders to out.
func handleError(out io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, goelsys.ErrUnknownDecoder) {
		fmt.Fprintln(out, "ERROR: Decoder is not recognized.\nThe following decoders are available:")
		if perr := printDecoders(out); perr != nil {
			logrus.WithError(perr).Error("failed to list decoders")
		}
		return exitUnknownDecoder
	}
	logrus.WithError(err).Error("goelsys-decode failed")
	return exitFailure
}

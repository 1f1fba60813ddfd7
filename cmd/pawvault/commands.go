package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"pawvault/internal/app"
	"pawvault/internal/appurl"
	"pawvault/internal/config"
	"pawvault/internal/settings"
	"pawvault/internal/writelock"
)

type rootOptions struct {
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           app.Name,
		Short:         "Inspect and edit the wallet settings record",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding config, settings database and logs (default: user config dir)")

	root.AddCommand(
		newShowCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newClearCmd(opts),
		newBaseURLCmd(opts),
		newServersCmd(),
		newStakeCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return root
}

func (o *rootOptions) paths() (app.Paths, error) {
	if o.dataDir != "" {
		return app.PathsIn(o.dataDir)
	}

	return app.ResolvePaths()
}

func withRuntime(cmd *cobra.Command, opts *rootOptions, fn func(rt *app.Runtime) error) error {
	paths, err := opts.paths()
	if err != nil {
		return err
	}

	return runWithPaths(cmd, paths, fn)
}

// withWriter holds the data directory writer lock for the whole command.
func withWriter(cmd *cobra.Command, opts *rootOptions, fn func(rt *app.Runtime) error) error {
	paths, err := opts.paths()
	if err != nil {
		return err
	}

	lock, err := writelock.AcquireOrSkip(paths.RootDir)
	if err != nil {
		return fmt.Errorf("acquire writer lock: %w", err)
	}
	defer func() { _ = lock.Release() }()

	return runWithPaths(cmd, paths, fn)
}

func runWithPaths(cmd *cobra.Command, paths app.Paths, fn func(rt *app.Runtime) error) error {

	rt, err := app.InitializeWithPaths(cmd.Context(), paths, app.Options{})
	if err != nil {
		return fmt.Errorf("initialize runtime: %w", err)
	}
	defer func() { _ = rt.Close() }()

	return fn(rt)
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the reconciled settings record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *app.Runtime) error {
				return writeSettings(cmd.OutOrStdout(), rt.Settings.Snapshot(), format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	return cmd
}

func writeSettings(w io.Writer, s settings.Settings, format string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	switch strings.ToLower(format) {
	case "json":
		_, err = fmt.Fprintln(w, string(raw))

		return err
	case "yaml", "yml":
		var generic map[string]any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("encode settings yaml: %w", err)
		}
		_, err = w.Write(out)

		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "get KEY",
		Short:     "Print one setting; unset and zero values print null",
		Args:      cobra.ExactArgs(1),
		ValidArgs: settings.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *app.Runtime) error {
				raw, err := json.Marshal(rt.Settings.Get(args[0]))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))

				return err
			})
		},
	}
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE [KEY=VALUE...]",
		Short: "Change settings; several pairs are applied together and saved once",
		Long:  "Change settings. The literal value null clears an optional setting.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}

			return withWriter(cmd, opts, func(rt *app.Runtime) error {
				if len(values) == 1 {
					for k, v := range values {
						return rt.Settings.Set(k, v)
					}
				}

				return rt.Settings.SetBulk(values)
			})
		},
	}
}

func parseAssignments(args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		if value == "null" {
			values[key] = nil

			continue
		}
		values[key] = value
	}

	return values, nil
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored settings and reset to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWriter(cmd, opts, func(rt *app.Runtime) error {
				return rt.Settings.Clear()
			})
		},
	}
}

func newBaseURLCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "base-url",
		Short: "Print the origin of the resolved server API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, opts, func(rt *app.Runtime) error {
				u, err := rt.Settings.BaseURL()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), u)

				return err
			})
		},
	}
}

func newServersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List the server catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "VALUE\tNAME\tAPI\tWS\tRANDOM")
			for _, o := range settings.ServerOptions() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", o.Value, o.Name, dash(o.API), dash(o.WS), o.ShouldRandom)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\nknown api endpoints: %s\n", strings.Join(settings.KnownAPIEndpoints(), ", "))

			return err
		},
	}
}

func newStakeCmd(opts *rootOptions) *cobra.Command {
	var framed bool
	cmd := &cobra.Command{
		Use:   "stake ADDRESS",
		Short: "List staking accounts registered for a wallet address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, opts, func(rt *app.Runtime) error {
				accounts, err := rt.Staking.FindStakingAddresses(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, a := range accounts {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), a)
				}
				if framed {
					lookup, err := rt.Staking.LookupURL(args[0])
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), appurl.Framed(lookup))
				}

				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&framed, "framed-url", false, "also print the embeddable lookup url")

	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the application config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective config (defaults plus PAWVAULT_* overrides) to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.paths()
			if err != nil {
				return err
			}
			if _, err := os.Stat(paths.ConfigFile); err == nil && !force {
				return fmt.Errorf("config %s already exists, use --force to overwrite", paths.ConfigFile)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}

			cfg, err := config.Load(paths.ConfigFile)
			if err != nil {
				return err
			}
			if err := config.Save(paths.ConfigFile, cfg); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), paths.ConfigFile)

			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersionWithDate())

			return err
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

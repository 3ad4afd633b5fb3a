package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yuanying/narou2epub/internal/builder"
	"github.com/yuanying/narou2epub/internal/config"
	"github.com/yuanying/narou2epub/internal/narou"
)

var rootCmd = &cobra.Command{
	Use:   "narou2epub [flags] ncode...",
	Short: "Download novels from Shosetsuka ni Narou and package them as EPUB3",
	Long: `narou2epub downloads a novel from ncode.syosetu.com by its ncode
(for example n9669bk) and assembles it into a vertical-writing EPUB3 file
named "[Author] Title.epub" in the output directory.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().Bool("horizontal", false, "Horizontal text with left-to-right page progression")
	rootCmd.Flags().Float64P("wait", "w", 1.0, "Seconds to wait between episode fetches")
	rootCmd.Flags().StringP("output-dir", "o", "", "Directory for finished EPUB files (default: current directory)")
	rootCmd.Flags().String("config", "", "Config file path (default: the user config directory)")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// flags win over the config file
	if cmd.Flags().Changed("horizontal") {
		cfg.Horizontal, _ = cmd.Flags().GetBool("horizontal")
	}
	if cmd.Flags().Changed("wait") {
		cfg.Wait, _ = cmd.Flags().GetFloat64("wait")
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}

	ncodes := make([]string, len(args))
	for i, arg := range args {
		ncode, err := narou.NormalizeNCode(arg)
		if err != nil {
			return fmt.Errorf("%q is not an ncode like n9669bk", arg)
		}
		ncodes[i] = ncode
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := narou.NewClient()
	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	var bar *progressbar.ProgressBar
	p := builder.New(client, builder.Options{
		Horizontal: cfg.Horizontal,
		Wait:       time.Duration(cfg.Wait * float64(time.Second)),
		OutputDir:  cfg.OutputDir,
		Progress: func(done, total int) {
			if bar == nil {
				bar = newProgressBar(total)
			}
			if bar != nil {
				bar.Set(done)
			}
		},
	})

	for _, ncode := range ncodes {
		bar = nil
		path, err := p.Build(ctx, ncode)
		if bar != nil {
			bar.Finish()
			fmt.Fprintln(os.Stderr)
		}
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", ncode, err)
		}
		fmt.Println(path)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newProgressBar returns nil when stderr is not a terminal, so piped and
// logged runs stay quiet.
func newProgressBar(total int) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("episodes"),
		progressbar.OptionShowCount(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

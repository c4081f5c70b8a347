package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"chatgpt-assistant/internal/chat"
	"chatgpt-assistant/internal/cli"
	"chatgpt-assistant/internal/config"
	"chatgpt-assistant/internal/editor"
	"chatgpt-assistant/internal/hook"
	"chatgpt-assistant/internal/hook/handlers"
	"chatgpt-assistant/internal/llm/openai"
	"chatgpt-assistant/internal/logger"

	"github.com/spf13/cobra"
)

type options struct {
	profile        string
	oneshot        bool
	systemMessages []string
	simple         bool
	model          string
	markdown       bool
	confirm        bool
	verbose        bool
	noColor        bool
	configDir      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "chatgpt-assistant",
		Short:         "Chat with an OpenAI model from the terminal",
		Long:          "Starts a conversation seeded from a named profile in ~/.chatgpt-assistant/config.yaml",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.profile, "profile", "p", "default", "Profile to seed the conversation from")
	flags.BoolVarP(&opts.oneshot, "oneshot", "o", false, "Exit after the first reply")
	flags.StringArrayVarP(&opts.systemMessages, "system-messages", "s", nil, "System message to prepend (repeatable)")
	flags.BoolVar(&opts.simple, "simple", false, "Read plain lines instead of the role-toggling editor")
	flags.StringVar(&opts.model, "model", "", "Model to use (overrides config)")
	flags.BoolVar(&opts.markdown, "markdown", false, "Render replies as markdown")
	flags.BoolVar(&opts.confirm, "confirm", false, "Ask before sending each request")

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output (debug mode)")
	persistent.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	persistent.StringVar(&opts.configDir, "config-dir", "", "Configuration directory (default ~/.chatgpt-assistant)")

	rootCmd.AddCommand(newProfilesCmd(opts))

	return rootCmd
}

func newLogger(opts *options) *logger.Logger {
	level := logger.LevelInfo
	if opts.verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(os.Stderr, level)
	if !cli.ColorsEnabled(os.Stderr, opts.noColor) {
		log.SetColorMode(false)
	}
	return log
}

func resolveConfigDir(opts *options) (string, error) {
	if opts.configDir != "" {
		return opts.configDir, nil
	}
	return config.Dir()
}

func runChat(cmd *cobra.Command, opts *options) error {
	log := newLogger(opts)
	out := cmd.OutOrStdout()

	dir, err := resolveConfigDir(opts)
	if err != nil {
		return err
	}
	log.Debug("Using config directory %s", dir)

	// Piped input is buffered once and shared by every reader below
	in := cmd.InOrStdin()
	tty, isFile := in.(*os.File)
	isTTY := isFile && cli.IsTerminal(tty)
	if !isTTY {
		in = bufio.NewReader(in)
	}

	creds, err := config.ProvisionCredentials(dir, cli.NewTerminalPrompterWithIO(in, out))
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate(dir)
	if err != nil {
		return err
	}

	color := cli.ColorsEnabled(out, opts.noColor)
	printer := cli.NewPrinter(out, cli.NewPalette(out, color))

	profile, err := cfg.Profile(opts.profile)
	if errors.Is(err, config.ErrProfileNotFound) {
		printer.Notice("profile not found")
		return nil
	}
	if err != nil {
		return err
	}

	if opts.markdown {
		renderer, err := cli.NewMarkdownRenderer(color, cli.TerminalWidth(out))
		if err != nil {
			log.Error("Markdown rendering disabled: %v", err)
		} else {
			printer.SetMarkdown(renderer)
		}
	}

	model := opts.model
	if model == "" {
		model = cfg.Model
	}
	client := openai.NewClient(creds.APIKey, model, openai.Options{
		BaseURL: cfg.APIBaseURL,
		OrgID:   creds.OrgID,
	})
	log.Debug("Created completion client (model: %s)", client.Model())

	interactive := isTTY && !opts.simple
	var keys *editor.KeyReader
	confirmIn := in
	if interactive {
		keys = editor.NewKeyReader(tty)
		confirmIn = keys.Input()
	}

	hooks := hook.NewManager()
	hooks.Register(handlers.NewRequestLogger(log))
	hooks.Register(handlers.NewUsageReporter(log))
	if opts.confirm {
		hooks.Register(handlers.NewSendConfirmHandlerWithIO(confirmIn, out))
	}

	session := chat.NewSession(client, printer, chat.Seed(profile.Messages, opts.systemMessages), chat.Options{
		Profile: opts.profile,
		Oneshot: opts.oneshot,
		Hooks:   hooks,
		Logger:  log,
	})

	ctx := context.Background()
	if interactive {
		printer.Banner(cli.BannerToggleHint, opts.oneshot)
		ed := editor.New(keys, out, editor.NewTTY(tty), printer.Palette())
		return session.RunInteractive(ctx, ed)
	}

	printer.Banner(cli.BannerQuitHint, opts.oneshot)
	if isTTY {
		input := editor.NewLineInput()
		defer input.Close()
		return session.RunSimple(ctx, input)
	}
	return session.RunSimple(ctx, editor.NewPlainLineReader(in, out))
}

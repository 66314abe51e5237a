package cli

import (
	"bufio"
	"io"

	"github.com/dmitrijs2005/lockbox/internal/config"
	"github.com/dmitrijs2005/lockbox/internal/logging"
	"github.com/dmitrijs2005/lockbox/internal/vault"
	"github.com/spf13/cobra"
)

// App carries what every command needs once the root command has run its
// setup.
type App struct {
	cfg   *config.Config
	log   logging.Logger
	vault *vault.Manager

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

type rootFlags struct {
	configFile string
	storePath  string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the command tree reading from in and writing to out
// and errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	app := &App{in: bufio.NewReader(in), out: out, errOut: errOut}
	var flags rootFlags

	root := &cobra.Command{
		Use:   "lockbox",
		Short: "lockbox - a local, encrypted password and TOTP store",
		Long: `lockbox keeps credentials in a single encrypted file.

Values can be stored in plain text, encrypted, or as TOTP secrets.
The file is only ever decrypted in memory.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "JSON config file")
	pf.StringVarP(&flags.storePath, "store", "s", "", "store file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		app.newCommand(),
		app.showCommand(),
		app.addEntryCommand(),
		app.setFieldCommand(),
		app.removeCommand(),
		app.totpCommand(),
		app.passwdCommand(),
		app.updateCommand(),
		app.emitPlaintextCommand(),
		app.fromPlaintextCommand(),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}

	pf := cmd.Flags()
	if pf.Changed("store") {
		cfg.StorePath = flags.storePath
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if pf.Changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, a.errOut)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.vault = vault.NewManager(log)
	return nil
}

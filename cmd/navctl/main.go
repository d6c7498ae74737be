// Command navctl validates, prints and previews menu definition files and
// mints admin tokens for the navigation API.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/pkg/logger"
)

// CLI is the top-level command structure for navctl.
type CLI struct {
	Config string `short:"c" type:"existingdir" env:"EXAMPORTAL_CONFIG_DIR" help:"Directory containing config.yaml."`
	Debug  bool   `env:"NAVCTL_DEBUG" help:"Enable debug logging on stderr."`

	Validate ValidateCmd `cmd:"" help:"Check menu definition files for errors and warnings."`
	Tree     TreeCmd     `cmd:"" help:"Print a menu as a tree."`
	Browse   BrowseCmd   `cmd:"" help:"Preview a menu as an interactive sidebar."`
	Icons    IconsCmd    `cmd:"" help:"List icon names or suggest one for a misspelling."`
	Token    TokenCmd    `cmd:"" help:"Issue an access token for the navigation API."`
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("navctl"),
		kong.Description("Operator tooling for examportal navigation menus."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			os.Exit(code)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navctl: %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level := "warn"
	if cli.Debug {
		level = "debug"
	}
	if err := logger.InitWithOptions(logger.Options{Level: level, Encoding: "console"}); err != nil {
		fmt.Fprintf(os.Stderr, "navctl: init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := loadConfig(cli.Config)
	ctx.FatalIfErrorf(err)

	ctx.Bind(cfg)
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func loadConfig(dir string) (*app.Config, error) {
	var paths []string
	if dir != "" {
		paths = append(paths, dir)
	}
	cfg, err := app.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/tui"
	"github.com/kidzstudio/examportal/pkg/logger"
	"github.com/kidzstudio/examportal/web"
)

const embeddedSource = "embedded:" + web.SeedFile

// ValidateCmd checks definition files without stopping at the first problem.
type ValidateCmd struct {
	Files  []string `arg:"" optional:"" type:"existingfile" help:"Definition files. Defaults to the embedded seed."`
	Strict bool     `help:"Treat warnings as errors."`
}

func (cmd *ValidateCmd) Run(out io.Writer, cfg *app.Config) error {
	icons := iconTable(cfg)
	theme := tui.NewTheme(lipgloss.NewRenderer(out))

	sources := cmd.Files
	if len(sources) == 0 {
		sources = []string{""}
	}

	failed := 0
	for _, source := range sources {
		file, name, err := loadDefinitions(source)
		if err != nil {
			fmt.Fprintln(out, theme.Error.Render(err.Error()))
			failed++
			continue
		}

		report := menufile.Validate(file, icons)
		for _, issue := range report.Issues {
			style := theme.Warning
			if issue.Severity == menufile.SeverityError {
				style = theme.Error
			}
			fmt.Fprintf(out, "%s: %s\n", name, style.Render(issue.String()))
		}
		fmt.Fprintf(out, "%s: %d menus, %d issues\n", name, len(file.Menus), len(report.Issues))

		if report.HasErrors() || (cmd.Strict && len(report.Warnings()) > 0) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d definition files failed validation", failed, len(sources))
	}
	return nil
}

// TreeCmd prints a built menu.
type TreeCmd struct {
	Menu    string `arg:"" help:"Menu slug."`
	File    string `short:"f" type:"existingfile" help:"Definition file. Defaults to the embedded seed."`
	Path    string `short:"p" help:"Current path; the matching link is highlighted."`
	Orphans string `help:"Orphan policy (drop or promote). Defaults to navigation.orphan_policy."`
	URLs    bool   `name:"urls" help:"Show link URLs."`
	All     bool   `help:"Include hidden and inactive items."`
}

func (cmd *TreeCmd) Run(out io.Writer, cfg *app.Config) error {
	result, err := buildMenu(cfg, cmd.File, cmd.Menu, cmd.Orphans, !cmd.All)
	if err != nil {
		return err
	}

	theme := tui.NewTheme(lipgloss.NewRenderer(out))
	fmt.Fprint(out, tui.RenderTree(result.Roots, tui.TreeOptions{
		Theme:       theme,
		Icons:       iconTable(cfg),
		CurrentPath: cmd.Path,
		ShowURLs:    cmd.URLs,
	}))
	fmt.Fprint(out, tui.RenderWarnings(result.Warnings, theme))
	return nil
}

// BrowseCmd runs the interactive sidebar preview.
type BrowseCmd struct {
	Menu string `arg:"" help:"Menu slug."`
	File string `short:"f" type:"existingfile" help:"Definition file. Defaults to the embedded seed."`
	Path string `short:"p" help:"Initial current path."`
}

func (cmd *BrowseCmd) Run(out io.Writer, cfg *app.Config) error {
	result, err := buildMenu(cfg, cmd.File, cmd.Menu, "", true)
	if err != nil {
		return err
	}

	model := tui.NewBrowse(cmd.Menu, result.Roots, cmd.Path, iconTable(cfg), tui.NewTheme(nil))
	if _, err := tea.NewProgram(model, tea.WithOutput(out)).Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// IconsCmd lists icon names, or suggests the closest one to a misspelling.
type IconsCmd struct {
	Suggest string `help:"Suggest the closest known icon name."`
}

func (cmd *IconsCmd) Run(out io.Writer, cfg *app.Config) error {
	icons := iconTable(cfg)
	names := icons.Names()

	if cmd.Suggest != "" {
		if _, ok := icons.Resolve(cmd.Suggest); ok {
			fmt.Fprintf(out, "%s is a known icon\n", cmd.Suggest)
			return nil
		}
		suggestion := menufile.SuggestIcon(cmd.Suggest, names)
		if suggestion == "" {
			return fmt.Errorf("no icon resembles %q", cmd.Suggest)
		}
		fmt.Fprintln(out, suggestion)
		return nil
	}

	for _, name := range names {
		glyph, _ := icons.Resolve(name)
		fmt.Fprintf(out, "%s %s\n", glyph.Rune, name)
	}
	fmt.Fprintf(out, "fallback: %s %s\n", icons.Fallback().Rune, icons.Fallback().Name)
	return nil
}

// TokenCmd signs an access token with the configured JWT secret.
type TokenCmd struct {
	Subject string        `arg:"" help:"Token subject."`
	Role    string        `default:"admin" enum:"admin,viewer" help:"Role claim (admin or viewer)."`
	Name    string        `help:"Display name claim."`
	TTL     time.Duration `name:"ttl" help:"Override the configured token lifetime."`
}

func (cmd *TokenCmd) Run(out io.Writer, cfg *app.Config) error {
	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		return errors.New("auth.jwt.secret is not configured (set EXAMPORTAL_AUTH_JWT_SECRET)")
	}
	role, err := auth.ParseRole(cmd.Role)
	if err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return err
	}
	token, err := jwtService.Issue(auth.TokenInput{
		Subject: cmd.Subject,
		Name:    cmd.Name,
		Role:    role,
		TTL:     cmd.TTL,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func loadDefinitions(path string) (*menufile.File, string, error) {
	if path == "" {
		seed, err := web.Seed()
		if err != nil {
			return nil, embeddedSource, err
		}
		file, err := menufile.LoadFS(seed, web.SeedFile)
		return file, embeddedSource, err
	}
	file, err := menufile.Load(path)
	return file, path, err
}

func buildMenu(cfg *app.Config, path, slug, orphans string, visibleOnly bool) (navigation.Result, error) {
	file, name, err := loadDefinitions(path)
	if err != nil {
		return navigation.Result{}, err
	}
	menu, ok := file.Menu(slug)
	if !ok {
		return navigation.Result{}, fmt.Errorf("%s: no menu %q", name, slug)
	}
	items, err := menu.NavigationItems()
	if err != nil {
		return navigation.Result{}, fmt.Errorf("%s: %w", name, err)
	}
	if visibleOnly {
		items = navigation.Filter(items)
	}

	if orphans == "" {
		orphans = cfg.Navigation.OrphanPolicy
	}
	policy, err := navigation.ParseOrphanPolicy(orphans)
	if err != nil {
		return navigation.Result{}, err
	}

	result := navigation.Build(items, navigation.WithOrphanPolicy(policy))
	logger.WithModule("navctl").Debug("menu built",
		zap.String("source", name),
		zap.String("menu", slug),
		zap.Int("nodes", navigation.Count(result.Roots)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func iconTable(cfg *app.Config) *navigation.IconTable {
	table, rejected := cfg.Navigation.IconTable()
	if len(rejected) > 0 {
		logger.WithModule("navctl").Warn("ignoring unknown icon aliases", zap.Strings("aliases", rejected))
	}
	return table
}

package tui

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesMarkdown(t *testing.T) {
	empty := ""
	md := RoutesMarkdown([]routes.Entry{
		{Name: domain.RouteMainHome, Chrome: routes.Chrome{HideHeader: true}},
		{Name: domain.RouteMainScan, Chrome: routes.Chrome{Profile: routes.ProfileSecondaryBackground, HeaderRightIcon: "qr", Presentation: routes.PresentationFormSheet}},
		{Name: domain.RouteSettingsHome, Chrome: routes.Chrome{Profile: routes.ProfileBackground, Title: &empty}},
	})

	assert.Contains(t, md, "| `Main.Home` | hidden |  | card |  |")
	assert.Contains(t, md, "| `Main.Scan` | secondary-background |  | formSheet | qr |")
	assert.Contains(t, md, "| `Settings.Home` | background | \"\" | card |  |")
}

func TestStackMarkdown(t *testing.T) {
	stack := domain.NewStack("s1", domain.RouteMainHome)
	stack.Routes = append(stack.Routes, domain.Route{Name: domain.RouteSettingsHome})

	md := StackMarkdown(stack)
	assert.Contains(t, md, "1. `Main.Home`\n")
	assert.Contains(t, md, "2. `Settings.Home` **(focused)**")
}

func TestNewRenderer_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
	render, err := NewRenderer(f)
	require.NoError(t, err)

	out, err := render("# hi")
	require.NoError(t, err)
	assert.Equal(t, "# hi", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "__/ _` |")
}

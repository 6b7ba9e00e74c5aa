package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/julianstephens/tminus/internal/app"
	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/logger"
)

// Context is handed to every command's Run. The app is opened on first use
// so commands that never touch the store (init, debug path) never lock it.
// Commands that only read go through View and never lock at all.
type Context struct {
	Config     config.Config
	ConfigPath string
	Out        io.Writer
	In         io.Reader

	app    *app.App
	view   *app.App
	reader *bufio.Reader
}

func NewContext(cfg config.Config, configPath string) *Context {
	return &Context{
		Config:     cfg,
		ConfigPath: configPath,
		Out:        os.Stdout,
		In:         os.Stdin,
	}
}

func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(c.Config)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// View returns the locked app if one is already open, otherwise an unlocked
// read-only one.
func (c *Context) View() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if c.view != nil {
		return c.view, nil
	}
	a, err := app.NewReadOnly(c.Config)
	if err != nil {
		return nil, err
	}
	c.view = a
	return a, nil
}

func (c *Context) Close() error {
	var err error
	if c.view != nil {
		err = c.view.Close()
		c.view = nil
	}
	if c.app != nil {
		if appErr := c.app.Close(); appErr != nil {
			err = appErr
		}
		c.app = nil
	}
	return err
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// prompt prints question and returns the trimmed answer line.
func (c *Context) prompt(question string) (string, error) {
	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	c.printf("%s", question)
	response, err := c.reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func (c *Context) confirm(question string) (bool, error) {
	response, err := c.prompt(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	response = strings.ToLower(response)
	return response == "y" || response == "yes", nil
}

func (c *Context) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(c.Out)
	t.SetStyle(table.StyleDouble)
	t.Style().Options.SeparateRows = false
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = text.FgGreen.Sprint(col)
	}
	return row
}

// renderNotes prints markdown notes, falling back to the raw text when
// glamour cannot render them.
func (c *Context) renderNotes(notes string) {
	if strings.TrimSpace(notes) == "" {
		c.println("(no notes)")
		return
	}
	rendered, err := glamour.Render(notes, "dark")
	if err != nil {
		logger.Warn("failed to render notes", "error", err)
		c.println(notes)
		return
	}
	c.printf("%s", rendered)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// readText resolves a notes argument: "-" reads everything from the input.
func (c *Context) readText(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(c.In)
	if err != nil {
		return "", fmt.Errorf("failed to read notes: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

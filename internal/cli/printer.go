package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/pterm/pterm"

	"github.com/GriffinCanCode/AIOP/backend/internal/providers/extensions"
	"github.com/GriffinCanCode/AIOP/backend/internal/providers/filesystem"
)

// Printer renders command output with pterm
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

func (p *Printer) Info(msg string, fields map[string]any) {
	p.printWith(pterm.Info, msg, fields)
}

func (p *Printer) Success(msg string, fields map[string]any) {
	p.printWith(pterm.Success, msg, fields)
}

func (p *Printer) Warn(msg string, fields map[string]any) {
	p.printWith(pterm.Warning, msg, fields)
}

func (p *Printer) Raw(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, text)
}

func (p *Printer) printWith(printer pterm.PrefixPrinter, msg string, fields map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	printer.WithWriter(p.out).Println(msg)
	if len(fields) == 0 {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(p.out, "  %s: %v\n", k, fields[k])
	}
}

// JSON prints v as indented JSON
func (p *Printer) JSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	p.Raw(string(data) + "\n")
	return nil
}

// Entries prints a directory listing as a table
func (p *Printer) Entries(entries []filesystem.FileEntry) error {
	tableData := [][]string{
		{"Name", "Kind", "Path"},
	}
	for _, e := range entries {
		tableData = append(tableData, []string{e.Name, string(e.Kind), e.Path})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(p.out).WithData(tableData).Render()
}

// Extensions prints installed extensions as a table
func (p *Printer) Extensions(root string, exts []extensions.Extension) error {
	if len(exts) == 0 {
		p.Info("No extensions installed", map[string]any{"root": root})
		return nil
	}

	tableData := [][]string{
		{"Folder", "Name", "Version", "Entry"},
	}
	for _, ext := range exts {
		name, version := "", ""
		if ext.Manifest != nil {
			name, version = ext.Manifest.Name, ext.Manifest.Version
		}
		tableData = append(tableData, []string{ext.Folder, name, version, strconv.FormatBool(ext.HasEntry)})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(p.out).WithData(tableData).Render()
}

// Report prints copy totals and any skipped entries
func (p *Printer) Report(report *filesystem.CopyReport) error {
	if report == nil {
		return nil
	}
	p.Info("Copied "+report.Destination, map[string]any{
		"files":       report.Files,
		"directories": report.Directories,
		"bytes":       humanizeSize(report.Bytes),
		"ignored":     report.Ignored,
	})
	if !report.Partial() {
		return nil
	}

	p.Warn(fmt.Sprintf("%d entries were skipped", len(report.Skipped)), nil)
	tableData := [][]string{
		{"Path", "Reason"},
	}
	for _, s := range report.Skipped {
		tableData = append(tableData, []string{s.Path, s.Reason})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(p.out).WithData(tableData).Render()
}

// Spin shows a spinner on an interactive stdout and returns its stop func
func (p *Printer) Spin(text string) func(ok bool) {
	if p.out != os.Stdout {
		return func(bool) {}
	}
	spinner, err := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return func(bool) {}
	}
	return func(ok bool) {
		if ok {
			spinner.Success()
			return
		}
		spinner.Fail()
	}
}

func humanizeSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

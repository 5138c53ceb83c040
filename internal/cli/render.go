package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/store"
)

const (
	unboundLabel  = "(unbound)"
	columnSpacing = 2
)

// shortcutLabel joins the display strings of an action's keybinds
func shortcutLabel(t *keybinds.Table, action string) (string, error) {
	displays, err := t.DisplayStringsFor(action)
	if err != nil {
		return "", err
	}
	labels := make([]string, 0, len(displays))
	for _, d := range displays {
		if d == "" {
			d = unboundLabel
		}
		labels = append(labels, d)
	}
	if len(labels) == 0 {
		return unboundLabel, nil
	}
	return strings.Join(labels, " | "), nil
}

func dispatchLabel(t *keybinds.Table, action string) (string, error) {
	name, err := t.DispatchNameFor(action)
	if err != nil {
		return "", err
	}
	if data, ok := t.DataFor(action); ok {
		return name + " " + data, nil
	}
	return name, nil
}

// RenderList writes one row per action: key, display name, shortcuts
// on the table's platform and the dispatched action
func RenderList(w io.Writer, t *keybinds.Table, actions []string) error {
	headers := []string{"ACTION", "NAME", "SHORTCUTS", "DISPATCH"}
	rows := make([][]string, 0, len(actions))
	for _, action := range actions {
		shortcuts, err := shortcutLabel(t, action)
		if err != nil {
			return err
		}
		dispatch, err := dispatchLabel(t, action)
		if err != nil {
			return err
		}
		rows = append(rows, []string{action, t.DisplayNameFor(action), shortcuts, dispatch})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("Keybinds (%s)", t.Platform())))
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = pad(styleHeader.Render(h), widths[i]+columnSpacing)
	}
	fmt.Fprintln(w, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))

	for _, row := range rows {
		cells[0] = pad(styleKey.Render(row[0]), widths[0]+columnSpacing)
		cells[1] = pad(row[1], widths[1]+columnSpacing)
		cells[2] = pad(row[2], widths[2]+columnSpacing)
		cells[3] = pad(styleSubtle.Render(row[3]), widths[3])
		fmt.Fprintln(w, strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " "))
	}
	return nil
}

// RenderAction writes the details of one action, one line per slot
func RenderAction(w io.Writer, t *keybinds.Table, action string) error {
	kbs, err := t.KeybindsFor(action)
	if err != nil {
		return err
	}
	dispatch, err := dispatchLabel(t, action)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, styleTitle.Render(t.DisplayNameFor(action))+" "+styleSubtle.Render("("+action+")"))
	fmt.Fprintf(w, "Dispatch: %s\n", dispatch)

	codec := t.Codec()
	for i, kb := range kbs {
		display := codec.DisplayString(kb, t.Platform())
		if kb.IsUnbound() {
			display = styleWarning.Render(unboundLabel)
		}
		fmt.Fprintf(w, "  [%d] %s  %s\n", i, pad(display, 20), styleSubtle.Render(codec.Serialize(kb)))
	}
	if len(kbs) < keybinds.MaxKeybinds {
		fmt.Fprintln(w, styleSubtle.Render(fmt.Sprintf("  %d free slot(s)", keybinds.MaxKeybinds-len(kbs))))
	}
	return nil
}

// RenderKeybind describes a parsed trigger on every platform
func RenderKeybind(w io.Writer, codec *keybinds.Codec, kb keybinds.Keybind, platforms []string) {
	fmt.Fprintf(w, "%s %s\n", styleKey.Render("Trigger:"), codec.Serialize(kb))
	for _, p := range platforms {
		fmt.Fprintf(w, "  %s %s  %s\n",
			pad(p, 8),
			pad(codec.DisplayString(kb, p), 24),
			styleSubtle.Render(codec.Chord(kb, p)),
		)
	}
}

// RenderValidation writes a validation result with colored sections
func RenderValidation(w io.Writer, result *keybinds.ValidationResult) {
	if !result.HasErrors() && !result.HasWarnings() {
		fmt.Fprintln(w, styleSuccess.Render("No issues found"))
		return
	}
	if result.HasErrors() {
		fmt.Fprintln(w, styleError.Render(fmt.Sprintf("Errors (%d):", len(result.Errors))))
		for _, issue := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", issue.Error())
		}
	}
	if result.HasWarnings() {
		fmt.Fprintln(w, styleWarning.Render(fmt.Sprintf("Warnings (%d):", len(result.Warnings))))
		for _, issue := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", issue.Error())
		}
	}
}

// RenderHistory lists stored snapshots, newest first
func RenderHistory(w io.Writer, snapshots []store.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("No snapshots"))
		return
	}
	for _, s := range snapshots {
		kind := styleSuccess.Render(pad(s.Kind, 8))
		if s.Kind == store.KindRejected {
			kind = styleError.Render(pad(s.Kind, 8))
		}
		fmt.Fprintf(w, "#%-5d %s  %s  %s  %d bytes\n",
			s.ID,
			s.SavedAt.Local().Format("2006-01-02 15:04:05"),
			kind,
			pad(s.AppVersion, 8),
			s.Size,
		)
	}
}

// RenderBookmarks lists saved query expressions
func RenderBookmarks(w io.Writer, bookmarks []store.Bookmark) {
	if len(bookmarks) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("No bookmarks"))
		return
	}
	for _, b := range bookmarks {
		fmt.Fprintf(w, "#%-5d %s  %s\n", b.ID, styleSubtle.Render(b.CreatedAt.Local().Format("2006-01-02")), b.Expression)
	}
}

// RenderFiles lists the opened files in order
func RenderFiles(w io.Writer, files []string) {
	if len(files) == 0 {
		fmt.Fprintln(w, styleSubtle.Render("No opened files"))
		return
	}
	for i, f := range files {
		fmt.Fprintf(w, "%d. %s\n", i+1, f)
	}
}

// RenderFlags lists general flags sorted by name
func RenderFlags(w io.Writer, flags map[string]bool) {
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value := styleError.Render("false")
		if flags[name] {
			value = styleSuccess.Render("true")
		}
		fmt.Fprintf(w, "%s = %s\n", name, value)
	}
}

// Package fabrics provides the fabric list view component for the TUI.
package fabrics

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/messages"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/styles"
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
)

// View is the fabric list view.
type View struct {
	styles   *styles.Styles
	registry driving.FabricRegistry

	fabrics      []domain.Fabric
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	notice       string
	scrollOffset int
}

// NewView creates a new fabric list view.
func NewView(s *styles.Styles, registry driving.FabricRegistry) *View {
	return &View{
		styles:   s,
		registry: registry,
		fabrics:  []domain.Fabric{},
	}
}

// Init initialises the view and kicks off the first load.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.reload(false)
}

// reload returns a command that refreshes the fabric set. Silent reloads
// come from the poll loop and must not flip the loading indicator.
func (v *View) reload(silent bool) tea.Cmd {
	return func() tea.Msg {
		if v.registry == nil {
			return messages.FabricsReloaded{Err: fmt.Errorf("registry not available")}
		}

		var err error
		if silent {
			err = v.registry.ReloadSilent(context.Background())
		} else {
			err = v.registry.Reload(context.Background())
		}
		return messages.FabricsReloaded{Err: err}
	}
}

// Update handles messages for the fabric list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.FabricsReloaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.err = nil
			v.fabrics = v.registry.Fabrics()
			if v.selected >= len(v.fabrics) && len(v.fabrics) > 0 {
				v.selected = len(v.fabrics) - 1
			}
		}
		return v, nil

	case messages.PollTick:
		return v, v.reload(true)

	case messages.BuildTriggered:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Build started for %s", msg.FabricID)
		if msg.Ack != nil && msg.Ack.EstimatedTime != "" {
			v.notice += " (est. " + msg.Ack.EstimatedTime + ")"
		}
		return v, v.reload(false)

	case messages.FabricDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Fabric %s deleted", msg.ID)
		return v, v.reload(false)

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in the list.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.fabrics)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if fabric := v.SelectedFabric(); fabric != nil {
			if err := v.registry.Select(fabric.ID); err != nil {
				v.err = err
				return v, nil
			}
			selected := *fabric
			return v, func() tea.Msg {
				return messages.FabricSelected{Fabric: selected}
			}
		}
	case "b":
		if fabric := v.SelectedFabric(); fabric != nil {
			return v, v.triggerBuild(fabric.ID)
		}
	case "d":
		if fabric := v.SelectedFabric(); fabric != nil {
			return v, v.deleteFabric(fabric.ID)
		}
	case "r":
		v.loading = true
		v.notice = ""
		return v, v.reload(false)
	}

	return v, nil
}

// triggerBuild returns a command that starts a build.
func (v *View) triggerBuild(fabricID string) tea.Cmd {
	return func() tea.Msg {
		ack, err := v.registry.TriggerBuild(context.Background(), fabricID)
		return messages.BuildTriggered{FabricID: fabricID, Ack: ack, Err: err}
	}
}

// deleteFabric returns a command that deletes a fabric.
func (v *View) deleteFabric(fabricID string) tea.Cmd {
	return func() tea.Msg {
		err := v.registry.Delete(context.Background(), fabricID)
		return messages.FabricDeleted{ID: fabricID, Err: err}
	}
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of fabrics that fit on screen.
// Each fabric renders as two lines plus a blank.
func (v *View) visibleItemCount() int {
	reserved := 8
	available := (v.height - reserved) / 3
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the fabric list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Knowledge Fabrics (%d)", len(v.fabrics))))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading fabrics..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.fabrics) == 0 {
		b.WriteString(v.styles.Muted.Render("No fabrics yet. Create one with 'fabricctl fabric create'."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.fabrics) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderFabric(i, &v.fabrics[i]))
		b.WriteString("\n")
	}

	if len(v.fabrics) > visibleItems {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.fabrics)),
			len(v.fabrics))))
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderFabric renders one fabric entry: name plus status badge on the
// first line, counters on the second.
func (v *View) renderFabric(index int, fabric *domain.Fabric) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	badge := v.styles.StatusStyle(fabric.Status).Render("[" + fabric.Status.String() + "]")

	name := fabric.Name
	if name == "" {
		name = fabric.ID
	}

	var first string
	if index == v.selected {
		first = v.styles.Selected.Render(indicator+name) + " " + badge
	} else {
		first = v.styles.Normal.Render(indicator+name) + " " + badge
	}

	second := v.styles.Muted.Render("    " + v.describeFabric(fabric))
	return first + "\n" + second + "\n"
}

// describeFabric summarises a fabric's source and progress.
func (v *View) describeFabric(fabric *domain.Fabric) string {
	parts := make([]string, 0, 4)
	if src := fabric.Sources.Primary(); src != "" {
		parts = append(parts, "source: "+src)
	}
	if fabric.DocumentsCount != nil {
		parts = append(parts, fmt.Sprintf("%d docs", *fabric.DocumentsCount))
	}
	if fabric.ChunksCount != nil {
		parts = append(parts, fmt.Sprintf("%d chunks", *fabric.ChunksCount))
	}
	if fabric.GraphNodes != nil && fabric.GraphEdges != nil {
		parts = append(parts, fmt.Sprintf("graph %dn/%de", *fabric.GraphNodes, *fabric.GraphEdges))
	}
	if fabric.Status == domain.StatusError && fabric.Error != "" {
		parts = append(parts, fabric.Error)
	}
	if len(parts) == 0 {
		return "no source configured"
	}
	return strings.Join(parts, "  ")
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] chat  [b] build  [d] delete  [r] refresh  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Fabrics returns the fabrics currently displayed.
func (v *View) Fabrics() []domain.Fabric {
	return v.fabrics
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedFabric returns the currently selected fabric.
func (v *View) SelectedFabric() *domain.Fabric {
	if v.selected < len(v.fabrics) {
		return &v.fabrics[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

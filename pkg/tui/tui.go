package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/render"
)

const (
	focusTags = iota
	focusNotes
	focusEditor
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modeTitle
	modeAddTag
	modeRemoveTag
	modeContent
	modeDeleting
)

// DefaultDebounce is the idle period before content edits are saved.
const DefaultDebounce = time.Second

// Options configures the editor.
type Options struct {
	// Debounce delays content saves until typing pauses.
	Debounce time.Duration
	// ExportDir receives downloaded notes.
	ExportDir string
	// StorageInfo describes where state is persisted, for the info panel.
	StorageInfo string
	// Watching reports whether external changes are reloaded.
	Watching bool
}

type model struct {
	store       *notes.Store
	opts        Options
	changes     chan struct{}
	unsubscribe func()

	state   notes.State
	visible []notes.Note // filtered and sorted view of state.Notes
	tags    []string
	styles  styles

	columnFocus int // 0 = tags, 1 = notes, 2 = editor
	width       int
	height      int
	err         error
	status      string
	quitting    bool

	tagCursor  int // 0 = "All", i = tags[i-1]
	noteCursor int

	mode             inputMode
	input            textinput.Model // search, title and tag entry
	searchBefore     string
	editor           textarea.Model
	editingID        string
	editSeq          int
	dirty            bool
	deleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(store *notes.Store, opts Options) model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	in := textinput.New()
	in.CharLimit = 256

	ed := textarea.New()
	ed.Placeholder = "Start writing..."
	ed.ShowLineNumbers = false
	ed.CharLimit = 0

	changes := make(chan struct{}, 1)
	unsubscribe := store.Subscribe(func(notes.State) {
		// Coalesce: the model re-reads the store on every signal.
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	m := model{
		store:       store,
		opts:        opts,
		changes:     changes,
		unsubscribe: unsubscribe,
		columnFocus: focusNotes,
		input:       in,
		editor:      ed,
	}
	m.refresh()
	return m
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForChange(m.changes),
		marqueeTick(),
	)
}

// refresh re-reads the store and keeps cursors on the selected tag and the
// active note.
func (m *model) refresh() {
	m.state = m.store.Snapshot()
	m.visible = m.store.FilteredNotes()
	m.tags = m.store.Tags()
	m.styles = newStyles(m.state.IsDarkMode)

	m.tagCursor = 0
	for i, t := range m.tags {
		if t == m.state.SelectedTag {
			m.tagCursor = i + 1
		}
	}

	active := m.state.ActiveID()
	for i, n := range m.visible {
		if n.ID == active {
			m.noteCursor = i
		}
	}
	if m.noteCursor >= len(m.visible) {
		m.noteCursor = len(m.visible) - 1
	}
	if m.noteCursor < 0 {
		m.noteCursor = 0
	}

	if m.mode == modeContent {
		if _, ok := m.store.Note(m.editingID); !ok {
			// The note vanished underneath the editor.
			m.stopEditing()
			m.status = "Note was deleted elsewhere"
		}
	}
}

// flush saves pending content edits immediately.
func (m *model) flush() {
	if !m.dirty || m.editingID == "" {
		return
	}
	content := m.editor.Value()
	m.store.UpdateNote(m.editingID, notes.NoteUpdate{Content: &content})
	m.dirty = false
}

// resizeEditor fits the text area into the editor column.
func (m *model) resizeEditor() {
	_, _, rightWidth := m.dynamicColumnWidth()
	m.editor.SetWidth(max(rightWidth-bordersAndPadding, 10))
	m.editor.SetHeight(max(m.height-15, 3))
}

func (m *model) stopEditing() {
	m.editor.Blur()
	m.mode = modeBrowse
	m.editingID = ""
	m.dirty = false
}

func (m *model) startInput(mode inputMode, placeholder, value string) tea.Cmd {
	m.mode = mode
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) selectTag(cursor int) {
	m.tagCursor = cursor
	tag := ""
	if cursor > 0 {
		tag = m.tags[cursor-1]
	}
	m.store.SetSelectedTag(tag)
	m.refresh()
}

func (m *model) selectNote(cursor int) {
	m.noteCursor = cursor
	m.store.SetActiveNote(m.visible[cursor].ID)
	m.refresh()
}

// Processes events like window resize, store changes and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Save the new window size in the model for responsive layout
		m.width = msg.Width
		m.height = msg.Height
		m.resizeEditor()
		return m, nil

	case error:
		m.err = msg
		m.status = ""
		return m, nil

	case statusMsg:
		m.status = string(msg)
		m.err = nil
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case saveContentMsg:
		if msg.seq == m.editSeq && msg.id == m.editingID {
			m.flush()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

		switch m.mode {
		case modeSearch, modeTitle, modeAddTag, modeRemoveTag:
			return m.updateInput(msg)
		case modeContent:
			return m.updateContent(msg)
		case modeDeleting:
			return m.updateDeleting(msg)
		}
		return m.updateBrowse(msg)

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, marqueeTick()
	}

	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.flush()
	m.quitting = true
	// Exit alt screen before quitting so the goodbye message displays
	return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)
}

// Root navigation mode
func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active, hasActive := m.store.ActiveNote()

	switch msg.String() {
	case "q":
		return m.quit()

	case "up", "k":
		if m.columnFocus == focusTags && m.tagCursor > 0 {
			m.selectTag(m.tagCursor - 1)
		}
		if m.columnFocus == focusNotes && m.noteCursor > 0 {
			m.selectNote(m.noteCursor - 1)
		}

	case "down", "j":
		if m.columnFocus == focusTags && m.tagCursor < len(m.tags) {
			m.selectTag(m.tagCursor + 1)
		}
		if m.columnFocus == focusNotes && m.noteCursor < len(m.visible)-1 {
			m.selectNote(m.noteCursor + 1)
		}

	case "right", "l":
		if m.columnFocus < focusEditor {
			m.columnFocus++
		}

	case "left", "h":
		if m.columnFocus > focusTags {
			m.columnFocus--
		}

	case "n":
		m.store.CreateNote()
		m.columnFocus = focusNotes
		m.refresh()
		m.status = "Created a new note"

	case "d":
		if hasActive {
			m.deleteConfirmIdx = 1
			m.mode = modeDeleting
		}

	case "p":
		if hasActive {
			m.store.TogglePinNote(active.ID)
			m.refresh()
		}

	case "/":
		m.searchBefore = m.state.SearchTerm
		return m, m.startInput(modeSearch, "Search notes", m.state.SearchTerm)

	case "e":
		if hasActive {
			return m, m.startInput(modeTitle, notes.DefaultTitle, active.Title)
		}

	case "t":
		if hasActive {
			return m, m.startInput(modeAddTag, "Add a tag", "")
		}

	case "x":
		if hasActive && len(active.Tags) > 0 {
			return m, m.startInput(modeRemoveTag, "Tag to remove", active.Tags[len(active.Tags)-1])
		}

	case "enter", "c":
		if hasActive {
			m.mode = modeContent
			m.columnFocus = focusEditor
			m.editingID = active.ID
			m.editSeq = 0
			m.dirty = false
			m.editor.SetValue(active.Content)
			m.resizeEditor()
			return m, m.editor.Focus()
		}

	case "D":
		m.store.ToggleDarkMode()
		m.refresh()

	case "y":
		if hasActive {
			return m, copyNote(active)
		}

	case "s":
		if hasActive {
			return m, downloadNote(active, "txt", m.opts.ExportDir)
		}

	case "S":
		if hasActive {
			return m, downloadNote(active, "pdf", m.opts.ExportDir)
		}

	case "esc":
		m.status = ""
		m.err = nil
	}

	return m, nil
}

// Single-line input modes: search, title, add tag, remove tag
func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.store.SetSearchTerm(m.searchBefore)
			m.refresh()
		}
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		if active, ok := m.store.ActiveNote(); ok {
			switch m.mode {
			case modeTitle:
				m.store.UpdateNote(active.ID, notes.NoteUpdate{Title: &value})

			case modeAddTag:
				tags, added := notes.AddTag(active.Tags, value)
				if added {
					m.store.UpdateNote(active.ID, notes.NoteUpdate{Tags: &tags})
				} else if strings.TrimSpace(value) != "" {
					m.status = fmt.Sprintf("'%s' is already tagged", strings.TrimSpace(value))
				}

			case modeRemoveTag:
				tags, removed := notes.RemoveTag(active.Tags, strings.TrimSpace(value))
				if removed {
					m.store.UpdateNote(active.ID, notes.NoteUpdate{Tags: &tags})
				} else {
					m.status = fmt.Sprintf("No tag '%s' on this note", value)
				}
			}
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch && m.input.Value() != m.state.SearchTerm {
		m.store.SetSearchTerm(m.input.Value())
		m.refresh()
	}
	return m, cmd
}

// Content editing: every change restarts the save timer
func (m model) updateContent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.flush()
		m.stopEditing()
		m.refresh()
		return m, nil
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() == before {
		return m, cmd
	}

	m.dirty = true
	m.editSeq++
	return m, tea.Batch(cmd, scheduleSave(m.editingID, m.editSeq, m.opts.Debounce))
}

// Delete confirmation
func (m model) updateDeleting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.deleteConfirmIdx = 0

	case "down", "j":
		m.deleteConfirmIdx = 1

	case "enter":
		if m.deleteConfirmIdx == 0 {
			if active, ok := m.store.ActiveNote(); ok {
				m.store.DeleteNote(active.ID)
				m.status = fmt.Sprintf("Deleted '%s'", active.Title)
			}
		}
		m.mode = modeBrowse
		m.refresh()

	case "esc":
		m.mode = modeBrowse
	}
	return m, nil
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Notes saved. Bye.\n"
	}
	st := m.styles

	titleText := "Jotter - notes"
	if m.state.SearchTerm != "" {
		titleText += fmt.Sprintf(" (search: %q)", m.state.SearchTerm)
	}
	titleBar := st.title.Width(m.width).Render(titleText)

	leftWidth, middleWidth, rightWidth := m.dynamicColumnWidth()
	panelHeight := m.height - 3

	leftPanel := m.viewTags(leftWidth, panelHeight)
	middlePanel := m.viewNotes(middleWidth, panelHeight)
	rightPanel := m.viewEditor(rightWidth, panelHeight)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)
	return titleBar + "\n\n" + columns + m.viewFooter()
}

func (m model) viewTags(width, height int) string {
	st := m.styles
	var tagsBuilder, infoBuilder strings.Builder

	tagsBuilder.WriteString(st.subtitle.Width(width - bordersAndPadding).Render("  Tags"))
	tagsBuilder.WriteString("\n\n")

	counts := make(map[string]int)
	for _, n := range m.state.Notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}

	entries := append([]string{"All"}, m.tags...)
	for i, name := range entries {
		label := name
		if i > 0 {
			label = fmt.Sprintf("#%s (%d)", name, counts[name])
		}
		availableWidth := width - 2 - bordersAndPadding - 1
		itemStyle := st.inactive
		pointer := generateLinePointer(false, 2)
		if i == m.tagCursor {
			itemStyle = st.selected
			pointer = generateLinePointer(m.columnFocus == focusTags, 2)
		}
		tagsBuilder.WriteString(pointer + itemStyle.Render(truncate(label, availableWidth)) + "\n")
	}

	storageStatus := 1
	storageText := m.opts.StorageInfo
	if err := m.store.Err(); err != nil {
		storageStatus = 2
		storageText = "save failed"
	}
	watchText, watchStatus := "off", 0
	if m.opts.Watching {
		watchText, watchStatus = "on", 1
	}
	theme := "light"
	if m.state.IsDarkMode {
		theme = "dark"
	}
	infoBuilder.WriteString(fmt.Sprintf("Notes: %d\nStorage: %s\nWatch: %s\nTheme: %s\n",
		len(m.state.Notes),
		st.statusColorize(storageText, storageStatus),
		st.statusColorize(watchText, watchStatus),
		st.statusColorize(theme, 0)))

	quarterHeight := height / 4
	tagsPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(st.border).
		Padding(0, 2).
		Width(width).Height(quarterHeight * 3).
		Render(tagsBuilder.String())
	infoPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(st.border).
		Padding(1, 2).
		Width(width).Height(quarterHeight).
		Render(infoBuilder.String())

	return lipgloss.JoinVertical(lipgloss.Left, tagsPanel, infoPanel)
}

func (m model) viewNotes(width, height int) string {
	st := m.styles
	var b strings.Builder

	b.WriteString(st.subtitle.Width(width - bordersAndPadding).Render("  Notes"))
	b.WriteString("\n")
	if m.mode == modeSearch {
		m.input.Width = width - bordersAndPadding - 4
		b.WriteString("  " + m.input.View() + "\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		if len(m.state.Notes) == 0 {
			b.WriteString("  No notes yet. Press 'n' to create one.\n")
		} else {
			b.WriteString("  No notes match.\n")
		}
	}

	activeID := m.state.ActiveID()
	for i, n := range m.visible {
		pointer := generateLinePointer(false, 2)
		itemStyle := st.inactive
		availableWidth := width - 2 - bordersAndPadding - 3

		title := n.Title
		if n.ID == activeID {
			itemStyle = st.selected
			if m.columnFocus == focusNotes && i == m.noteCursor {
				pointer = generateLinePointer(true, 2)
			}
			title = m.marqueeText(title, availableWidth)
		} else {
			title = truncate(title, availableWidth)
		}

		pin := "  "
		if n.IsPinned {
			pin = st.pin.Render("* ")
		}
		b.WriteString(pointer + pin + itemStyle.Render(lipgloss.NewStyle().MaxWidth(availableWidth).Render(title)) + "\n")
		b.WriteString("    " + st.dim.Render(render.Date(n.UpdatedAt)) + "\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(st.border).
		Padding(0, 2).
		Width(width).Height(height).
		Render(b.String())
}

func (m model) viewEditor(width, height int) string {
	st := m.styles
	var b strings.Builder

	subtitle := "Note"
	switch m.mode {
	case modeDeleting:
		subtitle = "Delete Note"
	case modeContent:
		subtitle = "Editing"
	}
	b.WriteString(st.subtitle.Width(width - bordersAndPadding).Render(subtitle))
	b.WriteString("\n\n")

	active, ok := m.store.ActiveNote()
	switch {
	case !ok:
		b.WriteString("No note selected. Press 'n' to create one.")

	case m.mode == modeDeleting:
		b.WriteString("Title: " + st.danger.Render(active.Title) + "\n\n")
		yesOpt, noOpt := "Yes", "No"
		if m.deleteConfirmIdx == 0 {
			yesOpt = st.dangerSelected.Render(" >" + yesOpt)
			noOpt = st.inactive.Render("  " + noOpt)
		} else {
			yesOpt = st.inactive.Render("  " + yesOpt)
			noOpt = st.selected.Render(" >" + noOpt)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")

	default:
		m.input.Width = width - bordersAndPadding - 8

		b.WriteString(st.label.Render("Title: "))
		if m.mode == modeTitle {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(st.text.Render(active.Title)))
		}
		b.WriteString("\n\n")

		tagsLine := "-"
		if len(active.Tags) > 0 {
			chips := make([]string, len(active.Tags))
			for i, t := range active.Tags {
				chips[i] = "#" + t
			}
			tagsLine = strings.Join(chips, " ")
		}
		b.WriteString(st.label.Render("Tags: ") + st.tag.Render(tagsLine))
		if m.mode == modeAddTag || m.mode == modeRemoveTag {
			b.WriteString("\n      " + m.input.View())
		}
		b.WriteString("\n\n")

		if m.mode == modeContent {
			b.WriteString(m.editor.View())
		} else {
			body := render.ContentText(active.Content)
			if body == "" {
				body = st.dim.Render("Empty note. Press enter to write.")
			}
			b.WriteString(st.text.Render(body))
		}
		b.WriteString("\n\n")
		b.WriteString(st.dim.Render(fmt.Sprintf("Created %s • Updated %s",
			render.Date(active.CreatedAt), render.DateTime(active.UpdatedAt))))
	}

	return lipgloss.NewStyle().Padding(0, 2).
		Width(width).Height(height).
		Render(b.String())
}

func (m model) viewFooter() string {
	st := m.styles

	var help string
	switch m.mode {
	case modeSearch:
		help = "type to filter • enter to keep • esc to cancel"
	case modeTitle, modeAddTag, modeRemoveTag:
		help = "enter to save • esc to cancel"
	case modeContent:
		help = "saves while you type • esc to stop editing"
	case modeDeleting:
		help = "enter to confirm • esc to cancel"
	default:
		help = "↑/↓ navigate • ←/→ columns • n new • enter edit • e title • t/x tag • p pin • / search • d delete • y copy • s/S save txt/pdf • D theme • q quit"
	}

	footer := "\n" + st.footer.Width(m.width).Render(help)
	if m.err != nil {
		footer += "\n" + st.danger.Render("Error: "+m.err.Error())
	} else if m.status != "" {
		footer += "\n" + st.status.Render(m.status)
	}
	return footer
}

// ShowTUI runs the editor until the user quits. Pending edits are saved
// before it returns.
func ShowTUI(store *notes.Store, opts Options) error {
	m := initModel(store, opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(model); ok {
		fm.flush()
	}
	return err
}

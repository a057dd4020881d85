// Command ntfsmft-tui is an interactive browser over a scanned NTFS image: it streams mft.ScanImage results into
// a scrollable list while the scan runs in the background, and shows a detail pane for the selected entry.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/scanollie/ntfsmft/mft"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	deletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

type state int

const (
	stateBrowsing state = iota
	stateDetail
)

// batchSize bounds how many decoded entries accumulate before being handed to the Elm update loop in one
// message; scanning a large image at one tea.Msg per entry would flood the program's mailbox.
const batchSize int = 200

type entryBatchMsg struct{ entries []mft.Entry }
type scanDoneMsg struct{ total int }
type scanErrMsg struct{ err error }

type entryItem struct{ entry mft.Entry }

func (i entryItem) Title() string {
	name := i.entry.Name
	if name == "" {
		name = fmt.Sprintf("(record %d, no filename)", i.entry.RecordNumber)
	}
	if !i.entry.InUse {
		return deletedStyle.Render(name)
	}
	return name
}

func (i entryItem) Description() string {
	kind := "file"
	if i.entry.IsDirectory {
		kind = "directory"
	}
	status := "in use"
	if !i.entry.InUse {
		status = "deleted"
	}
	return fmt.Sprintf("record %d, offset %d - %s, %s", i.entry.RecordNumber, i.entry.Offset, kind, status)
}

func (i entryItem) FilterValue() string { return i.entry.Name }

type model struct {
	state  state
	width  int
	height int
	err    error

	image   mmap.MMap
	msgCh   chan tea.Msg
	scanned int
	total   int
	done    bool

	list    list.Model
	spinner spinner.Model
}

func newModel(image mmap.MMap) model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "MFT records"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return model{
		image:   image,
		msgCh:   make(chan tea.Msg),
		list:    l,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	go scanInBackground(m.image, m.msgCh)
	return tea.Batch(m.spinner.Tick, waitForScanMsg(m.msgCh))
}

// scanInBackground drives mft.ScanImage to completion, feeding batched results back over ch so the Elm update
// loop never blocks on a single slow consumer call; it closes nothing, it just stops sending after scanDoneMsg.
func scanInBackground(image []byte, ch chan tea.Msg) {
	batch := make([]mft.Entry, 0, batchSize)
	count := 0
	for entry := range mft.ScanImage(image) {
		batch = append(batch, entry)
		count++
		if len(batch) >= batchSize {
			ch <- entryBatchMsg{entries: batch}
			batch = make([]mft.Entry, 0, batchSize)
		}
	}
	if len(batch) > 0 {
		ch <- entryBatchMsg{entries: batch}
	}
	ch <- scanDoneMsg{total: count}
}

func waitForScanMsg(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateBrowsing {
				return m, tea.Quit
			}
		case "esc":
			if m.state == stateDetail {
				m.state = stateBrowsing
				return m, nil
			}
		case "enter":
			if m.state == stateBrowsing && m.list.SelectedItem() != nil {
				m.state = stateDetail
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case entryBatchMsg:
		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = entryItem{entry: e}
		}
		m.scanned += len(msg.entries)
		for _, it := range items {
			m.list.InsertItem(len(m.list.Items()), it)
		}
		return m, waitForScanMsg(m.msgCh)

	case scanDoneMsg:
		m.done = true
		m.total = msg.total
		return m, nil

	case scanErrMsg:
		m.err = msg.err
		m.done = true
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == stateBrowsing {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(" ntfsmft "))
	s.WriteString("  ")
	if m.done {
		s.WriteString(fmt.Sprintf("scan complete: %d records", m.total))
	} else {
		s.WriteString(m.spinner.View())
		s.WriteString(fmt.Sprintf(" scanning... %d records so far", m.scanned))
	}
	s.WriteString("\n\n")

	switch m.state {
	case stateDetail:
		s.WriteString(m.viewDetail())
	default:
		s.WriteString(m.list.View())
	}

	if m.err != nil {
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("enter: details  esc: back  q: quit"))
	return s.String()
}

func (m model) viewDetail() string {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return "no entry selected"
	}
	e := item.entry

	var s strings.Builder
	s.WriteString(subtitleStyle.Render(item.Title()))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("record number:   %d\n", e.RecordNumber))
	s.WriteString(fmt.Sprintf("sequence number: %d\n", e.SequenceNumber))
	s.WriteString(fmt.Sprintf("offset in image: %d\n", e.Offset))
	s.WriteString(fmt.Sprintf("hard links:      %d\n", e.HardLinkCount))
	s.WriteString(fmt.Sprintf("parent record:   %d (seq %d)\n", e.ParentDirectory.RecordNumber, e.ParentDirectory.SequenceNumber))
	s.WriteString(fmt.Sprintf("size:            %d bytes (%d allocated)\n", e.RealSize, e.AllocatedSize))

	if e.StandardInformation != nil {
		si := e.StandardInformation
		s.WriteString("\ntimestamps:\n")
		s.WriteString(fmt.Sprintf("  created:      %s\n", si.Creation.Format("2006-01-02 15:04:05")))
		s.WriteString(fmt.Sprintf("  modified:     %s\n", si.FileLastModified.Format("2006-01-02 15:04:05")))
		s.WriteString(fmt.Sprintf("  mft modified: %s\n", si.MftLastModified.Format("2006-01-02 15:04:05")))
		s.WriteString(fmt.Sprintf("  accessed:     %s\n", si.LastAccess.Format("2006-01-02 15:04:05")))
	}

	if e.ObjectID != nil {
		s.WriteString(fmt.Sprintf("\nobject id: %s\n", e.ObjectID.ObjectId))
	}

	if e.ReparsePoint != nil {
		s.WriteString(fmt.Sprintf("\nreparse tag 0x%08X -> %s\n", e.ReparsePoint.Tag, e.ReparsePoint.TargetPath))
	}

	if len(e.Alternates) > 0 {
		s.WriteString("\nalternate names:\n")
		for _, alt := range e.Alternates {
			s.WriteString(fmt.Sprintf("  %s (namespace %d)\n", alt.Name, alt.Namespace))
		}
	}

	if len(e.DataStreams) > 0 {
		s.WriteString("\ndata streams:\n")
		for _, ds := range e.DataStreams {
			name := ds.Name
			if name == "" {
				name = "(unnamed)"
			}
			if ds.Resident {
				s.WriteString(fmt.Sprintf("  %s: resident, %d bytes\n", name, ds.Size))
				continue
			}
			s.WriteString(fmt.Sprintf("  %s: non-resident, %d bytes, %d data runs\n", name, ds.Size, len(ds.DataRuns)))
			for _, run := range ds.DataRuns {
				if run.Sparse {
					s.WriteString(fmt.Sprintf("    sparse, %d clusters\n", run.ClusterCount))
					continue
				}
				s.WriteString(fmt.Sprintf("    lcn %d, %d clusters\n", run.ClusterOffset, run.ClusterCount))
			}
		}
	}

	return s.String()
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <image>\n", os.Args[0])
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	image, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to memory-map image: %v\n", err)
		os.Exit(1)
	}
	defer image.Unmap()

	p := tea.NewProgram(newModel(image), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

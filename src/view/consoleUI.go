package view

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"entropylife/src/universe"
)

const (
	panStep = 8
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is the interactive terminal viewer
// the field pane shows a snapshot of the viewport, which can be panned around the torus
type ConsoleUI struct {
	u     *universe.Universe
	e     *universe.Engine
	queue *universe.EventQueue
	g     *gocui.Gui
	k     []keyBindings

	liveFiller string
	deadFiller string

	mu     sync.Mutex
	origin universe.Point
	status universe.Status
	notice string
}

// NewViewTerminal creates the viewer, queue is used for the manual injections
func NewViewTerminal(u *universe.Universe, e *universe.Engine, q *universe.EventQueue) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		u:          u,
		e:          e,
		queue:      q,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("creating terminal ui: %w", err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeyArrowLeft, "←", "Pan left", t.cmdPan(-panStep, 0), ""},
		{gocui.KeyArrowRight, "→", "Pan right", t.cmdPan(panStep, 0), ""},
		{gocui.KeyArrowUp, "↑", "Pan up", t.cmdPan(0, -panStep), ""},
		{gocui.KeyArrowDown, "↓", "Pan down", t.cmdPan(0, panStep), ""},
		{'c', "C", "Back to origin", t.cmdHome, ""},
		{'i', "I", "Inject at center", t.cmdInjectCenter, ""},
		{gocui.MouseLeft, "MOUSE", "Inject here", t.cmdMouseClick, "field"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("binding %s: %w", kb.name, err)
		}
	}
	return nil
}

// Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// Stop ends the main loop from any goroutine, Start returns afterwards
func (t *ConsoleUI) Stop() {
	t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
}

// Refresh implements universe.Viewer, it is called from the engine goroutine
func (t *ConsoleUI) Refresh(st universe.Status) {
	t.mu.Lock()
	t.status = st
	if st.Injected {
		t.notice = fmt.Sprintf("%v at %v,%v", st.InjectedPattern, st.InjectedAt.X, st.InjectedAt.Y)
	}
	t.mu.Unlock()
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g)
		t.renderStatus(g)
		return nil
	})
}

// viewport returns the world bounds shown by the field pane
func (t *ConsoleUI) viewport(v *gocui.View) universe.WorldBounds {
	maxW, maxH := v.Size()
	t.mu.Lock()
	defer t.mu.Unlock()
	return universe.WorldBounds{X: t.origin.X, Y: t.origin.Y, W: maxW, H: maxH}
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View("field")
	if err != nil {
		return
	}
	v.Clear()
	b := t.viewport(v)
	if b.W <= 0 || b.H <= 0 {
		return
	}
	a, err := t.u.Snapshot(b)
	if err != nil {
		_, _ = fmt.Fprint(v, aurora.Red(err.Error()).BgBlack().String())
		return
	}
	_, _ = fmt.Fprint(v, RenderText(a, t.liveFiller, t.deadFiller))
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, err := g.View("status")
	if err != nil {
		return
	}
	t.mu.Lock()
	s, origin, notice := t.status, t.origin, t.notice
	t.mu.Unlock()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Step", "%v", s.IterationNum))
	_, _ = fmt.Fprintln(v, t.renderProp("Slot", "%v", s.CurrentTime))
	_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Viewport", "%v,%v", origin.X, origin.Y))
	_, _ = fmt.Fprintln(v, t.renderProp("Pending", "%v", t.queue.Len()))
	if notice != "" {
		_, _ = fmt.Fprintln(v, t.renderProp("Last injection", "%v", notice))
	}
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, err := g.View("configuration")
	if err != nil {
		return
	}
	c := t.u.Options()
	eo := t.e.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Width, c.Height))
	_, _ = fmt.Fprintln(v, t.renderProp("History", "%v slots", c.History))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", eo.Interval))
	_, _ = fmt.Fprintln(v, t.renderProp("Workers", "%v", eo.Workers))
	_, _ = fmt.Fprintln(v, t.renderProp("Species", "%v", len(t.u.Patterns())))
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 32
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("field")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Entropy Life"); err != nil && err != gocui.ErrUnknownView {
		return err
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(g)
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}
	t.renderStatus(g)

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "World"
		v.Frame = true
	}
	t.renderField(g)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdPan(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		o := t.u.Options()
		t.mu.Lock()
		t.origin.X = ((t.origin.X+dx)%o.Width + o.Width) % o.Width
		t.origin.Y = ((t.origin.Y+dy)%o.Height + o.Height) % o.Height
		t.mu.Unlock()
		t.renderField(t.g)
		t.renderStatus(t.g)
		return nil
	}
}

func (t *ConsoleUI) cmdHome(_ *gocui.View) error {
	t.mu.Lock()
	t.origin = universe.Point{}
	t.mu.Unlock()
	t.renderField(t.g)
	t.renderStatus(t.g)
	return nil
}

func (t *ConsoleUI) cmdInjectCenter(_ *gocui.View) error {
	v, err := t.g.View("field")
	if err != nil {
		return nil
	}
	b := t.viewport(v)
	return t.inject(universe.Point{X: b.X + b.W/2, Y: b.Y + b.H/2})
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	b := t.viewport(v)
	return t.inject(universe.Point{X: b.X + cx, Y: b.Y + cy})
}

// inject queues a random species at the absolute point, the engine merges it on its next tick
func (t *ConsoleUI) inject(at universe.Point) error {
	patterns := t.u.Patterns()
	if len(patterns) == 0 {
		return nil
	}
	p := patterns[rand.IntN(len(patterns))]
	if err := t.queue.Send(universe.EntropyEvent{Pattern: p, Origin: &at}); err != nil {
		t.mu.Lock()
		t.notice = err.Error()
		t.mu.Unlock()
	}
	return nil
}

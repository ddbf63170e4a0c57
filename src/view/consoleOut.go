package view

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"

	"entropylife/src/universe"
)

// ConsoleOut prints the running configuration and the progress of the simulation
type ConsoleOut struct {
	w         io.Writer
	every     int
	startTime time.Time
	colors    aurora.Aurora
}

// NewConsoleOut creates the printer, a progress line is printed every `every` iterations
func NewConsoleOut(w io.Writer, every int, colored bool) *ConsoleOut {
	if every < 1 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, colors: aurora.NewAurora(colored)}
}

// Refresh implements universe.Viewer
func (c *ConsoleOut) Refresh(st universe.Status) {
	if st.Injected {
		_, _ = fmt.Fprintf(c.w, "  %v %v at %v,%v (iteration %v)\n",
			c.colors.Magenta("injected"), st.InjectedPattern, st.InjectedAt.X, st.InjectedAt.Y, st.IterationNum)
	}
	if st.IterationNum%c.every == 0 {
		_, _ = fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v, slot: %v, tick: %v\n",
			c.colors.Cyan(st.IterationNum), c.colors.Green(st.LiveCells), st.CurrentTime,
			st.IterationTime.Round(time.Microsecond))
	}
}

// Register prints the running configuration
func (c *ConsoleOut) Register(u *universe.Universe, e *universe.Engine, details map[string]interface{}) {
	o := u.Options()
	eo := e.Options()
	_, _ = fmt.Fprintln(c.w, c.colors.Bold("Running configuration:"))
	_, _ = fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	_, _ = fmt.Fprintf(c.w, "  History: %v slots\n", o.History)
	_, _ = fmt.Fprintf(c.w, "  Interval: %v\n", eo.Interval)
	_, _ = fmt.Fprintf(c.w, "  Workers: %v\n", eo.Workers)
	if eo.MaxSteps > 0 {
		_, _ = fmt.Fprintf(c.w, "  Max iterations: %v steps\n", eo.MaxSteps)
	}
	_, _ = fmt.Fprintf(c.w, "  Species: %v patterns\n", len(u.Patterns()))
	c.printHashData(details)
}

// Start marks the simulation start
func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
}

// Finish prints the summary
func (c *ConsoleOut) Finish(u *universe.Universe) {
	totalTime := time.Since(c.startTime).Round(time.Millisecond)
	resultData := map[string]interface{}{
		"Current slot": u.CurrentTime(),
		"Total time":   totalTime,
	}
	if live, err := u.LiveCells(); err == nil {
		resultData["Live cells"] = live
	}
	_, _ = fmt.Fprintln(c.w, c.colors.Red("\nFinished:"))
	c.printHashData(resultData)
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}

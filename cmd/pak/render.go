package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/polydawn/refmt"
	"github.com/polydawn/refmt/json"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/format"
)

/*
	Drains a pak.Monitor in the background, rendering each event as it arrives.

	In json format, every event is one line of json on stdout.
	In dumb format, logs go through a leveled logger on stderr.
*/
type renderer struct {
	cli    baseCLI
	stdout io.Writer
	logger *log.Logger
	done   chan struct{}
}

func newRenderer(cli baseCLI, stdout, stderr io.Writer) *renderer {
	level := log.InfoLevel
	switch {
	case cli.Quiet:
		level = log.WarnLevel
	case cli.Verbose:
		level = log.DebugLevel
	}
	return &renderer{
		cli:    cli,
		stdout: stdout,
		logger: log.NewWithOptions(stderr, log.Options{
			Level:  level,
			Prefix: "pak",
		}),
	}
}

/*
	Starts rendering and returns the monitor to hand to one operation.
	The operation closes the monitor's channel when it returns.
*/
func (r *renderer) Monitor() pak.Monitor {
	if r.done != nil {
		panic("renderer can only serve one monitor")
	}
	ch := make(chan pak.Event)
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		for evt := range ch {
			r.render(evt)
		}
	}()
	return pak.Monitor{Chan: ch}
}

// Blocks until the monitor's channel is closed.  Returns immediately if no monitor was handed out.
func (r *renderer) Wait() {
	if r.done != nil {
		<-r.done
	}
}

func (r *renderer) render(evt pak.Event) {
	if evt.Progress != nil && !r.cli.ProgressEnable {
		return
	}
	switch r.cli.Format {
	case FmtJson:
		if evt.Log != nil && !r.wants(evt.Log.Level) {
			return
		}
		writeJSONLine(r.stdout, &evt)
	case FmtDumb:
		switch {
		case evt.Log != nil:
			keyvals := make([]interface{}, 0, 2*len(evt.Log.Detail))
			for _, kv := range evt.Log.Detail {
				keyvals = append(keyvals, kv[0], kv[1])
			}
			r.logger.Log(logLevel(evt.Log.Level), evt.Log.Msg, keyvals...)
		case evt.Progress != nil:
			r.logger.Info(evt.Progress.Phase,
				"entry", evt.Progress.Desc,
				"done", fmt.Sprintf("%d/%d", evt.Progress.TotalProg, evt.Progress.TotalWork),
			)
		}
	}
}

// One compact object per line, so a stream of events stays line-oriented.
func writeJSONLine(w io.Writer, ev *pak.Event) {
	marshaller := refmt.NewMarshallerAtlased(json.EncodeOptions{}, w, pak.Atlas)
	if err := marshaller.Marshal(ev); err != nil {
		panic(err)
	}
	fmt.Fprintln(w)
}

func (r *renderer) wants(level pak.LogLevel) bool {
	switch {
	case r.cli.Quiet:
		return level >= pak.LogWarn
	case r.cli.Verbose:
		return true
	default:
		return level >= pak.LogInfo
	}
}

func logLevel(level pak.LogLevel) log.Level {
	switch level {
	case pak.LogError:
		return log.ErrorLevel
	case pak.LogWarn:
		return log.WarnLevel
	case pak.LogInfo:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

func listing(tableSize int32, entries []pakformat.Entry) *pak.Listing {
	l := &pak.Listing{TableSize: tableSize, Entries: make([]pak.ListingEntry, len(entries))}
	for i, e := range entries {
		l.Entries[i] = pak.ListingEntry{Name: e.Name, Offset: e.Offset, Size: e.Size}
	}
	return l
}

/*
	Writes the final result of a command.

	In json format, the result (including any error) is one json object
	on stdout.  In dumb format, success prints the interesting part of the
	result on stdout, and failure prints the error on stderr.
*/
func SerializeResult(format string, result pak.Event_Result, resultErr error, stdout io.Writer, stderr io.Writer) {
	result.SetError(resultErr)
	ev := pak.Event{Result: &result}
	switch format {
	case FmtJson:
		writeJSONLine(stdout, &ev)
	case FmtDumb:
		switch {
		case resultErr != nil:
			fmt.Fprintln(stderr, resultErr)
		case result.Listing != nil:
			for _, e := range result.Listing.Entries {
				fmt.Fprintf(stdout, "%10d %10d  %s\n", e.Offset, e.Size, e.Name)
			}
		case result.ArchiveID != (pak.ArchiveID{}) && result.Path != "":
			fmt.Fprintf(stdout, "%s\t%s\n", result.Path, result.ArchiveID)
		default:
			fmt.Fprintln(stdout, result.Path)
		}
	default:
		panic(fmt.Errorf("pak: invalid format %s", format))
	}
}

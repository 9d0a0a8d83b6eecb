package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Destinations accepted by Setup. These mirror the logDestination values in
// the configuration file.
const (
	Stderr  = "stderr"
	Journal = "systemJournal"
	File    = "file"
)

var journal bool

// Setup points the standard logger at the configured destination. It runs
// once at process start. systemJournal expects stderr to be connected to
// journald and tags each line with an sd-daemon priority prefix; journald
// supplies its own timestamps, so the flags stay empty there.
func Setup(destination, path string) error {
	journal = false
	switch destination {
	case "", Stderr:
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	case Journal:
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
		journal = true
	case File:
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		log.SetOutput(f)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	default:
		return fmt.Errorf("unknown log destination %q", destination)
	}
	return nil
}

// Infof logs normal progress.
func Infof(format string, v ...interface{}) {
	emit("<6>", "", format, v...)
}

// Warningf logs soft anomalies that do not fail a stage.
func Warningf(format string, v ...interface{}) {
	emit("<4>", "warning: ", format, v...)
}

// Errorf logs hard stage failures.
func Errorf(format string, v ...interface{}) {
	emit("<3>", "error: ", format, v...)
}

func emit(priority, label, format string, v ...interface{}) {
	msg := label + fmt.Sprintf(format, v...)
	if journal {
		// journald assigns priority per line; prefix every line, not just the first
		msg = priority + strings.ReplaceAll(strings.TrimRight(msg, "\n"), "\n", "\n"+priority)
	}
	// calldepth 3 reports the Infof/Warningf/Errorf call site.
	_ = log.Output(3, msg)
}
